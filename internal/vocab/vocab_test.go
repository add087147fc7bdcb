// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vocab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biorel-index/pkg/types"
)

func TestActionSymbol(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{"increases", "++"},
		{"decreases", "--"},
		{"affects", "->"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			got, err := ActionSymbol(tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupMissNamesValue(t *testing.T) {
	_, err := ActionSymbol("enhances")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknown))

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "enhances", verr.Value)
	assert.Equal(t, "interaction action", verr.Table)
	assert.Contains(t, err.Error(), `"enhances"`)
}

func TestProcessNoun(t *testing.T) {
	got, err := ProcessNoun("phosphorylation")
	require.NoError(t, err)
	assert.Equal(t, "Kinase", got)

	got, err = ProcessNoun("activity")
	require.NoError(t, err)
	assert.Equal(t, "Activator", got)

	_, err = ProcessNoun("teleportation")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestMetaCategoryIsPureAndClosed(t *testing.T) {
	allowed := map[types.MetaCategory]bool{
		types.Modification:     true,
		types.RegulateActivity: true,
		types.Other:            true,
	}
	for _, rel := range MetaCategories.Keys() {
		first, err := MetaCategory(rel)
		require.NoError(t, err)
		second, err := MetaCategory(rel)
		require.NoError(t, err)
		assert.Equal(t, first, second, rel)
		assert.True(t, allowed[first], "%s maps to %q", rel, first)
	}
}

func TestOppositeRelationsClosure(t *testing.T) {
	for _, rel := range OppositeRelations.Keys() {
		opp, err := Opposite(rel)
		require.NoError(t, err)
		back, err := Opposite(opp)
		require.NoError(t, err, "opposite of %s (%s) has no entry", rel, opp)
		assert.Equal(t, rel, back, "%s -> %s -> %s", rel, opp, back)
	}
}

func TestOppositeCoversEveryRelationType(t *testing.T) {
	for _, rel := range MetaCategories.Keys() {
		assert.True(t, OppositeRelations.Contains(rel), "no opposite for %s", rel)
	}
}

func TestSelfPairedRelations(t *testing.T) {
	for _, rel := range []string{"Complex", "Translocation"} {
		opp, err := Opposite(rel)
		require.NoError(t, err)
		assert.Equal(t, rel, opp)
	}
}
