// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r, err := New("prose")
	require.NoError(t, err)
	assert.IsType(t, Prose{}, r)

	r, err = New("none")
	require.NoError(t, err)
	assert.IsType(t, Noop{}, r)

	_, err = New("spacy")
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	got, err := Noop{}.Recognize("TP53 binds MDM2.")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFunc(t *testing.T) {
	calls := 0
	r := Func(func(text string) (map[string][]string, error) {
		calls++
		return map[string][]string{"GENE": {text}}, nil
	})
	got, err := r.Recognize("TP53")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"GENE": {"TP53"}}, got)
	assert.Equal(t, 1, calls)
}

func TestProseGroupsByLabel(t *testing.T) {
	got, err := Prose{}.Recognize("Researchers in Boston and Paris studied the protein.")
	require.NoError(t, err)
	require.NotNil(t, got)
	for label, spans := range got {
		assert.NotEmpty(t, label)
		assert.NotEmpty(t, spans)
	}
}
