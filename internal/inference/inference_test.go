// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biorel-index/internal/vocab"
	"github.com/pdiddy/biorel-index/pkg/types"
)

func ev(rel string, meta types.MetaCategory, actor, target *string, container string) types.EvidenceRecord {
	return types.EvidenceRecord{
		Rel:       rel,
		MetaRel:   meta,
		Actor:     actor,
		Target:    target,
		Entities:  []*string{actor, target},
		Container: container,
	}
}

var s = types.StrPtr

// fixture builds a small graph:
//
//	MAPK1 -Phosphorylation-> ELK1
//	RAF1  -Phosphorylation-> MAPK1
//	PP2A  -Dephosphorylation-> MAPK1
//	?     -Phosphorylation-> RAF1 (missing enzyme)
//	TP53  -Activation-> MDM2
//	MDM2  -Inhibition-> TP53
//	A     -Complex-> B
func fixture() *types.Aggregate[types.EvidenceRecord] {
	agg := types.NewAggregate[types.EvidenceRecord]()
	agg.Add("1", ev("Phosphorylation", types.Modification, s("MAPK1"), s("ELK1"), "Phosphorylator-ELK1"))
	agg.Add("1", ev("Phosphorylation", types.Modification, s("RAF1"), s("MAPK1"), "Phosphorylator-MAPK1"))
	agg.Add("2", ev("Dephosphorylation", types.Modification, s("PP2A"), s("MAPK1"), "Dephosphorylator-MAPK1"))
	agg.Add("2", ev("Phosphorylation", types.Modification, nil, s("RAF1"), "Phosphorylator-RAF1"))
	agg.Add("3", ev("Activation", types.RegulateActivity, s("TP53"), s("MDM2"), "Activator-MDM2"))
	agg.Add("3", ev("Inhibition", types.RegulateActivity, s("MDM2"), s("TP53"), "Inhibitor-TP53"))
	agg.Add(types.UnknownPMID, ev("Complex", types.Other, s("A"), s("B"), "Complex-B"))
	agg.Add(types.UnknownPMID, ev("Activation", types.RegulateActivity, nil, s("TP53"), ""))
	return agg
}

func TestCollectActorNames(t *testing.T) {
	got := CollectActorNames(fixture())

	assert.True(t, got[CategoryEnzyme].Equal(mapset.NewSet("MAPK1", "RAF1", "PP2A", EnzymePlaceholder)))
	assert.True(t, got[CategorySubject].Equal(mapset.NewSet("TP53", "MDM2")), "missing subjects get no placeholder")
	assert.True(t, got[CategoryOther].Equal(mapset.NewSet("A")))
	assert.Equal(t, 7, got.Universe().Cardinality())
}

func TestCollectProteinContainers(t *testing.T) {
	got, skipped := CollectProteinContainers(fixture())

	assert.Equal(t, 2, skipped, "nil enzyme and nil subject are skipped")
	assert.True(t, got["MAPK1"].Equal(mapset.NewSet("Phosphorylator-ELK1")))
	assert.True(t, got["TP53"].Equal(mapset.NewSet("Activator-MDM2")))
	_, ok := got[EnzymePlaceholder]
	assert.False(t, ok, "containers are keyed by the literal role value")
}

func TestCollectRelationInference(t *testing.T) {
	agg := fixture()
	got, skipped := CollectRelationInference(agg, CollectActorNames(agg))

	assert.Equal(t, []string{"RAF1"}, got.Actors("MAPK1", "Phosphorylation_by"))
	assert.Equal(t, []string{"PP2A"}, got.Actors("MAPK1", "Dephosphorylation_by"))
	assert.Equal(t, []string{EnzymePlaceholder}, got.Actors("RAF1", "Phosphorylation_by"))
	assert.Equal(t, []string{"TP53"}, got.Actors("MDM2", "Activation_by"))
	assert.Equal(t, []string{"MDM2"}, got.Actors("TP53", "Inhibition_by"))

	// ELK1 and B are never actors, and the subject-less Activation has no actor.
	assert.Nil(t, got.Actors("ELK1", "Phosphorylation_by"))
	assert.Nil(t, got.Actors("B", "Complex_by"))
	assert.Equal(t, 3, skipped)
}

func TestActorsKnownTargetWithoutRelation(t *testing.T) {
	agg := fixture()
	got, _ := CollectRelationInference(agg, CollectActorNames(agg))

	actors := got.Actors("MAPK1", "Activation_by")
	assert.NotNil(t, actors, "MAPK1 is an actor, so its entry exists")
	assert.Empty(t, actors)
	assert.Nil(t, got.Actors("ELK1", "Activation_by"))
}

func TestBuildIsPure(t *testing.T) {
	agg := fixture()
	first, st1 := Build(agg)
	second, st2 := Build(agg)
	assert.Equal(t, st1, st2)
	assert.Equal(t, first.Relations.Edges(), second.Relations.Edges())
}

func TestAnnotate(t *testing.T) {
	agg := fixture()
	maps, _ := Build(agg)

	out, err := Annotate(agg, maps)
	require.NoError(t, err)
	assert.Equal(t, agg.Keys(), out.Keys())
	assert.Equal(t, agg.Count(), out.Count())

	// MAPK1 phosphorylates ELK1: MAPK1 is itself phosphorylated by RAF1 and
	// dephosphorylated by PP2A.
	first := out.Get("1")[0].Inference
	require.NotNil(t, first)
	assert.Equal(t, []string{"RAF1"}, first.RelByProteins)
	assert.Equal(t, []string{"PP2A"}, first.OppoRelByProteins)
	assert.Nil(t, first.TargetContainer)

	// RAF1 phosphorylates MAPK1, whose containers are known.
	second := out.Get("1")[1].Inference
	assert.Equal(t, []string{EnzymePlaceholder}, second.RelByProteins)
	assert.Equal(t, []string{}, second.OppoRelByProteins, "RAF1 is known but never dephosphorylated")
	assert.Equal(t, []string{"Phosphorylator-ELK1"}, second.TargetContainer)

	// TP53 activates MDM2; TP53 is inhibited by MDM2.
	act := out.Get("3")[0].Inference
	assert.Equal(t, []string{}, act.RelByProteins)
	assert.Equal(t, []string{"MDM2"}, act.OppoRelByProteins)
	assert.Equal(t, []string{"Inhibitor-TP53"}, act.TargetContainer)

	// The source aggregate is not modified.
	assert.Nil(t, agg.Get("1")[0].Inference)
}

func TestAnnotateFailsWithoutOpposite(t *testing.T) {
	agg := types.NewAggregate[types.EvidenceRecord]()
	agg.Add("1", ev("Gtpactivation", types.RegulateActivity, s("A"), s("B"), ""))
	_, err := Annotate(agg, Maps{})
	require.Error(t, err)
	assert.ErrorIs(t, err, vocab.ErrUnknown)
}

func TestRunAndEdges(t *testing.T) {
	out, maps, st, err := Run(fixture(), nil)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Count())
	assert.Equal(t, 3, st.RelationSkips)

	edges := maps.Relations.Edges()
	assert.Contains(t, edges, Edge{Actor: "RAF1", Target: "MAPK1", Rel: "Phosphorylation"})
	assert.Contains(t, edges, Edge{Actor: EnzymePlaceholder, Target: "RAF1", Rel: "Phosphorylation"})
	assert.Len(t, edges, 5)
}
