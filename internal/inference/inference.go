// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inference derives first-order facts from aggregated PPI evidence.
//
// Three passes fold an aggregate into set-valued maps: the actor names per
// category, the containers each actor takes part in, and for every target
// the actors that perform each relation on it. Annotate then walks the
// aggregate again and attaches, per evidence item, the other actors of the
// same relation, the actors of the opposite relation, and the containers
// of the target. The maps depend only on the aggregate they were built from.
package inference

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/vocab"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// EnzymePlaceholder stands in for a missing enzyme in Modification evidence.
const EnzymePlaceholder = "Enzyme"

// Actor categories of ActorNameSets.
const (
	CategoryEnzyme  = "enz"
	CategorySubject = "subj"
	CategoryOther   = "other"
)

// RelationSuffix is appended to a relation type to key RelationInferenceMap.
const RelationSuffix = "_by"

// ActorNameSets maps an actor category to the actor names seen in it.
type ActorNameSets map[string]mapset.Set[string]

// Universe returns every actor name across categories.
func (a ActorNameSets) Universe() mapset.Set[string] {
	all := mapset.NewSet[string]()
	for _, s := range a {
		all = all.Union(s)
	}
	return all
}

// ProteinContainerMap maps an actor name to the container labels it has
// been observed in.
type ProteinContainerMap map[string]mapset.Set[string]

// RelationInferenceMap maps target -> relation+"_by" -> actors.
type RelationInferenceMap map[string]map[string]mapset.Set[string]

// Actors returns the actors recorded for target under relKey. A target
// outside the actor universe gives nil; a known target with nothing under
// relKey gives an empty, non-nil slice.
func (m RelationInferenceMap) Actors(target, relKey string) []string {
	byRel, ok := m[target]
	if !ok {
		return nil
	}
	set, ok := byRel[relKey]
	if !ok {
		return []string{}
	}
	return sorted(set)
}

// Edge is one actor -> target relation in the inferred graph.
type Edge struct {
	Actor  string
	Target string
	Rel    string
}

// Edges flattens the map into a sorted edge list.
func (m RelationInferenceMap) Edges() []Edge {
	var edges []Edge
	for target, byRel := range m {
		for relKey, actors := range byRel {
			rel := relKey[:len(relKey)-len(RelationSuffix)]
			for _, actor := range actors.ToSlice() {
				edges = append(edges, Edge{Actor: actor, Target: target, Rel: rel})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Actor != b.Actor {
			return a.Actor < b.Actor
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Rel < b.Rel
	})
	return edges
}

// Maps bundles the three pass outputs.
type Maps struct {
	Actors     ActorNameSets
	Containers ProteinContainerMap
	Relations  RelationInferenceMap
}

// Stats counts the evidence items each pass skipped.
type Stats struct {
	ContainerSkips int
	RelationSkips  int
}

type evidence = types.EvidenceRecord

func each(agg *types.Aggregate[evidence], fn func(evidence)) {
	_ = agg.Each(func(_ string, _ int, r evidence) error {
		fn(r)
		return nil
	})
}

// actorName returns the acting entity of r. Only a Modification enzyme
// falls back to the placeholder.
func actorName(r evidence) (string, bool) {
	if r.Actor != nil && *r.Actor != "" {
		return *r.Actor, true
	}
	if r.MetaRel == types.Modification {
		return EnzymePlaceholder, true
	}
	return "", false
}

func targetName(r evidence) (string, bool) {
	if r.Target != nil && *r.Target != "" {
		return *r.Target, true
	}
	return "", false
}

func addTo(m map[string]mapset.Set[string], key, value string) {
	set, ok := m[key]
	if !ok {
		set = mapset.NewSet[string]()
		m[key] = set
	}
	set.Add(value)
}

// CollectActorNames gathers actor names per category: the enzyme (or the
// placeholder) for Modification, the subject for RegulateActivity, and the
// first entity otherwise.
func CollectActorNames(agg *types.Aggregate[evidence]) ActorNameSets {
	out := ActorNameSets{
		CategoryEnzyme:  mapset.NewSet[string](),
		CategorySubject: mapset.NewSet[string](),
		CategoryOther:   mapset.NewSet[string](),
	}
	each(agg, func(r evidence) {
		name, ok := actorName(r)
		if !ok {
			return
		}
		switch r.MetaRel {
		case types.Modification:
			out[CategoryEnzyme].Add(name)
		case types.RegulateActivity:
			out[CategorySubject].Add(name)
		default:
			out[CategoryOther].Add(name)
		}
	})
	return out
}

// CollectProteinContainers maps each actor, keyed by the literal role
// value, to its container labels. Items without an actor or a container
// are skipped and counted.
func CollectProteinContainers(agg *types.Aggregate[evidence]) (ProteinContainerMap, int) {
	out := make(ProteinContainerMap)
	skipped := 0
	each(agg, func(r evidence) {
		if r.Actor == nil || *r.Actor == "" || r.Container == "" {
			skipped++
			return
		}
		addTo(out, *r.Actor, r.Container)
	})
	return out, skipped
}

// CollectRelationInference records, for every target that is itself a
// known actor, which actors perform each relation on it. Items whose
// target or actor is missing or unknown are skipped and counted.
func CollectRelationInference(agg *types.Aggregate[evidence], actors ActorNameSets) (RelationInferenceMap, int) {
	universe := actors.Universe()
	out := make(RelationInferenceMap, universe.Cardinality())
	for _, name := range universe.ToSlice() {
		out[name] = make(map[string]mapset.Set[string])
	}

	skipped := 0
	each(agg, func(r evidence) {
		actor, ok := actorName(r)
		if !ok {
			skipped++
			return
		}
		target, ok := targetName(r)
		if !ok {
			skipped++
			return
		}
		byRel, ok := out[target]
		if !ok {
			skipped++
			return
		}
		addTo(byRel, r.Rel+RelationSuffix, actor)
	})
	return out, skipped
}

// Build runs the three collection passes.
func Build(agg *types.Aggregate[evidence]) (Maps, Stats) {
	var st Stats
	m := Maps{Actors: CollectActorNames(agg)}
	m.Containers, st.ContainerSkips = CollectProteinContainers(agg)
	m.Relations, st.RelationSkips = CollectRelationInference(agg, m.Actors)
	return m, st
}

// Annotate returns a copy of agg with Inference attached to every record.
// A relation type without an opposite is a *vocab.Error.
func Annotate(agg *types.Aggregate[evidence], maps Maps) (*types.Aggregate[evidence], error) {
	out := types.NewAggregate[evidence]()
	err := agg.Each(func(pmid string, _ int, r evidence) error {
		opposite, err := vocab.Opposite(r.Rel)
		if err != nil {
			return fmt.Errorf("annotating %s evidence for %s: %w", r.Rel, pmid, err)
		}
		inf := &types.Inference{}
		if actor, ok := actorName(r); ok {
			inf.RelByProteins = maps.Relations.Actors(actor, r.Rel+RelationSuffix)
			inf.OppoRelByProteins = maps.Relations.Actors(actor, opposite+RelationSuffix)
		}
		if target, ok := targetName(r); ok {
			if set, ok := maps.Containers[target]; ok {
				inf.TargetContainer = sorted(set)
			}
		}
		r.Inference = inf
		out.Add(pmid, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Run builds the maps from agg and annotates it.
func Run(agg *types.Aggregate[evidence], log *zap.Logger) (*types.Aggregate[evidence], Maps, Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}
	maps, st := Build(agg)
	log.Info("inference maps built",
		zap.Int("actors", maps.Actors.Universe().Cardinality()),
		zap.Int("proteins_with_containers", len(maps.Containers)),
		zap.Int("container_skips", st.ContainerSkips),
		zap.Int("relation_skips", st.RelationSkips))

	annotated, err := Annotate(agg, maps)
	if err != nil {
		return nil, Maps{}, st, err
	}
	return annotated, maps, st, nil
}

func sorted(set mapset.Set[string]) []string {
	out := set.ToSlice()
	sort.Strings(out)
	return out
}
