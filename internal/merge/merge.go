// Package merge combines knowledge collections from independent runs
// via content-addressed hashing. The merge policy is monotonic-max on
// numeric quality fields, set-union on origins, latest-wins on
// freshness; it is associative and commutative, so processing
// collections in any order yields an identical knowledge base.
package merge

import (
	"fmt"
	"os"

	"github.com/ppiankov/gnosia/internal/model"
)

// Summary reports what the merger did, per item kind.
type Summary struct {
	Added      map[string]int `json:"added"`
	Merged     map[string]int `json:"merged"`
	Collisions int            `json:"collisions"`
	Coherence  float64        `json:"coherence"`
}

// Merger deduplicates and merges item collections.
type Merger struct {
	coherenceScale float64
}

// NewMerger creates a merger; scale is the coherence scaling constant.
func NewMerger(coherenceScale float64) *Merger {
	if coherenceScale <= 0 {
		coherenceScale = 1.5
	}
	return &Merger{coherenceScale: coherenceScale}
}

type entry struct {
	kind string
	idx  int
}

// Merge combines the inputs into one canonical knowledge base. Input
// collections are never mutated. A hash collision between items of
// incompatible kinds is downgraded to a warning; the first-seen item is
// kept.
func (m *Merger) Merge(inputs []*model.KnowledgeBase) (*model.KnowledgeBase, *Summary) {
	out := &model.KnowledgeBase{}
	summary := &Summary{
		Added:  make(map[string]int),
		Merged: make(map[string]int),
	}
	index := make(map[string]entry)

	for _, in := range inputs {
		if in == nil {
			continue
		}
		// Sources behave like origins: union without duplicates, and an
		// already-merged input contributes its own consumed list.
		out.Meta.ConsumedSources = model.MergeOrigins(out.Meta.ConsumedSources,
			append([]string{in.Meta.Source}, in.Meta.ConsumedSources...))
		for i := range in.Collections.Facts {
			m.mergeFact(out, index, summary, in.Collections.Facts[i])
		}
		for i := range in.Collections.Patterns {
			m.mergeItem(out, index, summary, model.KindPattern, in.Collections.Patterns[i])
		}
		for i := range in.Collections.Axioms {
			m.mergeItem(out, index, summary, model.KindAxiom, in.Collections.Axioms[i])
		}
		for i := range in.Collections.CrossReferences {
			m.mergeItem(out, index, summary, model.KindCrossReference, in.Collections.CrossReferences[i])
		}
	}

	out.SortCanonical()
	// Sorting invalidates the positional index; it is discarded here.
	out.CountItems()
	out.Meta.Failures.HashCollisions = summary.Collisions
	summary.Coherence = m.coherence(out.Collections.Facts)

	return out, summary
}

func (m *Merger) mergeFact(out *model.KnowledgeBase, index map[string]entry, summary *Summary, f model.Fact) {
	hash := f.Hash()
	existing, ok := index[hash]
	if !ok {
		f.Origins = model.MergeOrigins(f.Origins, nil)
		out.Collections.Facts = append(out.Collections.Facts, f)
		index[hash] = entry{kind: model.KindFact, idx: len(out.Collections.Facts) - 1}
		summary.Added[model.KindFact]++
		return
	}
	if existing.kind != model.KindFact {
		fmt.Fprintf(os.Stderr, "Warning: hash collision between %s and fact (%s); keeping first-seen\n", existing.kind, hash[:12])
		summary.Collisions++
		return
	}

	dst := &out.Collections.Facts[existing.idx]
	if f.Confidence > dst.Confidence {
		dst.Confidence = f.Confidence
	}
	if f.Fitness > dst.Fitness {
		dst.Fitness = f.Fitness
	}
	if f.Neighbors > dst.Neighbors {
		dst.Neighbors = f.Neighbors
	}
	dst.Validated = dst.Validated || f.Validated
	dst.ExternallyValidated = dst.ExternallyValidated || f.ExternallyValidated
	dst.Origins = model.MergeOrigins(dst.Origins, f.Origins)
	if f.LastSeen.After(dst.LastSeen) {
		dst.LastSeen = f.LastSeen
	}
	summary.Merged[model.KindFact]++
}

func (m *Merger) mergeItem(out *model.KnowledgeBase, index map[string]entry, summary *Summary, kind string, it model.Item) {
	hash := it.Hash()
	existing, ok := index[hash]
	if !ok {
		it.Origins = model.MergeOrigins(it.Origins, nil)
		slot := m.collection(out, kind)
		*slot = append(*slot, it)
		index[hash] = entry{kind: kind, idx: len(*slot) - 1}
		summary.Added[kind]++
		return
	}
	if existing.kind != kind {
		fmt.Fprintf(os.Stderr, "Warning: hash collision between %s and %s (%s); keeping first-seen\n", existing.kind, kind, hash[:12])
		summary.Collisions++
		return
	}

	slot := m.collection(out, kind)
	dst := &(*slot)[existing.idx]
	if it.Weight > dst.Weight {
		dst.Weight = it.Weight
	}
	dst.Origins = model.MergeOrigins(dst.Origins, it.Origins)
	if it.LastSeen.After(dst.LastSeen) {
		dst.LastSeen = it.LastSeen
	}
	summary.Merged[kind]++
}

func (m *Merger) collection(out *model.KnowledgeBase, kind string) *[]model.Item {
	switch kind {
	case model.KindPattern:
		return &out.Collections.Patterns
	case model.KindAxiom:
		return &out.Collections.Axioms
	default:
		return &out.Collections.CrossReferences
	}
}

func (m *Merger) coherence(facts []model.Fact) float64 {
	if len(facts) == 0 {
		return 0
	}
	var sum float64
	for i := range facts {
		sum += facts[i].Fitness
	}
	return sum / float64(len(facts)) * m.coherenceScale
}
