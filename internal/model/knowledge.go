package model

import (
	"encoding/json"
	"sort"
	"time"
)

// Item kinds carried by a knowledge collection besides facts.
const (
	KindFact           = "fact"
	KindPattern        = "pattern"
	KindAxiom          = "axiom"
	KindCrossReference = "cross_reference"
)

// Item is a non-fact knowledge record (pattern, axiom, cross-reference).
// Content is the natural identity key; when it is empty the merger falls
// back to hashing the canonicalized payload.
type Item struct {
	Content  string         `json:"content,omitempty"`
	Weight   float64        `json:"weight,omitempty"`
	Origins  []string       `json:"origins,omitempty"`
	LastSeen time.Time      `json:"last_seen,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Hash returns the content-addressed hash of the item. Items without a
// content field hash their canonical (sorted-key) JSON payload.
func (it *Item) Hash() string {
	if it.Content != "" {
		return HashContent(NormalizeTerm(it.Content))
	}
	return HashContent(canonicalJSON(it.Payload))
}

// canonicalJSON renders a payload with deterministic key order.
// encoding/json already sorts map keys, which is the property we rely on.
func canonicalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Collections groups the named item collections of a knowledge base.
type Collections struct {
	Facts           []Fact `json:"facts"`
	Patterns        []Item `json:"patterns,omitempty"`
	Axioms          []Item `json:"axioms,omitempty"`
	CrossReferences []Item `json:"cross_references,omitempty"`
}

// FailureCounts surfaces recoverable failures in output metadata. The
// batch always completes; these record what was skipped along the way.
type FailureCounts struct {
	DocumentsSkipped    int `json:"documents_skipped,omitempty"`
	StructuredFallbacks int `json:"structured_fallbacks,omitempty"`
	CollectionsSkipped  int `json:"collections_skipped,omitempty"`
	HashCollisions      int `json:"hash_collisions,omitempty"`
}

// Meta is the self-describing header of a knowledge base document.
type Meta struct {
	Source          string         `json:"source"`
	GeneratedAt     time.Time      `json:"generated_at"`
	ItemCounts      map[string]int `json:"item_counts,omitempty"`
	ValidationRatio float64        `json:"validation_ratio"`
	ConsumedSources []string       `json:"consumed_sources,omitempty"`
	Failures        FailureCounts  `json:"failures,omitempty"`
}

// KnowledgeBase is the deduplicated, filtered fact set plus aggregate
// statistics, persisted across runs.
type KnowledgeBase struct {
	Meta        Meta        `json:"meta"`
	Collections Collections `json:"collections"`
	Stats       *Stats      `json:"stats,omitempty"`
}

// CountItems recomputes Meta.ItemCounts and the validation ratio from the
// current collections.
func (kb *KnowledgeBase) CountItems() {
	counts := map[string]int{
		KindFact:           len(kb.Collections.Facts),
		KindPattern:        len(kb.Collections.Patterns),
		KindAxiom:          len(kb.Collections.Axioms),
		KindCrossReference: len(kb.Collections.CrossReferences),
	}
	kb.Meta.ItemCounts = counts

	validated := 0
	for i := range kb.Collections.Facts {
		if kb.Collections.Facts[i].Validated {
			validated++
		}
	}
	if len(kb.Collections.Facts) > 0 {
		kb.Meta.ValidationRatio = float64(validated) / float64(len(kb.Collections.Facts))
	} else {
		kb.Meta.ValidationRatio = 0
	}
}

// SortCanonical orders every collection by item hash so that merge output
// is identical regardless of input order.
func (kb *KnowledgeBase) SortCanonical() {
	sort.SliceStable(kb.Collections.Facts, func(i, j int) bool {
		return kb.Collections.Facts[i].Identity() < kb.Collections.Facts[j].Identity()
	})
	for _, items := range [][]Item{kb.Collections.Patterns, kb.Collections.Axioms, kb.Collections.CrossReferences} {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Hash() < items[j].Hash()
		})
	}
	sort.Strings(kb.Meta.ConsumedSources)
}

// Stats summarizes the final fact population. Computed read-only by the
// aggregator; never mutates the population.
type Stats struct {
	PerCategory      []GroupStat `json:"per_category"`
	PerFormat        []GroupStat `json:"per_format"`
	OverallCoherence float64     `json:"overall_coherence"`
	Ranking          []string    `json:"ranking,omitempty"`
}

// GroupStat is a per-group count and mean fitness.
type GroupStat struct {
	Key         string  `json:"key"`
	Count       int     `json:"count"`
	MeanFitness float64 `json:"mean_fitness"`
}

// MergeOrigins returns the sorted union of two origin lists.
func MergeOrigins(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, o := range list {
			if o == "" || seen[o] {
				continue
			}
			seen[o] = true
			out = append(out, o)
		}
	}
	sort.Strings(out)
	return out
}
