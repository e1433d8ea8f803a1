// Package stats computes aggregate statistics over the final fact
// population. Read-only: the population is never mutated.
package stats

import (
	"sort"

	"github.com/ppiankov/gnosia/internal/model"
)

// Compute summarizes the survived, deduplicated fact population.
// Groups appear in first-seen (insertion) order; the ranking is sorted
// descending by mean fitness with insertion order breaking ties.
func Compute(facts []model.Fact, coherenceScale float64) *model.Stats {
	s := &model.Stats{
		PerCategory: groupBy(facts, func(f *model.Fact) string { return f.CategoryID }),
		PerFormat:   groupBy(facts, func(f *model.Fact) string { return string(f.Format) }),
	}

	if len(facts) > 0 {
		var sum float64
		for i := range facts {
			sum += facts[i].Fitness
		}
		s.OverallCoherence = sum / float64(len(facts)) * coherenceScale
	}

	ranked := make([]model.GroupStat, len(s.PerCategory))
	copy(ranked, s.PerCategory)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanFitness > ranked[j].MeanFitness
	})
	s.Ranking = make([]string, len(ranked))
	for i, g := range ranked {
		s.Ranking[i] = g.Key
	}

	return s
}

func groupBy(facts []model.Fact, key func(*model.Fact) string) []model.GroupStat {
	order := make([]string, 0)
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for i := range facts {
		k := key(&facts[i])
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
		sums[k] += facts[i].Fitness
	}

	out := make([]model.GroupStat, 0, len(order))
	for _, k := range order {
		out = append(out, model.GroupStat{
			Key:         k,
			Count:       counts[k],
			MeanFitness: sums[k] / float64(counts[k]),
		})
	}
	return out
}
