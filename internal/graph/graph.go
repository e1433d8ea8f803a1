// Package graph computes per-fact neighbor counts over a raw fact
// population. The neighbor relation is symmetric; the bucket-indexed
// implementation is the reference one and produces results identical to
// the naive pairwise version.
package graph

import (
	"github.com/ppiankov/gnosia/internal/model"
)

// Related reports whether two facts are neighbors. The relation is
// symmetric by construction: every clause either compares symmetric
// properties or checks both directions.
func Related(a, b *model.Fact) bool {
	// Shared subject or object string.
	if model.NormalizeTerm(a.Subject) == model.NormalizeTerm(b.Subject) {
		return true
	}
	if model.NormalizeTerm(a.Object) == model.NormalizeTerm(b.Object) {
		return true
	}

	// Both oracle-validated in the same category.
	if a.Validated && b.Validated && a.CategoryID == b.CategoryID {
		return true
	}

	// Dependency link in either direction.
	if containsString(a.Dependencies, b.CategoryID) || containsString(b.Dependencies, a.CategoryID) {
		return true
	}

	// Same format tag but different origin document.
	if a.Format == b.Format && a.Origin() != b.Origin() {
		return true
	}

	// Same category but different origin document.
	if a.CategoryID == b.CategoryID && a.Origin() != b.Origin() {
		return true
	}

	return false
}

// NeighborCounts returns the neighbor count for each fact using bucket
// indexes over subject, object, category, declared dependencies, and
// format. Candidate sets from the buckets are verified with Related so
// the result matches the naive pairwise computation exactly.
func NeighborCounts(facts []model.Fact) []int {
	n := len(facts)
	counts := make([]int, n)
	if n < 2 {
		return counts
	}

	subjectIdx := make(map[string][]int)
	objectIdx := make(map[string][]int)
	categoryIdx := make(map[string][]int)
	dependentIdx := make(map[string][]int) // dep id -> facts declaring it
	formatIdx := make(map[model.FormatTag][]int)

	for i := range facts {
		f := &facts[i]
		subjectIdx[model.NormalizeTerm(f.Subject)] = append(subjectIdx[model.NormalizeTerm(f.Subject)], i)
		objectIdx[model.NormalizeTerm(f.Object)] = append(objectIdx[model.NormalizeTerm(f.Object)], i)
		categoryIdx[f.CategoryID] = append(categoryIdx[f.CategoryID], i)
		for _, dep := range f.Dependencies {
			dependentIdx[dep] = append(dependentIdx[dep], i)
		}
		formatIdx[f.Format] = append(formatIdx[f.Format], i)
	}

	seen := make([]int, n) // generation marker, avoids clearing a map per fact
	generation := 0

	for i := range facts {
		f := &facts[i]
		generation++

		consider := func(candidates []int) {
			for _, j := range candidates {
				if j == i || seen[j] == generation {
					continue
				}
				seen[j] = generation
				if Related(f, &facts[j]) {
					counts[i]++
				}
			}
		}

		consider(subjectIdx[model.NormalizeTerm(f.Subject)])
		consider(objectIdx[model.NormalizeTerm(f.Object)])
		consider(categoryIdx[f.CategoryID])
		for _, dep := range f.Dependencies {
			consider(categoryIdx[dep])
		}
		consider(dependentIdx[f.CategoryID])
		consider(formatIdx[f.Format])
	}

	return counts
}

// NaiveNeighborCounts is the O(n²) pairwise computation, kept as the
// oracle for equivalence testing and for very small populations.
func NaiveNeighborCounts(facts []model.Fact) []int {
	counts := make([]int, len(facts))
	for i := range facts {
		for j := i + 1; j < len(facts); j++ {
			if Related(&facts[i], &facts[j]) {
				counts[i]++
				counts[j]++
			}
		}
	}
	return counts
}

func containsString(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
