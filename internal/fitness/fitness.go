// Package fitness scores facts and applies the survival filter. All
// multipliers come from the declarative scoring table in configuration;
// nothing here claims physical meaning, these are tunable heuristics
// over lexical match metadata.
package fitness

import (
	"github.com/ppiankov/gnosia/internal/graph"
	"github.com/ppiankov/gnosia/internal/model"
)

// Scorer applies the scoring table and the neighbor-count selection rule.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a scorer from a scoring table.
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// BaseScore is the product of the bonus factors that depend only on
// category, validation flags, and format, never on neighbor count.
func (s *Scorer) BaseScore(f *model.Fact) float64 {
	score := s.cfg.BaseFitness

	priority := s.cfg.DefaultPriority
	if p, ok := s.cfg.CategoryPriority[f.CategoryID]; ok {
		priority = p
	}
	score *= priority

	if f.Validated {
		score *= s.cfg.CorroborationBonus
	}
	if f.ExternallyValidated {
		score *= s.cfg.ExternalBonus
	}

	format := s.cfg.DefaultFormatBonus
	if fb, ok := s.cfg.FormatPriority[string(f.Format)]; ok {
		format = fb
	}
	score *= format

	return score
}

// SelectionFactor maps a neighbor count onto the single-generation
// selection multiplier: isolated facts wither, healthy neighborhoods
// thrive, overcrowded ones decay.
func (s *Scorer) SelectionFactor(neighbors int) float64 {
	switch {
	case neighbors < s.cfg.HealthyMin:
		return s.cfg.IsolatedFactor
	case neighbors <= s.cfg.HealthyMax:
		return s.cfg.HealthyFactor
	default:
		return s.cfg.CrowdedFactor
	}
}

// Score computes the final fitness for one fact given its neighbor
// count, clipped to [0, MaxFitness].
func (s *Scorer) Score(f *model.Fact, neighbors int) float64 {
	return s.clip(s.BaseScore(f) * s.SelectionFactor(neighbors))
}

func (s *Scorer) clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if s.cfg.MaxFitness > 0 && v > s.cfg.MaxFitness {
		return s.cfg.MaxFitness
	}
	return v
}

// Filter runs the survival filter over the population and returns the
// survivors with Fitness and Neighbors set. One generation by default;
// when the scoring table asks for more, neighbor counts are recomputed
// over the survivors and the rule is re-applied from the base product
// each generation, stopping early once the population is stable.
func (s *Scorer) Filter(facts []model.Fact) []model.Fact {
	generations := s.cfg.Generations
	if generations <= 0 {
		generations = 1
	}

	population := facts
	for g := 0; g < generations; g++ {
		counts := graph.NeighborCounts(population)

		survivors := make([]model.Fact, 0, len(population))
		for i := range population {
			f := population[i]
			f.Neighbors = counts[i]
			f.Fitness = s.Score(&f, counts[i])
			if f.Fitness > s.cfg.SurvivalThreshold {
				survivors = append(survivors, f)
			}
		}

		stable := len(survivors) == len(population)
		population = survivors
		if stable {
			break
		}
	}

	return population
}
