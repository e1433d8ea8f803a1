package stats

import (
	"reflect"
	"testing"

	"github.com/ppiankov/gnosia/internal/model"
)

func TestCompute_Groups(t *testing.T) {
	facts := []model.Fact{
		{CategoryID: "coreCS", Format: model.FormatText, Fitness: 2.0},
		{CategoryID: "algebra", Format: model.FormatJSON, Fitness: 4.0},
		{CategoryID: "coreCS", Format: model.FormatText, Fitness: 0.0},
	}

	s := Compute(facts, 1.5)

	if len(s.PerCategory) != 2 {
		t.Fatalf("expected 2 category groups, got %d", len(s.PerCategory))
	}
	// Insertion order
	if s.PerCategory[0].Key != "coreCS" || s.PerCategory[1].Key != "algebra" {
		t.Errorf("groups not in first-seen order: %+v", s.PerCategory)
	}
	if s.PerCategory[0].Count != 2 || s.PerCategory[0].MeanFitness != 1.0 {
		t.Errorf("coreCS group: %+v", s.PerCategory[0])
	}
	if s.PerCategory[1].Count != 1 || s.PerCategory[1].MeanFitness != 4.0 {
		t.Errorf("algebra group: %+v", s.PerCategory[1])
	}

	if len(s.PerFormat) != 2 {
		t.Errorf("expected 2 format groups, got %d", len(s.PerFormat))
	}

	// Mean fitness (2+4+0)/3 scaled by 1.5
	if s.OverallCoherence != 3.0 {
		t.Errorf("expected coherence 3.0, got %v", s.OverallCoherence)
	}
}

func TestCompute_Ranking(t *testing.T) {
	facts := []model.Fact{
		{CategoryID: "low", Fitness: 1.0},
		{CategoryID: "high", Fitness: 5.0},
		{CategoryID: "mid", Fitness: 3.0},
	}

	s := Compute(facts, 1.0)
	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(s.Ranking, want) {
		t.Errorf("ranking %v, want %v", s.Ranking, want)
	}
}

func TestCompute_RankingTiesKeepInsertionOrder(t *testing.T) {
	facts := []model.Fact{
		{CategoryID: "first", Fitness: 2.0},
		{CategoryID: "second", Fitness: 2.0},
		{CategoryID: "third", Fitness: 2.0},
	}

	s := Compute(facts, 1.0)
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(s.Ranking, want) {
		t.Errorf("tied ranking %v, want %v", s.Ranking, want)
	}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, 1.5)
	if s.OverallCoherence != 0 {
		t.Errorf("expected zero coherence, got %v", s.OverallCoherence)
	}
	if len(s.PerCategory) != 0 || len(s.PerFormat) != 0 || len(s.Ranking) != 0 {
		t.Errorf("expected empty groups, got %+v", s)
	}
}

func TestCompute_DoesNotMutate(t *testing.T) {
	facts := []model.Fact{{CategoryID: "c", Fitness: 2.0}}
	before := facts[0]

	_ = Compute(facts, 1.5)
	if !reflect.DeepEqual(before, facts[0]) {
		t.Error("compute must not mutate the population")
	}
}
