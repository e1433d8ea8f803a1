// Package oracle supplies corroborating concepts per category.
//
// The oracle is an injected collaborator: the pipeline only depends on
// the Oracle interface and treats Lookup as a pure, side-effect-free
// query keyed by category id. The default implementation is a static
// table; a caching decorator and a remote provider demonstrate that the
// oracle can be substituted without touching pipeline logic.
package oracle

import (
	"github.com/ppiankov/gnosia/internal/model"
)

// Oracle maps a category id to its corroborating concept set.
type Oracle interface {
	Lookup(categoryID string) []model.ValidationRecord
}

// StaticOracle serves lookups from a fixed table.
type StaticOracle struct {
	table map[string][]model.ValidationRecord
}

// NewStaticOracle creates an oracle over the given table. A nil table
// uses the built-in defaults.
func NewStaticOracle(table map[string][]model.ValidationRecord) *StaticOracle {
	if table == nil {
		table = DefaultTable()
	}
	return &StaticOracle{table: table}
}

// Lookup returns the corroborating records for a category, or nil.
func (o *StaticOracle) Lookup(categoryID string) []model.ValidationRecord {
	return o.table[categoryID]
}

// DefaultTable is the built-in corroboration table. Relevance weights
// express how strongly the concept grounds the category.
func DefaultTable() map[string][]model.ValidationRecord {
	table := map[string][]model.ValidationRecord{
		"coreCS": {
			{Concept: "turing machine", Relevance: 0.9},
			{Concept: "asymptotic analysis", Relevance: 0.8},
		},
		"dataStructures": {
			{Concept: "balanced tree", Relevance: 0.8},
			{Concept: "amortized cost", Relevance: 0.6},
		},
		"algebraicFoundations": {
			{Concept: "linear map", Relevance: 0.85},
			{Concept: "spectral decomposition", Relevance: 0.7},
		},
		"probabilisticMethods": {
			{Concept: "bayes theorem", Relevance: 0.85},
			{Concept: "law of large numbers", Relevance: 0.7},
		},
		"machineLearning": {
			{Concept: "backpropagation", Relevance: 0.9},
			{Concept: "bias-variance tradeoff", Relevance: 0.75},
		},
		"distributedSystems": {
			{Concept: "state machine replication", Relevance: 0.85},
			{Concept: "linearizability", Relevance: 0.7},
		},
		"quantumComputing": {
			{Concept: "bloch sphere", Relevance: 0.8},
			{Concept: "no-cloning theorem", Relevance: 0.75},
		},
	}
	for id, records := range table {
		for i := range records {
			records[i].CategoryID = id
		}
	}
	return table
}

// Corroborated reports whether any record meets the relevance cutoff.
func Corroborated(records []model.ValidationRecord, minRelevance float64) bool {
	for _, r := range records {
		if r.Relevance >= minRelevance {
			return true
		}
	}
	return false
}
