package catalog

// StructuralID is the synthetic category that carries facts emitted by
// the structural (key/value tree) extractor. It has no lexical matcher.
const StructuralID = "structuralMetadata"

// defaultCategories is the built-in catalog. Ranks express the position
// in the conceptual refinement chain; dependencies point at prerequisite
// categories.
func defaultCategories() []*Category {
	return []*Category{
		{
			ID:       "coreCS",
			Label:    "coreCS",
			Keywords: []string{"algorithm", "complexity", "recursion", "automaton", "compiler", "computation"},
			Rank:     1,
		},
		{
			ID:           "dataStructures",
			Label:        "dataStructures",
			Keywords:     []string{"array", "linked list", "binary tree", "heap", "hash table", "trie", "queue"},
			Dependencies: []string{"coreCS"},
			Rank:         2,
		},
		{
			ID:       "algebraicFoundations",
			Label:    "algebraicFoundations",
			Keywords: []string{"matrix", "vector", "tensor", "eigenvalue", "polynomial", "determinant"},
			Rank:     2,
		},
		{
			ID:       "probabilisticMethods",
			Label:    "probabilisticMethods",
			Keywords: []string{"probability", "bayesian", "stochastic", "markov chain", "distribution"},
			Rank:     3,
		},
		{
			ID:           "informationRetrieval",
			Label:        "informationRetrieval",
			Keywords:     []string{"inverted index", "ranking", "tokenization", "relevance", "corpus"},
			Dependencies: []string{"dataStructures"},
			Rank:         3,
		},
		{
			ID:                  "machineLearning",
			Label:               "machineLearning",
			Keywords:            []string{"gradient descent", "neural network", "classifier", "regression", "embedding", "overfitting"},
			Dependencies:        []string{"algebraicFoundations", "probabilisticMethods"},
			Rank:                4,
			ExternallyValidated: true,
		},
		{
			ID:           "distributedSystems",
			Label:        "distributedSystems",
			Keywords:     []string{"consensus", "replication", "quorum", "raft", "paxos", "sharding"},
			Dependencies: []string{"coreCS"},
			Rank:         4,
		},
		{
			ID:                  "quantumComputing",
			Label:               "quantumComputing",
			Keywords:            []string{"qubit", "superposition", "entanglement", "decoherence", "quantum gate"},
			Dependencies:        []string{"algebraicFoundations"},
			Rank:                5,
			ExternallyValidated: true,
		},
		{
			// Structural facts from key/value documents land here.
			ID:    StructuralID,
			Label: StructuralID,
			Rank:  0,
		},
	}
}
