package model

import "time"

// Config holds the complete gnosia configuration.
//
// Hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (GNOSIA_*)
//  3. Config file (~/.gnosia/config.yaml)
//  4. Defaults
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" json:"corpus"`
	Extraction  ExtractionConfig  `yaml:"extraction" json:"extraction"`
	Scoring     ScoringConfig     `yaml:"scoring" json:"scoring"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Oracle      OracleConfig      `yaml:"oracle" json:"oracle"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// CorpusConfig bounds corpus discovery.
type CorpusConfig struct {
	Extensions   []string `yaml:"extensions" json:"extensions"`
	ExcludeDirs  []string `yaml:"exclude_dirs" json:"exclude_dirs"`
	MinFileBytes int64    `yaml:"min_file_bytes" json:"min_file_bytes"`
	MaxFileBytes int64    `yaml:"max_file_bytes" json:"max_file_bytes"`
}

// ExtractionConfig tunes the triple extractor.
type ExtractionConfig struct {
	// StructuralDepth bounds recursion into key/value trees.
	StructuralDepth int `yaml:"structural_depth" json:"structural_depth"`

	// Confidence constants per corroboration state.
	BaseConfidence      float64 `yaml:"base_confidence" json:"base_confidence"`
	ValidatedConfidence float64 `yaml:"validated_confidence" json:"validated_confidence"`

	// CatalogPath optionally overlays categories from a YAML file.
	CatalogPath string `yaml:"catalog_path" json:"catalog_path"`
}

// ScoringConfig is the declarative scoring table. Every fitness constant
// lives here rather than in traversal code; all of them are tunable.
type ScoringConfig struct {
	BaseFitness float64 `yaml:"base_fitness" json:"base_fitness"`

	// Per-category priority multipliers; categories not listed use
	// DefaultPriority.
	CategoryPriority map[string]float64 `yaml:"category_priority" json:"category_priority"`
	DefaultPriority  float64            `yaml:"default_priority" json:"default_priority"`

	CorroborationBonus float64 `yaml:"corroboration_bonus" json:"corroboration_bonus"`
	ExternalBonus      float64 `yaml:"external_bonus" json:"external_bonus"`

	// Per-format priority multipliers; formats not listed use
	// DefaultFormatBonus.
	FormatPriority     map[string]float64 `yaml:"format_priority" json:"format_priority"`
	DefaultFormatBonus float64            `yaml:"default_format_bonus" json:"default_format_bonus"`

	// Single-generation selection rule over neighbor count k:
	// k < HealthyMin isolated, HealthyMin..HealthyMax healthy, above
	// HealthyMax overcrowded.
	IsolatedFactor float64 `yaml:"isolated_factor" json:"isolated_factor"`
	HealthyFactor  float64 `yaml:"healthy_factor" json:"healthy_factor"`
	CrowdedFactor  float64 `yaml:"crowded_factor" json:"crowded_factor"`
	HealthyMin     int     `yaml:"healthy_min" json:"healthy_min"`
	HealthyMax     int     `yaml:"healthy_max" json:"healthy_max"`

	SurvivalThreshold float64 `yaml:"survival_threshold" json:"survival_threshold"`
	MaxFitness        float64 `yaml:"max_fitness" json:"max_fitness"`

	// Generations > 1 enables the optional iterated filter mode.
	Generations int `yaml:"generations" json:"generations"`

	CoherenceScale float64 `yaml:"coherence_scale" json:"coherence_scale"`
}

// ConcurrencyConfig sizes the parallel extraction phase.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// CacheConfig controls the extraction result cache and oracle memoization.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	TTL       time.Duration `yaml:"ttl" json:"ttl"`
	OracleTTL time.Duration `yaml:"oracle_ttl" json:"oracle_ttl"`
}

// OracleConfig selects and tunes the validation oracle implementation.
type OracleConfig struct {
	// Provider: "static" (built-in table) or "openai".
	Provider string `yaml:"provider" json:"provider"`

	// MinRelevance is the corroboration cutoff applied to oracle records.
	MinRelevance float64 `yaml:"min_relevance" json:"min_relevance"`

	// Remote provider settings.
	Model             string  `yaml:"model" json:"model"`
	BaseURL           string  `yaml:"base_url" json:"base_url"`
	APIKey            string  `yaml:"-" json:"-"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" json:"verbose"`
	Pretty  bool   `yaml:"pretty" json:"pretty"`
	KBPath  string `yaml:"kb_path" json:"kb_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Extensions:   []string{".txt", ".md", ".markdown", ".html", ".htm", ".json", ".yaml", ".yml", ".csv"},
			ExcludeDirs:  []string{".git", "node_modules", "vendor", ".cache"},
			MinFileBytes: 1,
			MaxFileBytes: 4 << 20, // 4 MiB
		},
		Extraction: ExtractionConfig{
			StructuralDepth:     4,
			BaseConfidence:      0.7,
			ValidatedConfidence: 0.9,
		},
		Scoring: ScoringConfig{
			BaseFitness:        1.0,
			CategoryPriority:   map[string]float64{},
			DefaultPriority:    1.0,
			CorroborationBonus: 1.2,
			ExternalBonus:      1.5,
			FormatPriority: map[string]float64{
				string(FormatMarkdown): 1.2,
				string(FormatJSON):     1.1,
				string(FormatYAML):     1.1,
				string(FormatHTML):     1.05,
				string(FormatText):     1.0,
				string(FormatCSV):      0.95,
			},
			DefaultFormatBonus: 1.0,
			IsolatedFactor:     0.7,
			HealthyFactor:      1.4,
			CrowdedFactor:      0.8,
			HealthyMin:         2,
			HealthyMax:         5,
			SurvivalThreshold:  0.25,
			MaxFitness:         10.0,
			Generations:        1,
			CoherenceScale:     1.5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 0, // 0 = runtime.NumCPU() at pipeline construction
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			TTL:       24 * time.Hour,
			OracleTTL: time.Hour,
		},
		Oracle: OracleConfig{
			Provider:          "static",
			MinRelevance:      0.5,
			Model:             "gpt-4o-mini",
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Output: OutputConfig{
			Verbose: false,
			Pretty:  true,
		},
	}
}
