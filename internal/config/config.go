package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when --config is not given.
const DefaultPath = "deckgen.yaml"

// Config holds all deckgen configuration.
// It is built once at startup and handed to each component constructor.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Parser     ParserConfig     `yaml:"parser"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Deps       DepsConfig       `yaml:"deps"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Outline    OutlineConfig    `yaml:"outline"`
	Pacing     PacingConfig     `yaml:"pacing"`
	Layout     LayoutConfig     `yaml:"layout"`
	Verify     VerifyConfig     `yaml:"verify"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ParserConfig configures anchor extraction.
type ParserConfig struct {
	// Fallback single-byte encoding used when a source is not valid UTF-8.
	FallbackEncoding string `yaml:"fallback_encoding"`
}

// RankingConfig configures the priority ranker.
type RankingConfig struct {
	TopN int `yaml:"top_n"` // rankings shown in summaries
}

// DepsConfig configures the dependency mapper.
type DepsConfig struct {
	IncludeWeak bool `yaml:"include_weak"`
}

// ClusteringConfig configures the cluster detector.
type ClusteringConfig struct {
	MinClusterSize      int     `yaml:"min_cluster_size"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"` // accepted, not consulted by detection
	MergeBelow          int     `yaml:"merge_below"`          // 0 disables the merge step
}

// OutlineConfig configures section math.
type OutlineConfig struct {
	AnchorsPerSection float64 `yaml:"anchors_per_section"`
	MinSections       int     `yaml:"min_sections"`
	MaxSections       int     `yaml:"max_sections"`
}

// PacingConfig configures speaking-rate assumptions.
type PacingConfig struct {
	WordsPerMinute int `yaml:"words_per_minute"`
	DeckSlides     int `yaml:"deck_slides"`
	AuxSlides      int `yaml:"aux_slides"`
}

// VerifyConfig configures the verification runner.
type VerifyConfig struct {
	Workers            int      `yaml:"workers"`
	Passes             int      `yaml:"passes"`
	CriticalCategories []string `yaml:"critical_categories"`
}

// Default values. These are part of the public contract of the pipeline.
const (
	DefaultWordsPerMinute    = 140
	DefaultDeckSlides        = 16
	DefaultAuxSlides         = 4
	DefaultAnchorsPerSection = 17.5
	DefaultMinSections       = 4
	DefaultMaxSections       = 12

	DefaultHeaderMaxLines  = 2
	DefaultHeaderMaxChars  = 32
	DefaultBodyMaxLines    = 8
	DefaultBodyMaxChars    = 66
	DefaultTipMaxLines     = 2
	DefaultTipMaxChars     = 66
	DefaultBulletMinLength = 3

	DefaultMinClusterSize      = 2
	DefaultSimilarityThreshold = 0.3
	DefaultMergeBelow          = 0

	DefaultTopN     = 10
	DefaultWorkers  = 4
	DefaultPasses   = 3
	DefaultEncoding = "windows-1252"
)

// DefaultCriticalCategories lists the requirement categories that fail a verify run.
var DefaultCriticalCategories = []string{"structure", "completeness"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "deckgen",
		Version: "1.0.0",

		Parser: ParserConfig{
			FallbackEncoding: DefaultEncoding,
		},

		Ranking: RankingConfig{
			TopN: DefaultTopN,
		},

		Deps: DepsConfig{
			IncludeWeak: true,
		},

		Clustering: ClusteringConfig{
			MinClusterSize:      DefaultMinClusterSize,
			SimilarityThreshold: DefaultSimilarityThreshold,
			MergeBelow:          DefaultMergeBelow,
		},

		Outline: OutlineConfig{
			AnchorsPerSection: DefaultAnchorsPerSection,
			MinSections:       DefaultMinSections,
			MaxSections:       DefaultMaxSections,
		},

		Pacing: PacingConfig{
			WordsPerMinute: DefaultWordsPerMinute,
			DeckSlides:     DefaultDeckSlides,
			AuxSlides:      DefaultAuxSlides,
		},

		Layout: LayoutConfig{
			HeaderMaxLines:  DefaultHeaderMaxLines,
			HeaderMaxChars:  DefaultHeaderMaxChars,
			BodyMaxLines:    DefaultBodyMaxLines,
			BodyMaxChars:    DefaultBodyMaxChars,
			TipMaxLines:     DefaultTipMaxLines,
			TipMaxChars:     DefaultTipMaxChars,
			BulletMinLength: DefaultBulletMinLength,
		},

		Verify: VerifyConfig{
			Workers:            DefaultWorkers,
			Passes:             DefaultPasses,
			CriticalCategories: append([]string(nil), DefaultCriticalCategories...),
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults. A .env file in the working directory,
// if present, is loaded before environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Missing .env is the common case.
	_ = godotenv.Load()

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if lvl := os.Getenv("DECKGEN_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if n, ok := envInt("DECKGEN_WORKERS"); ok {
		c.Verify.Workers = n
	}
	if n, ok := envInt("DECKGEN_PASSES"); ok {
		c.Verify.Passes = n
	}
	if n, ok := envInt("DECKGEN_WPM"); ok {
		c.Pacing.WordsPerMinute = n
	}
	if v := os.Getenv("DECKGEN_CRITICAL"); v != "" {
		var cats []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				cats = append(cats, strings.ToLower(s))
			}
		}
		c.Verify.CriticalCategories = cats
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pacing.WordsPerMinute <= 0 {
		return fmt.Errorf("pacing.words_per_minute must be > 0")
	}
	if c.Outline.AnchorsPerSection <= 0 {
		return fmt.Errorf("outline.anchors_per_section must be > 0")
	}
	if c.Outline.MinSections < 1 || c.Outline.MaxSections < c.Outline.MinSections {
		return fmt.Errorf("outline sections must satisfy 1 <= min (%d) <= max (%d)",
			c.Outline.MinSections, c.Outline.MaxSections)
	}
	if c.Clustering.MinClusterSize < 1 {
		return fmt.Errorf("clustering.min_cluster_size must be >= 1")
	}
	if c.Verify.Workers < 1 {
		return fmt.Errorf("verify.workers must be >= 1")
	}
	if c.Verify.Passes < 1 {
		return fmt.Errorf("verify.passes must be >= 1")
	}
	if err := c.ValidateLayout(); err != nil {
		return err
	}
	if !validLevel(c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	return nil
}
