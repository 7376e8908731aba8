package model

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all sahte configuration
type Config struct {
	Artifacts   ArtifactConfig    `mapstructure:"artifacts" yaml:"artifacts"`
	Features    FeatureConfig     `mapstructure:"features" yaml:"features"`
	Tsetlin     TsetlinConfig     `mapstructure:"tsetlin" yaml:"tsetlin"`
	Split       SplitConfig       `mapstructure:"split" yaml:"split"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
}

// ArtifactConfig locates the vectorizer, scaler and classifier artifacts
type ArtifactConfig struct {
	Backend        string `mapstructure:"backend" yaml:"backend" validate:"oneof=file sqlite"`
	Dir            string `mapstructure:"dir" yaml:"dir" validate:"required"`
	VectorizerName string `mapstructure:"vectorizer" yaml:"vectorizer" validate:"required"`
	ScalerName     string `mapstructure:"scaler" yaml:"scaler" validate:"required"`
	ModelName      string `mapstructure:"model" yaml:"model" validate:"required"`
	SQLitePath     string `mapstructure:"sqlite_path" yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// FeatureConfig controls the lexical vectorizer
type FeatureConfig struct {
	MaxVocabulary int `mapstructure:"max_vocabulary" yaml:"max_vocabulary" validate:"gt=0"`
}

// TsetlinConfig holds the vote-based classifier hyperparameters
type TsetlinConfig struct {
	Clauses   int     `mapstructure:"clauses" yaml:"clauses" validate:"gt=0"`
	T         int     `mapstructure:"t" yaml:"t" validate:"gt=0"`
	S         float64 `mapstructure:"s" yaml:"s" validate:"gte=1"`
	StateBits int     `mapstructure:"state_bits" yaml:"state_bits" validate:"gte=2,lte=15"`
	Epochs    int     `mapstructure:"epochs" yaml:"epochs" validate:"gt=0"`
	Seed      uint64  `mapstructure:"seed" yaml:"seed"`
}

// SplitConfig controls the train/test split
type SplitConfig struct {
	TestSize float64 `mapstructure:"test_size" yaml:"test_size" validate:"gt=0,lt=1"`
	Seed     uint64  `mapstructure:"seed" yaml:"seed"`
}

// ConcurrencyConfig controls parallel feature building and batch prediction
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" validate:"gt=0"`
}

// CacheConfig controls lemma and prediction caching
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir       string        `mapstructure:"dir" yaml:"dir" validate:"required_if=Enabled true"`
	MemoryTTL time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl" validate:"gte=0"`
	DiskTTL   time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl" validate:"gte=0"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Artifacts: ArtifactConfig{
			Backend:        "file",
			Dir:            "models",
			VectorizerName: "tfidf.gob",
			ScalerName:     "scaler.gob",
			ModelName:      "tsetlin.gob",
			SQLitePath:     "models/artifacts.db",
		},
		Features: FeatureConfig{
			MaxVocabulary: 500,
		},
		Tsetlin: TsetlinConfig{
			Clauses:   500,
			T:         15,
			S:         3.9,
			StateBits: 8,
			Epochs:    50,
			Seed:      42,
		},
		Split: SplitConfig{
			TestSize: 0.3,
			Seed:     42,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".sahte-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
	}
}

var configValidator = validator.New()

// Validate checks the configuration and reports every invalid field
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
