// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// CompareConfig holds settings for the structural comparator.
type CompareConfig struct {
	// SimilarityThreshold is the minimum content-similarity score for a
	// fuzzy match (default 0.6).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// Workers is the number of file pairs compared concurrently (default 4).
	// Output order is deterministic regardless of this value.
	Workers int `json:"workers" yaml:"workers"`
}

// Validate checks threshold and worker bounds. Invalid settings are fatal
// at startup rather than tolerated mid-run.
func (c CompareConfig) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0, 1], got %g", c.SimilarityThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// BatchConfig holds settings for the adaptive batch packer.
type BatchConfig struct {
	// TargetSize is the optimal tokens per batch (default 1500). A batch
	// is closed eagerly once its running total reaches this value.
	TargetSize int `json:"target_size" yaml:"target_size"`

	// MinSize is the minimum tokens per batch (default 500).
	MinSize int `json:"min_size" yaml:"min_size"`

	// MaxSize is the token ceiling per batch (default 2000). Only a
	// single oversized node may exceed it, as its own batch.
	MaxSize int `json:"max_size" yaml:"max_size"`

	// ContextWindow is the number of neighboring nodes included on each
	// side of a batch when context is enabled (default 3).
	ContextWindow int `json:"context_window" yaml:"context_window"`

	// EnableContext attaches a context bag to every batch.
	EnableContext bool `json:"enable_context" yaml:"enable_context"`
}

// Validate checks size bounds. min > max or a non-positive ceiling is a
// configuration error, fatal at startup.
func (c BatchConfig) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("max_size must be > 0, got %d", c.MaxSize)
	}
	if c.MinSize < 0 {
		return fmt.Errorf("min_size must be >= 0, got %d", c.MinSize)
	}
	if c.MinSize > c.MaxSize {
		return fmt.Errorf("min_size %d exceeds max_size %d", c.MinSize, c.MaxSize)
	}
	if c.TargetSize <= 0 {
		return fmt.Errorf("target_size must be > 0, got %d", c.TargetSize)
	}
	if c.TargetSize > c.MaxSize {
		return fmt.Errorf("target_size %d exceeds max_size %d", c.TargetSize, c.MaxSize)
	}
	if c.ContextWindow < 0 {
		return fmt.Errorf("context_window must be >= 0, got %d", c.ContextWindow)
	}
	return nil
}

// TokenConfig holds the heuristic divisors for token estimation: how many
// characters map to one token, by script family.
type TokenConfig struct {
	// DefaultDivisor applies to Latin-script languages (default 4).
	DefaultDivisor float64 `json:"default_divisor" yaml:"default_divisor"`

	// CJKDivisor applies to Chinese, Japanese, and Korean (default 2).
	CJKDivisor float64 `json:"cjk_divisor" yaml:"cjk_divisor"`

	// CodeDivisor applies to fenced code content (default 3).
	CodeDivisor float64 `json:"code_divisor" yaml:"code_divisor"`

	// CacheSize bounds the estimator's memoization cache (default 4096
	// entries). Zero disables memoization.
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

// Validate checks that all divisors are positive.
func (c TokenConfig) Validate() error {
	if c.DefaultDivisor <= 0 {
		return fmt.Errorf("default_divisor must be > 0, got %g", c.DefaultDivisor)
	}
	if c.CJKDivisor <= 0 {
		return fmt.Errorf("cjk_divisor must be > 0, got %g", c.CJKDivisor)
	}
	if c.CodeDivisor <= 0 {
		return fmt.Errorf("code_divisor must be > 0, got %g", c.CodeDivisor)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0, got %d", c.CacheSize)
	}
	return nil
}

// ProjectConfig holds project-level paths and languages.
type ProjectConfig struct {
	// DocsDir is the root directory of documentation sources; language
	// subdirectories (e.g. docs/en, docs/ja) live beneath it.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// CacheDir is the directory holding the per-language node caches.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// SourceLang is the authoritative language (default "en").
	SourceLang string `json:"source_lang" yaml:"source_lang"`

	// TargetLang is the translation language (default "ja").
	TargetLang string `json:"target_lang" yaml:"target_lang"`

	// GlossaryFile is an optional terminology file (YAML or JSON).
	GlossaryFile string `json:"glossary_file,omitempty" yaml:"glossary_file,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Project ProjectConfig `json:"project" yaml:"project"`
	Compare CompareConfig `json:"compare" yaml:"compare"`
	Batch   BatchConfig   `json:"batch" yaml:"batch"`
	Token   TokenConfig   `json:"token" yaml:"token"`
}

// Validate runs every stage's validation and reports the first failure.
func (c PipelineConfig) Validate() error {
	if err := c.Compare.Validate(); err != nil {
		return fmt.Errorf("compare config: %w", err)
	}
	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch config: %w", err)
	}
	if err := c.Token.Validate(); err != nil {
		return fmt.Errorf("token config: %w", err)
	}
	return nil
}

// DefaultPipelineConfig returns the documented defaults for every stage.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Project: ProjectConfig{
			DocsDir:    "docs",
			CacheDir:   ".docparity",
			SourceLang: "en",
			TargetLang: "ja",
		},
		Compare: CompareConfig{
			SimilarityThreshold: 0.6,
			Workers:             4,
		},
		Batch: BatchConfig{
			TargetSize:    1500,
			MinSize:       500,
			MaxSize:       2000,
			ContextWindow: 3,
		},
		Token: TokenConfig{
			DefaultDivisor: 4,
			CJKDivisor:     2,
			CodeDivisor:    3,
			CacheSize:      4096,
		},
	}
}
