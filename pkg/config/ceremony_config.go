// Copyright 2025 Certen Protocol
//
// Ceremony Configuration Loader
//
// This package provides configuration loading for the trusted-setup
// ceremony from YAML files with environment variable substitution.

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/curve"
)

// ==============================================================================
// Ceremony Configuration Structures
// ==============================================================================

// CeremonyConfig holds everything one ceremony run (Phase-1 or
// Phase-2, one command invocation) needs to drive pkg/phase1/pkg/phase2.
type CeremonyConfig struct {
	Curve   string        `yaml:"curve"`
	System  string        `yaml:"system"`
	K       int           `yaml:"k"`
	Chunk   ChunkSettings `yaml:"chunk"`
	Check   CheckSettings `yaml:"check"`
	Workers WorkerSettings `yaml:"workers"`
}

// ChunkSettings controls chunked-mode file layout and compression.
type ChunkSettings struct {
	Enabled          bool `yaml:"enabled"`
	Size             int  `yaml:"size"`
	CompressedInput  bool `yaml:"compressed_input"`
	CompressedOutput bool `yaml:"compressed_output"`
}

// CheckSettings controls decode-time correctness checking on input and
// output vectors independently, matching C1's CheckLevel.
type CheckSettings struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// WorkerSettings controls the shared workpool.Pool size and the
// scalar-multiplication strategy threshold.
type WorkerSettings struct {
	PoolSize   int    `yaml:"pool_size"`
	ScalarMode string `yaml:"scalar_mode"`
	BatchSize  int    `yaml:"batch_size"`
}

// ==============================================================================
// Configuration Loading
// ==============================================================================

// LoadCeremonyConfig loads ceremony configuration from a YAML file.
// Environment variables in the format ${VAR_NAME} or ${VAR_NAME:-default}
// are substituted before parsing.
func LoadCeremonyConfig(path string) (*CeremonyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg CeremonyConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR_NAME} with the variable's value, and
// ${VAR_NAME:-default} with default when VAR_NAME is unset or empty.
func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := envVarPattern.FindStringSubmatch(m)
		if v := os.Getenv(sub[1]); v != "" {
			return v
		}
		return sub[2]
	})
}

// applyDefaults sets default values for unset fields, filling only
// zero values.
func (c *CeremonyConfig) applyDefaults() {
	if c.Curve == "" {
		c.Curve = "bls12-377"
	}
	if c.System == "" {
		c.System = "groth16"
	}
	if c.K == 0 {
		c.K = 21
	}
	if c.Chunk.Size == 0 {
		c.Chunk.Size = 1 << 20
	}
	if c.Check.Input == "" {
		c.Check.Input = "full"
	}
	if c.Check.Output == "" {
		c.Check.Output = "none"
	}
	if c.Workers.PoolSize == 0 {
		c.Workers.PoolSize = 8
	}
	if c.Workers.ScalarMode == "" {
		c.Workers.ScalarMode = "auto"
	}
	if c.Workers.BatchSize == 0 {
		c.Workers.BatchSize = 256
	}
}

// ==============================================================================
// Resolution Into Runtime Types
// ==============================================================================

// ResolveCurve maps the configured curve name to a curve.CurveKind.
func (c *CeremonyConfig) ResolveCurve() (curve.CurveKind, error) {
	return curve.ParseCurveKind(c.Curve)
}

// ResolveSystem maps the configured proving system name to a
// params.ProvingSystem-compatible string ("groth16" or "marlin"); it
// returns the validated string, not a params.ProvingSystem value.
func (c *CeremonyConfig) ResolveSystem() (string, error) {
	switch c.System {
	case "groth16", "marlin":
		return c.System, nil
	default:
		return "", fmt.Errorf("config: unknown proving system %q", c.System)
	}
}

// ResolveCheckLevel maps a "none"/"nonzero"/"subgroup"/"full" string to
// a curve.CheckLevel.
func ResolveCheckLevel(s string) (curve.CheckLevel, error) {
	switch s {
	case "none", "":
		return curve.CheckNone, nil
	case "nonzero":
		return curve.CheckOnlyNonZero, nil
	case "subgroup":
		return curve.CheckOnlyInGroup, nil
	case "full":
		return curve.CheckFull, nil
	default:
		return curve.CheckNone, fmt.Errorf("config: unknown check level %q", s)
	}
}

// ResolveScalarMode maps the configured scalar-multiplication strategy
// name to a scalarmul.Mode.
func (c *CeremonyConfig) ResolveScalarMode() (scalarmul.Mode, error) {
	switch c.Workers.ScalarMode {
	case "auto", "":
		return scalarmul.ModeAuto, nil
	case "direct":
		return scalarmul.ModeDirect, nil
	case "batch_inversion":
		return scalarmul.ModeBatchInversion, nil
	default:
		return scalarmul.ModeAuto, fmt.Errorf("config: unknown scalar mode %q", c.Workers.ScalarMode)
	}
}

// ==============================================================================
// Validation
// ==============================================================================

// Validate checks the configuration is internally consistent enough to
// drive a ceremony run.
func (c *CeremonyConfig) Validate() error {
	if _, err := c.ResolveCurve(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if _, err := c.ResolveSystem(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.K <= 0 {
		return fmt.Errorf("config validation: k must be positive, got %d", c.K)
	}
	if _, err := ResolveCheckLevel(c.Check.Input); err != nil {
		return fmt.Errorf("config validation: input check: %w", err)
	}
	if _, err := ResolveCheckLevel(c.Check.Output); err != nil {
		return fmt.Errorf("config validation: output check: %w", err)
	}
	if _, err := c.ResolveScalarMode(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.Chunk.Enabled && c.Chunk.Size <= 0 {
		return fmt.Errorf("config validation: chunk.size must be positive when chunk.enabled")
	}
	if c.Workers.PoolSize <= 0 {
		return fmt.Errorf("config validation: workers.pool_size must be positive")
	}
	return nil
}
