// Copyright 2025 Certen Protocol

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/certen/trusted-setup/pkg/curve"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ceremony.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadCeremonyConfigAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "curve: bls12-381\n")
	cfg, err := LoadCeremonyConfig(path)
	if err != nil {
		t.Fatalf("LoadCeremonyConfig() error = %v", err)
	}
	if cfg.System != "groth16" {
		t.Errorf("System = %q, want groth16 default", cfg.System)
	}
	if cfg.Workers.PoolSize != 8 {
		t.Errorf("Workers.PoolSize = %d, want 8 default", cfg.Workers.PoolSize)
	}
	kind, err := cfg.ResolveCurve()
	if err != nil {
		t.Fatalf("ResolveCurve() error = %v", err)
	}
	if kind != curve.BLS12_381 {
		t.Errorf("ResolveCurve() = %v, want BLS12_381", kind)
	}
}

func TestLoadCeremonyConfigSubstitutesEnvVars(t *testing.T) {
	t.Setenv("CEREMONY_K", "24")
	path := writeTempConfig(t, "curve: bls12-377\nk: ${CEREMONY_K}\n")
	cfg, err := LoadCeremonyConfig(path)
	if err != nil {
		t.Fatalf("LoadCeremonyConfig() error = %v", err)
	}
	if cfg.K != 24 {
		t.Errorf("K = %d, want 24", cfg.K)
	}
}

func TestValidateRejectsUnknownCurve(t *testing.T) {
	cfg := &CeremonyConfig{Curve: "not-a-curve", System: "groth16", K: 10, Workers: WorkerSettings{PoolSize: 1}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() error = nil, want an error for an unknown curve")
	}
}

func TestValidateAcceptsDefaultedConfig(t *testing.T) {
	cfg := &CeremonyConfig{}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil for defaulted config", err)
	}
}
