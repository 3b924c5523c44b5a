// Copyright 2025 Certen Protocol

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/publickey"
	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/config"
	"github.com/certen/trusted-setup/pkg/curve"
)

// errUsage signals a flag/argument error, mapped to exit code 2.
var errUsage = errors.New("usage error")

// ceremonyFlags bundles the config/curve/check flags every subcommand
// shares, built once per invocation with its own flag.FlagSet so
// verbs don't step on each other's registered flags.
type ceremonyFlags struct {
	configPath string
	checkIn    string
	checkOut   string
}

func registerCeremonyFlags(fs *flag.FlagSet) *ceremonyFlags {
	cf := &ceremonyFlags{}
	fs.StringVar(&cf.configPath, "config", "", "path to a ceremony YAML config (required)")
	fs.StringVar(&cf.checkIn, "check-in", "", "override input check level (none/nonzero/subgroup/full)")
	fs.StringVar(&cf.checkOut, "check-out", "", "override output check level (none/nonzero/subgroup/full)")
	return cf
}

// load resolves the shared flags into a validated config plus an
// Engine for its curve.
func (cf *ceremonyFlags) load() (*config.CeremonyConfig, curve.Engine, error) {
	if cf.configPath == "" {
		return nil, nil, fmt.Errorf("%w: -config is required", errUsage)
	}
	cfg, err := config.LoadCeremonyConfig(cf.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	kind, err := cfg.ResolveCurve()
	if err != nil {
		return nil, nil, err
	}
	eng, err := curve.New(kind)
	if err != nil {
		return nil, nil, err
	}
	return cfg, eng, nil
}

func (cf *ceremonyFlags) checkLevel(override, fallback string) (curve.CheckLevel, error) {
	if override != "" {
		return config.ResolveCheckLevel(override)
	}
	return config.ResolveCheckLevel(fallback)
}

func ceremonyParams(cfg *config.CeremonyConfig, mode params.Mode, compressed bool) (params.Params, error) {
	kind, err := cfg.ResolveCurve()
	if err != nil {
		return params.Params{}, err
	}
	system, err := cfg.ResolveSystem()
	if err != nil {
		return params.Params{}, err
	}
	ps := params.Groth16
	if system == "marlin" {
		ps = params.Marlin
	}
	return params.Params{
		Curve:      kind,
		System:     ps,
		K:          cfg.K,
		BatchSize:  cfg.Workers.BatchSize,
		Mode:       mode,
		Compressed: compressed,
	}, nil
}

func resolveScalarMode(cfg *config.CeremonyConfig) (scalarmul.Mode, error) {
	return cfg.ResolveScalarMode()
}

func readFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

func writeFile(path string, buf []byte) error {
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeDigestSidecar writes buf's 64-byte BLAKE2b digest to path, per
// §6's "every operation that writes an accumulator also writes a
// digest side file".
func writeDigestSidecar(path string, buf []byte) error {
	d := digest.Sum(buf)
	return writeFile(path, d[:])
}

func readDigestSidecar(path string) (publickey.Digest64, error) {
	buf, err := readFile(path)
	if err != nil {
		return publickey.Digest64{}, err
	}
	if len(buf) != digest.Size {
		return publickey.Digest64{}, fmt.Errorf("%s: expected a %d-byte digest, got %d bytes", path, digest.Size, len(buf))
	}
	var d publickey.Digest64
	copy(d[:], buf)
	return d, nil
}

// newRunID tags one ceremony invocation for operator-facing logging,
// per the domain-stack wiring table's uuid entry: not persisted into
// any accumulator or parameter format, since those have no framing.
func newRunID() string {
	return uuid.NewString()
}
