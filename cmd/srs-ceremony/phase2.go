// Copyright 2025 Certen Protocol

package main

import (
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/big"

	"github.com/certen/trusted-setup/pkg/ceremony/lagrange"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
	"github.com/certen/trusted-setup/pkg/phase2"
)

func runPhase2(verb string, args []string) error {
	switch verb {
	case "new", "create-circuit":
		return phase2New(args)
	case "contribute":
		return phase2Contribute(args)
	case "verify":
		return phase2Verify(args)
	case "combine":
		return phase2Combine(args)
	default:
		return fmt.Errorf("%w: unknown phase2 verb %q", errUsage, verb)
	}
}

// circuitFile is the CLI-level JSON encoding of an R1CS, read by
// phase2 new. No wire format for this exists in §3/§4: Phase-2's core
// API takes phase2.Matrix in memory, so this is purely command-surface
// plumbing, analogous to create_circuit/new_challenge in §12.
type circuitFile struct {
	NumPublic int        `json:"numPublic"`
	A         [][]string `json:"a"`
	B         [][]string `json:"b"`
	C         [][]string `json:"c"`
}

func loadCircuit(path string) (phase2.Matrix, phase2.Matrix, phase2.Matrix, int, error) {
	buf, err := readFile(path)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	var cf circuitFile
	if err := json.Unmarshal(buf, &cf); err != nil {
		return nil, nil, nil, 0, fmt.Errorf("circuit file %s: %w", path, err)
	}
	toMatrix := func(rows [][]string) (phase2.Matrix, error) {
		m := make(phase2.Matrix, len(rows))
		for i, row := range rows {
			m[i] = make([]*big.Int, len(row))
			for j, s := range row {
				v, ok := new(big.Int).SetString(s, 10)
				if !ok {
					return nil, fmt.Errorf("circuit file %s: row %d col %d: invalid integer %q", path, i, j, s)
				}
				m[i][j] = v
			}
		}
		return m, nil
	}
	a, err := toMatrix(cf.A)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	b, err := toMatrix(cf.B)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	c, err := toMatrix(cf.C)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	return a, b, c, cf.NumPublic, nil
}

// phase2New implements §6's Phase-2 "new": builds Π from a finished
// Phase-1 accumulator and an R1CS circuit description.
func phase2New(args []string) error {
	fs := flag.NewFlagSet("phase2 new", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	accumulator := fs.String("accumulator", "", "finished Phase-1 accumulator path")
	circuit := fs.String("circuit", "", "R1CS circuit JSON path")
	domainSize := fs.Int("domain", 0, "FFT domain size (power of two, >= circuit variable count)")
	output := fs.String("output", "", "Phase-2 params output path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *accumulator == "" || *circuit == "" || *domainSize <= 0 || *output == "" {
		return fmt.Errorf("%w: -accumulator, -circuit, -domain, and -output are required", errUsage)
	}
	cfg, eng, err := cf.load()
	if err != nil {
		return err
	}
	runID := newRunID()
	log.Printf("run %s: phase2 new curve=%s domain=%d", runID, cfg.Curve, *domainSize)

	checkIn, err := cf.checkLevel(cf.checkIn, cfg.Check.Input)
	if err != nil {
		return err
	}
	accBuf, err := readFile(*accumulator)
	if err != nil {
		return err
	}
	p, err := ceremonyParams(cfg, params.Full(), cfg.Chunk.CompressedInput)
	if err != nil {
		return err
	}
	conv, err := lagrange.Convert(eng, p, accBuf, cfg.Chunk.CompressedInput, checkIn, *domainSize)
	if err != nil {
		return err
	}

	a, b, c, numPublic, err := loadCircuit(*circuit)
	if err != nil {
		return err
	}
	params2, err := phase2.Initialize(eng, conv, a, b, c, numPublic)
	if err != nil {
		return err
	}
	return savePhase2Params(eng, *output, params2)
}

// phase2Contribute implements §6 Phase-2's contribute analogue (C13).
func phase2Contribute(args []string) error {
	fs := flag.NewFlagSet("phase2 contribute", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	input := fs.String("input", "", "input Phase-2 params path")
	output := fs.String("output", "", "output Phase-2 params path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("%w: -input and -output are required", errUsage)
	}
	cfg, eng, err := cf.load()
	if err != nil {
		return err
	}
	runID := newRunID()
	mode, err := resolveScalarMode(cfg)
	if err != nil {
		return err
	}
	before, err := loadPhase2Params(eng, *input, curve.CheckFull)
	if err != nil {
		return err
	}
	pool := workpool.New(cfg.Workers.PoolSize)
	after, err := phase2.Contribute(eng, pool, rand.Reader, before, mode)
	if err != nil {
		return err
	}
	if err := savePhase2Params(eng, *output, after); err != nil {
		return err
	}
	log.Printf("run %s: phase2 contribute -> %s (%d contributors)", runID, *output, len(after.Contributors))
	return nil
}

// phase2Verify implements §6 Phase-2's verify analogue (C14).
func phase2Verify(args []string) error {
	fs := flag.NewFlagSet("phase2 verify", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	before := fs.String("before", "", "pre-contribution Phase-2 params path")
	after := fs.String("after", "", "post-contribution Phase-2 params path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *before == "" || *after == "" {
		return fmt.Errorf("%w: -before and -after are required", errUsage)
	}
	_, eng, err := cf.load()
	if err != nil {
		return err
	}
	beforeP, err := loadPhase2Params(eng, *before, curve.CheckFull)
	if err != nil {
		return err
	}
	afterP, err := loadPhase2Params(eng, *after, curve.CheckFull)
	if err != nil {
		return err
	}
	if err := phase2.Verify(eng, beforeP, afterP); err != nil {
		return err
	}
	log.Printf("phase2 verify: %s -> %s ok", *before, *after)
	return nil
}

// phase2Combine implements §6 Phase-2's combine analogue (C15).
func phase2Combine(args []string) error {
	fs := flag.NewFlagSet("phase2 combine", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	output := fs.String("output", "", "combined Phase-2 params output path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	parts := fs.Args()
	if *output == "" || len(parts) == 0 {
		return fmt.Errorf("%w: -output and at least one chunk path are required", errUsage)
	}
	_, eng, err := cf.load()
	if err != nil {
		return err
	}
	chunks := make([]*phase2.Params, len(parts))
	for i, path := range parts {
		chunks[i], err = loadPhase2Params(eng, path, curve.CheckFull)
		if err != nil {
			return err
		}
	}
	combined, err := phase2.Combine(eng, chunks)
	if err != nil {
		return err
	}
	return savePhase2Params(eng, *output, combined)
}
