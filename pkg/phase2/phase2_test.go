// Copyright 2025 Certen Protocol

package phase2

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/lagrange"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/publickey"
	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
	"github.com/certen/trusted-setup/pkg/phase1"
)

// toyCircuit builds a 1-constraint x*x=out R1CS over variables
// [1, out, x], padded to 4 constraints (domain size 4) with zero rows.
func toyCircuit() (Matrix, Matrix, Matrix, int) {
	zero := func() []*big.Int { return []*big.Int{big.NewInt(0), big.NewInt(0), big.NewInt(0)} }
	a := Matrix{{big.NewInt(0), big.NewInt(0), big.NewInt(1)}, zero(), zero(), zero()}
	b := Matrix{{big.NewInt(0), big.NewInt(0), big.NewInt(1)}, zero(), zero(), zero()}
	c := Matrix{{big.NewInt(0), big.NewInt(1), big.NewInt(0)}, zero(), zero(), zero()}
	return a, b, c, 2 // numPublic = 2 (the "1" wire and "out")
}

func freshPhase1Accumulator(t *testing.T) (curve.Engine, *workpool.Pool, []byte) {
	t.Helper()
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pool := workpool.New(4)
	p := params.Params{Curve: curve.BLS12_377, System: params.Groth16, K: 3, BatchSize: 256, Mode: params.Full(), Compressed: false}

	base, err := phase1.Initialize(eng, pool, p, false)
	if err != nil {
		t.Fatalf("phase1.Initialize() error = %v", err)
	}
	d := digest.Sum(base)
	_, sk, err := publickey.KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}
	out, err := phase1.Contribute(eng, pool, p, base, false, curve.CheckNone, false, sk, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("phase1.Contribute() error = %v", err)
	}
	return eng, pool, out
}

func initPhase2(t *testing.T) (curve.Engine, *Params) {
	t.Helper()
	eng, _, accBuf := freshPhase1Accumulator(t)
	p := params.Params{Curve: curve.BLS12_377, System: params.Groth16, K: 3, BatchSize: 256, Mode: params.Full(), Compressed: false}

	conv, err := lagrange.Convert(eng, p, accBuf, false, curve.CheckNone, 4)
	if err != nil {
		t.Fatalf("lagrange.Convert() error = %v", err)
	}

	a, b, c, numPublic := toyCircuit()
	params2, err := Initialize(eng, conv, a, b, c, numPublic)
	if err != nil {
		t.Fatalf("phase2.Initialize() error = %v", err)
	}
	return eng, params2
}

func TestInitializeBuildsConsistentVectors(t *testing.T) {
	_, p := initPhase2(t)
	if len(p.AQuery) != 3 {
		t.Fatalf("len(AQuery) = %d, want 3", len(p.AQuery))
	}
	if len(p.VK.GammaABCG1) != 2 {
		t.Fatalf("len(GammaABCG1) = %d, want 2", len(p.VK.GammaABCG1))
	}
	if len(p.LQuery) != 1 {
		t.Fatalf("len(LQuery) = %d, want 1", len(p.LQuery))
	}
}

func TestContributeThenVerifySucceeds(t *testing.T) {
	eng, before := initPhase2(t)
	beforeCopy := *before
	beforeCopy.Contributors = append([]PublicKey2{}, before.Contributors...)
	beforeCopy.HQuery = append([]curve.PointG1{}, before.HQuery...)
	beforeCopy.LQuery = append([]curve.PointG1{}, before.LQuery...)

	pool := workpool.New(4)
	after, err := Contribute(eng, pool, rand.Reader, before, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	if err := Verify(eng, &beforeCopy, after); err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}
}

func TestVerifyRejectsTamperedAfter(t *testing.T) {
	eng, before := initPhase2(t)
	beforeCopy := *before
	beforeCopy.Contributors = append([]PublicKey2{}, before.Contributors...)
	beforeCopy.HQuery = append([]curve.PointG1{}, before.HQuery...)
	beforeCopy.LQuery = append([]curve.PointG1{}, before.LQuery...)

	pool := workpool.New(4)
	after, err := Contribute(eng, pool, rand.Reader, before, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	after.HQuery[0] = eng.AddG1(after.HQuery[0], eng.G1Generator())

	if err := Verify(eng, &beforeCopy, after); err == nil {
		t.Fatalf("Verify() error = nil, want a tampered h_query to be rejected")
	}
}

func TestVerifyRejectsNoContributions(t *testing.T) {
	eng, before := initPhase2(t)
	beforeCopy := *before
	beforeCopy.Contributors = append([]PublicKey2{}, before.Contributors...)
	beforeCopy.HQuery = append([]curve.PointG1{}, before.HQuery...)
	beforeCopy.LQuery = append([]curve.PointG1{}, before.LQuery...)

	if err := Verify(eng, &beforeCopy, before); !errors.Is(err, errs.NoContributions) {
		t.Fatalf("Verify(before, before) error = %v, want NoContributions", err)
	}
}

func TestSplitContributeChunkCombineMatchesDirectContribution(t *testing.T) {
	eng, before := initPhase2(t)
	beforeCopy := *before
	beforeCopy.Contributors = append([]PublicKey2{}, before.Contributors...)
	beforeCopy.HQuery = append([]curve.PointG1{}, before.HQuery...)
	beforeCopy.LQuery = append([]curve.PointG1{}, before.LQuery...)

	chunks, err := Split(before, 2)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	delta := big.NewInt(7)
	deltaInv := new(big.Int).ModInverse(delta, eng.ScalarFieldModulus())
	for _, c := range chunks {
		if err := ContributeChunk(eng, c, deltaInv, scalarmul.ModeAuto); err != nil {
			t.Fatalf("ContributeChunk() error = %v", err)
		}
	}
	header := *chunks[0].Header
	header.DeltaG1 = eng.ScalarMulG1(header.DeltaG1, delta)
	header.DeltaG2 = eng.ScalarMulG2(header.DeltaG2, delta)
	header.Contributors = append(header.Contributors, PublicKey2{
		S: eng.G1Generator(), SDelta: eng.ScalarMulG1(eng.G1Generator(), delta),
		R: eng.G2Generator(), RDelta: eng.ScalarMulG2(eng.G2Generator(), delta),
		DeltaAfterG1: header.DeltaG1,
	})
	for _, c := range chunks {
		c.Header = &header
	}

	parts := make([]*Params, len(chunks))
	for i, c := range chunks {
		parts[i] = c.ToParams()
	}
	combined, err := Combine(eng, parts)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(combined.HQuery) != len(before.HQuery) {
		t.Fatalf("len(combined.HQuery) = %d, want %d", len(combined.HQuery), len(before.HQuery))
	}
}
