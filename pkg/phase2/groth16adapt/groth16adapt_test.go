// Copyright 2025 Certen Protocol

package groth16adapt

import (
	"crypto/rand"
	"math/big"
	"testing"

	groth16_bls12377 "github.com/consensys/gnark/backend/groth16/bls12-377"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/ceremony/lagrange"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/publickey"
	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
	"github.com/certen/trusted-setup/pkg/phase1"
	"github.com/certen/trusted-setup/pkg/phase2"
)

// buildToyParams reruns the x*x=out toy ceremony from pkg/phase2's own
// tests: a fresh Phase-1 accumulator, one contribution, a Lagrange
// conversion, and a Phase-2 Initialize over the same 4-row R1CS. This
// package can't reach phase2's unexported toyCircuit helper, so it is
// duplicated here rather than exported from phase2 just for a test.
func buildToyParams(t *testing.T) (curve.Engine, *phase2.Params) {
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

	conv, err := lagrange.Convert(eng, p, out, false, curve.CheckNone, 4)
	if err != nil {
		t.Fatalf("lagrange.Convert() error = %v", err)
	}

	zero := func() []*big.Int { return []*big.Int{big.NewInt(0), big.NewInt(0), big.NewInt(0)} }
	a := phase2.Matrix{{big.NewInt(0), big.NewInt(0), big.NewInt(1)}, zero(), zero(), zero()}
	b := phase2.Matrix{{big.NewInt(0), big.NewInt(0), big.NewInt(1)}, zero(), zero(), zero()}
	c := phase2.Matrix{{big.NewInt(0), big.NewInt(1), big.NewInt(0)}, zero(), zero(), zero()}

	p2, err := phase2.Initialize(eng, conv, a, b, c, 2)
	if err != nil {
		t.Fatalf("phase2.Initialize() error = %v", err)
	}
	return eng, p2
}

// TestToGroth16KeysRejectsWrongCurve checks the curve guard, the one
// part of this package exercised without depending on gnark's internal
// per-curve key layout at all.
func TestToGroth16KeysRejectsWrongCurve(t *testing.T) {
	eng, err := curve.New(curve.BLS12_381)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	p2 := phase2Params(t)
	if _, _, err := ToGroth16Keys(eng, &p2); err == nil {
		t.Fatalf("ToGroth16Keys() error = nil, want a curve mismatch error")
	}
}

func phase2Params(t *testing.T) phase2.Params {
	t.Helper()
	_, p2 := buildToyParams(t)
	return *p2
}

// TestToGroth16KeysProducesMatchingQueryLengths checks the derived
// ProvingKey/VerifyingKey carry every query vector at the length
// phase2.Initialize built, i.e. the decode round trip through
// gnark-crypto's G1Affine/G2Affine loses nothing. It stops short of a
// full groth16.Prove/Verify round trip: that needs an R1CS compiled by
// gnark's own frontend, whose internal wire ordering and matrix layout
// phase2.Initialize's hand-built matrices would have to match exactly,
// and gnark exposes no stable public API to recover that ordering
// after frontend.Compile.
func TestToGroth16KeysProducesMatchingQueryLengths(t *testing.T) {
	eng, p2 := buildToyParams(t)

	pk, vk, err := ToGroth16Keys(eng, p2)
	if err != nil {
		t.Fatalf("ToGroth16Keys() error = %v", err)
	}
	concretePk, ok := pk.(*groth16_bls12377.ProvingKey)
	if !ok {
		t.Fatalf("ToGroth16Keys() pk is not *groth16_bls12377.ProvingKey")
	}
	concreteVk, ok := vk.(*groth16_bls12377.VerifyingKey)
	if !ok {
		t.Fatalf("ToGroth16Keys() vk is not *groth16_bls12377.VerifyingKey")
	}

	if len(concretePk.G1.A) != len(p2.AQuery) {
		t.Errorf("len(pk.G1.A) = %d, want %d", len(concretePk.G1.A), len(p2.AQuery))
	}
	if len(concretePk.G1.Z) != len(p2.HQuery) {
		t.Errorf("len(pk.G1.Z) = %d, want %d", len(concretePk.G1.Z), len(p2.HQuery))
	}
	if len(concretePk.G1.K) != len(p2.LQuery) {
		t.Errorf("len(pk.G1.K) = %d, want %d", len(concretePk.G1.K), len(p2.LQuery))
	}
	if len(concreteVk.G1.K) != len(p2.VK.GammaABCG1) {
		t.Errorf("len(vk.G1.K) = %d, want %d", len(concreteVk.G1.K), len(p2.VK.GammaABCG1))
	}
}
