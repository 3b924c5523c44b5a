// Copyright 2025 Certen Protocol

package scalarmul

import (
	"math/big"
	"testing"

	"github.com/certen/trusted-setup/pkg/curve"
)

func TestDirectFlagDispatch(t *testing.T) {
	if !directFlag(ModeDirect, 10000) {
		t.Fatalf("ModeDirect must always be direct")
	}
	if directFlag(ModeBatchInversion, 1) {
		t.Fatalf("ModeBatchInversion must never be direct")
	}
	if directFlag(ModeAuto, AutoThreshold) {
		t.Fatalf("ModeAuto at threshold must use BatchInversion")
	}
	if !directFlag(ModeAuto, AutoThreshold-1) {
		t.Fatalf("ModeAuto below threshold must use Direct")
	}
}

func TestPowerSequence(t *testing.T) {
	modulus := big.NewInt(101)
	base := big.NewInt(5)
	seq := PowerSequence(base, 2, 5, modulus)
	if len(seq) != 3 {
		t.Fatalf("len(seq) = %d, want 3", len(seq))
	}
	want := new(big.Int).Exp(base, big.NewInt(2), modulus)
	if seq[0].Cmp(want) != 0 {
		t.Fatalf("seq[0] = %v, want %v", seq[0], want)
	}
	want3 := new(big.Int).Exp(base, big.NewInt(4), modulus)
	if seq[2].Cmp(want3) != 0 {
		t.Fatalf("seq[2] = %v, want %v", seq[2], want3)
	}
}

func TestScalarsG1MatchesDirectAndBatchInversion(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	bases := make([]curve.PointG1, 5)
	scalars := make([]*big.Int, 5)
	for i := range bases {
		bases[i] = eng.ScalarMulG1(eng.G1Generator(), big.NewInt(int64(i+1)))
		scalars[i] = big.NewInt(int64(2*i + 3))
	}

	direct, err := ScalarsG1(eng, bases, scalars, ModeDirect)
	if err != nil {
		t.Fatalf("ScalarsG1(Direct) error = %v", err)
	}
	batched, err := ScalarsG1(eng, bases, scalars, ModeBatchInversion)
	if err != nil {
		t.Fatalf("ScalarsG1(BatchInversion) error = %v", err)
	}
	for i := range direct {
		if !eng.EqualG1(direct[i], batched[i]) {
			t.Fatalf("element %d: direct and batched results differ", i)
		}
	}
}
