// Copyright 2025 Certen Protocol

// Package scalarmul implements C2: batch scalar multiplication of an
// affine point vector by either a per-element scalar sequence or one
// shared scalar, dispatching between the engine's Direct and
// BatchInversion strategies.
package scalarmul

import (
	"math/big"

	"github.com/certen/trusted-setup/pkg/curve"
)

// Mode selects which batch scalar-multiplication strategy to use.
type Mode int

const (
	// ModeAuto picks BatchInversion for N >= AutoThreshold and Direct
	// otherwise.
	ModeAuto Mode = iota
	ModeDirect
	ModeBatchInversion
)

// AutoThreshold is the batch-size cutover point for ModeAuto, matching
// setup-utils' own Auto dispatch threshold of 1<<12 elements.
const AutoThreshold = 4096

func directFlag(mode Mode, n int) bool {
	switch mode {
	case ModeDirect:
		return true
	case ModeBatchInversion:
		return false
	default:
		return n < AutoThreshold
	}
}

// ScalarsG1 raises each of bases[i] to scalars[i] (or to the single
// scalars[0] if len(scalars)==1), in place conceptually — it returns
// the resulting vector rather than mutating bases, since PointG1 is an
// opaque immutable handle.
func ScalarsG1(eng curve.Engine, bases []curve.PointG1, scalars []*big.Int, mode Mode) ([]curve.PointG1, error) {
	return eng.BatchScalarMulG1(bases, scalars, directFlag(mode, len(bases)))
}

// ScalarsG2 is ScalarsG1's G2 analogue.
func ScalarsG2(eng curve.Engine, bases []curve.PointG2, scalars []*big.Int, mode Mode) ([]curve.PointG2, error) {
	return eng.BatchScalarMulG2(bases, scalars, directFlag(mode, len(bases)))
}

// PowerSequence returns [base^start, base^(start+1), ..., base^(end-1)]
// reduced mod modulus, the scalar sequence C7 needs for a tauG1/tauG2
// chunk (and, pre-multiplied by alpha or beta, for the alphaG1/betaG1
// chunks).
func PowerSequence(base *big.Int, start, end int, modulus *big.Int) []*big.Int {
	out := make([]*big.Int, 0, end-start)
	cur := new(big.Int).Exp(base, big.NewInt(int64(start)), modulus)
	for i := start; i < end; i++ {
		out = append(out, new(big.Int).Set(cur))
		cur = new(big.Int).Mod(new(big.Int).Mul(cur, base), modulus)
	}
	return out
}

// ScaledPowerSequence returns PowerSequence(base, start, end, modulus)
// with every element multiplied by coeff mod modulus — the sequence
// C7 needs for alphaG1 (coeff=alpha) and betaG1 (coeff=beta).
func ScaledPowerSequence(base, coeff *big.Int, start, end int, modulus *big.Int) []*big.Int {
	seq := PowerSequence(base, start, end, modulus)
	for i, v := range seq {
		seq[i] = new(big.Int).Mod(new(big.Int).Mul(v, coeff), modulus)
	}
	return seq
}
