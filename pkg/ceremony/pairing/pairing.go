// Copyright 2025 Certen Protocol

// Package pairing implements C3: the same-ratio pairing check and the
// randomized merge_pairs/power_pairs aggregators used throughout
// Phase-1 and Phase-2 verification.
package pairing

import (
	"fmt"
	"io"

	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/curve"
)

// SameRatio reports whether e(a1,b2) == e(a2,b1), failing if any input
// is the group identity.
func SameRatio(eng curve.Engine, a1, a2 curve.PointG1, b1, b2 curve.PointG2) (bool, error) {
	if eng.IsIdentityG1(a1) || eng.IsIdentityG1(a2) {
		return false, fmt.Errorf("pairing: same_ratio: %w", errs.PointAtInfinity)
	}
	if eng.IsIdentityG2(b1) || eng.IsIdentityG2(b2) {
		return false, fmt.Errorf("pairing: same_ratio: %w", errs.PointAtInfinity)
	}
	lhs, err := eng.PairingCheck([]curve.PointG1{a1, eng.NegG1(a2)}, []curve.PointG2{b2, b1})
	if err != nil {
		return false, fmt.Errorf("pairing: same_ratio: %w", err)
	}
	return lhs, nil
}

// MergePairs samples rho_i <- Fr for i<n and returns
// (sum rho_i*v1_i, sum rho_i*v2_i). With overwhelming probability the
// result has the same ratio as (v1_i, v2_i) for every i.
func MergePairs(eng curve.Engine, rng io.Reader, v1, v2 []curve.PointG1) (curve.PointG1, curve.PointG1, error) {
	n := len(v1)
	if n != len(v2) {
		return nil, nil, fmt.Errorf("pairing: merge_pairs: %w", errs.New(errs.KindInvalidLength, fmt.Sprintf("v1 has %d, v2 has %d", n, len(v2))))
	}
	if n == 0 {
		return eng.G1Identity(), eng.G1Identity(), nil
	}
	acc1 := eng.G1Identity()
	acc2 := eng.G1Identity()
	for i := 0; i < n; i++ {
		rho, err := eng.RandomScalar(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("pairing: merge_pairs: sample rho: %w", err)
		}
		acc1 = eng.AddG1(acc1, eng.ScalarMulG1(v1[i], rho))
		acc2 = eng.AddG1(acc2, eng.ScalarMulG1(v2[i], rho))
	}
	return acc1, acc2, nil
}

// PowerPairs is MergePairs(v[0:n-1], v[1:n]); used to verify a vector
// has shape [X, x*X, x^2*X, ...].
func PowerPairs(eng curve.Engine, rng io.Reader, v []curve.PointG1) (curve.PointG1, curve.PointG1, error) {
	if len(v) < 2 {
		return nil, nil, fmt.Errorf("pairing: power_pairs: %w", errs.New(errs.KindBatchTooSmall, fmt.Sprintf("need >=2 elements, got %d", len(v))))
	}
	return MergePairs(eng, rng, v[:len(v)-1], v[1:])
}

// MergePairsG2 is MergePairs's G2 analogue, needed to check a G2
// vector's power-sequence shape (tau_g2 has no G1 twin to fold the
// randomization into).
func MergePairsG2(eng curve.Engine, rng io.Reader, v1, v2 []curve.PointG2) (curve.PointG2, curve.PointG2, error) {
	n := len(v1)
	if n != len(v2) {
		return nil, nil, fmt.Errorf("pairing: merge_pairs_g2: %w", errs.New(errs.KindInvalidLength, fmt.Sprintf("v1 has %d, v2 has %d", n, len(v2))))
	}
	if n == 0 {
		return eng.G2Identity(), eng.G2Identity(), nil
	}
	acc1 := eng.G2Identity()
	acc2 := eng.G2Identity()
	for i := 0; i < n; i++ {
		rho, err := eng.RandomScalar(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("pairing: merge_pairs_g2: sample rho: %w", err)
		}
		acc1 = eng.AddG2(acc1, eng.ScalarMulG2(v1[i], rho))
		acc2 = eng.AddG2(acc2, eng.ScalarMulG2(v2[i], rho))
	}
	return acc1, acc2, nil
}

// PowerPairsG2 is MergePairsG2(v[0:n-1], v[1:n]).
func PowerPairsG2(eng curve.Engine, rng io.Reader, v []curve.PointG2) (curve.PointG2, curve.PointG2, error) {
	if len(v) < 2 {
		return nil, nil, fmt.Errorf("pairing: power_pairs_g2: %w", errs.New(errs.KindBatchTooSmall, fmt.Sprintf("need >=2 elements, got %d", len(v))))
	}
	return MergePairsG2(eng, rng, v[:len(v)-1], v[1:])
}
