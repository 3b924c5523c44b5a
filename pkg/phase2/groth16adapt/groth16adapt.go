// Copyright 2025 Certen Protocol

// Package groth16adapt derives a real gnark groth16.ProvingKey/VerifyingKey
// from a finished Phase-2 Params, for callers that want to hand a
// ceremony's output straight to github.com/consensys/gnark instead of
// re-implementing Groth16 proving/verification themselves.
//
// Only BLS12-377 is wired: gnark's per-curve key types (G1.A, G1.B,
// G1.K, G1.Z, G2.B, ...) live in one package per curve
// (github.com/consensys/gnark/backend/groth16/<curve>), so adding a
// curve here means adding one more decode path.
package groth16adapt

import (
	"fmt"

	bls12377 "github.com/consensys/gnark-crypto/ecc/bls12-377"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr/fft"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bls12377 "github.com/consensys/gnark/backend/groth16/bls12-377"

	"github.com/certen/trusted-setup/pkg/curve"
	"github.com/certen/trusted-setup/pkg/phase2"
)

// ToGroth16Keys derives gnark's native ProvingKey/VerifyingKey from a
// finished Phase-2 Params over BLS12-377. The two keys describe the
// same circuit the Params were initialized from (phase2.Initialize's
// A/B/C matrices): callers must compile that exact circuit themselves
// to get a matching constraint.ConstraintSystem before calling
// groth16.Prove.
func ToGroth16Keys(eng curve.Engine, p *phase2.Params) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	if eng.Kind() != curve.BLS12_377 {
		return nil, nil, fmt.Errorf("groth16adapt: only bls12-377 is wired, got %s", eng.Kind())
	}

	decodeG1 := func(pt curve.PointG1) (bls12377.G1Affine, error) {
		var a bls12377.G1Affine
		if _, err := a.SetBytes(eng.EncodeG1(pt, true)); err != nil {
			return a, fmt.Errorf("groth16adapt: decode g1: %w", err)
		}
		return a, nil
	}
	decodeG2 := func(pt curve.PointG2) (bls12377.G2Affine, error) {
		var a bls12377.G2Affine
		if _, err := a.SetBytes(eng.EncodeG2(pt, true)); err != nil {
			return a, fmt.Errorf("groth16adapt: decode g2: %w", err)
		}
		return a, nil
	}
	decodeG1Slice := func(pts []curve.PointG1) ([]bls12377.G1Affine, error) {
		out := make([]bls12377.G1Affine, len(pts))
		for i, pt := range pts {
			a, err := decodeG1(pt)
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	}
	decodeG2Slice := func(pts []curve.PointG2) ([]bls12377.G2Affine, error) {
		out := make([]bls12377.G2Affine, len(pts))
		for i, pt := range pts {
			a, err := decodeG2(pt)
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	}

	vk := &groth16_bls12377.VerifyingKey{}
	var err error
	if vk.G1.Alpha, err = decodeG1(p.VK.AlphaG1); err != nil {
		return nil, nil, err
	}
	if vk.G2.Beta, err = decodeG2(p.VK.BetaG2); err != nil {
		return nil, nil, err
	}
	if vk.G2.Gamma, err = decodeG2(p.VK.GammaG2); err != nil {
		return nil, nil, err
	}
	if vk.G2.Delta, err = decodeG2(p.DeltaG2); err != nil {
		return nil, nil, err
	}
	if vk.G1.K, err = decodeG1Slice(p.VK.GammaABCG1); err != nil {
		return nil, nil, err
	}

	pk := &groth16_bls12377.ProvingKey{}
	pk.Domain = *fft.NewDomain(uint64(len(p.HQuery) + 1))
	if pk.G1.Alpha, err = decodeG1(p.VK.AlphaG1); err != nil {
		return nil, nil, err
	}
	if pk.G1.Beta, err = decodeG1(p.VK.BetaG1); err != nil {
		return nil, nil, err
	}
	if pk.G1.Delta, err = decodeG1(p.DeltaG1); err != nil {
		return nil, nil, err
	}
	if pk.G1.A, err = decodeG1Slice(p.AQuery); err != nil {
		return nil, nil, err
	}
	if pk.G1.B, err = decodeG1Slice(p.BG1Query); err != nil {
		return nil, nil, err
	}
	if pk.G1.Z, err = decodeG1Slice(p.HQuery); err != nil {
		return nil, nil, err
	}
	if pk.G1.K, err = decodeG1Slice(p.LQuery); err != nil {
		return nil, nil, err
	}
	if pk.G2.Beta, err = decodeG2(p.VK.BetaG2); err != nil {
		return nil, nil, err
	}
	if pk.G2.Delta, err = decodeG2(p.DeltaG2); err != nil {
		return nil, nil, err
	}
	if pk.G2.B, err = decodeG2Slice(p.BG2Query); err != nil {
		return nil, nil, err
	}

	return pk, vk, nil
}
