// Copyright 2025 Certen Protocol

// Package publickey implements C5: the per-contributor proof-of-
// knowledge object for Phase 1 (key_generation, compute_g2_s) grounded
// on setup-utils/src/helpers.rs's compute_g2_s and the Phase-1
// public_key.rs/private_key.rs data model.
package publickey

import (
	"fmt"
	"io"
	"math/big"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/ceremony/pairing"
	"github.com/certen/trusted-setup/pkg/ceremony/secret"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Digest64 is the 64-byte transcript/accumulator digest type shared
// with package digest.
type Digest64 = [digest.Size]byte

// Personalization bytes distinguish the three HashToG2 draws inside
// key_generation/compute_g2_s. Exported so verifiers outside this
// package can recompute g2_xs for a specific pair.
const (
	PersonalizationTau byte = iota
	PersonalizationAlpha
	PersonalizationBeta
)

// Pair is a (s, s^x) proof-of-knowledge pair in G1.
type Pair struct {
	S, SX curve.PointG1
}

// PublicKey is PK_i from §3: three G1 proof pairs plus the three final
// G2 values. The intermediate g2_xs values are not stored — verifiers
// recompute them from the digest via ComputeG2S.
type PublicKey struct {
	TauG1, AlphaG1, BetaG1 Pair
	TauG2, AlphaG2, BetaG2 curve.PointG2
}

// ComputeG2S recomputes g2_xs = HashToG2(personalization || digest ||
// compressed(s) || compressed(sx)), the value the Phase-1 verifier
// needs to check each proof-of-knowledge ratio without ever seeing the
// private scalar itself.
func ComputeG2S(eng curve.Engine, digest64 Digest64, s, sx curve.PointG1, personalization byte) curve.PointG2 {
	sBytes := eng.EncodeG1(s, true)
	sxBytes := eng.EncodeG1(sx, true)
	msg := make([]byte, 0, 1+len(digest64)+len(sBytes)+len(sxBytes))
	msg = append(msg, personalization)
	msg = append(msg, digest64[:]...)
	msg = append(msg, sBytes...)
	msg = append(msg, sxBytes...)
	return eng.HashToG2(msg)
}

// KeyGenerate implements key_generation(rng, digest) -> (PK, sk):
// samples (tau, alpha, beta) and three random G1 blinding points,
// derives the three g2_xs values via ComputeG2S, and returns the
// public key plus the zeroizing-owned secret triple.
func KeyGenerate(eng curve.Engine, rng io.Reader, digest64 Digest64) (*PublicKey, *secret.Triple, error) {
	tau, err := eng.RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("publickey: sample tau: %w", err)
	}
	alpha, err := eng.RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("publickey: sample alpha: %w", err)
	}
	beta, err := eng.RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("publickey: sample beta: %w", err)
	}
	sk := secret.NewTriple(tau, alpha, beta)

	tauPair, err := blindedPair(eng, rng, sk.Tau.Value())
	if err != nil {
		sk.Zeroize()
		return nil, nil, fmt.Errorf("publickey: tau pair: %w", err)
	}
	alphaPair, err := blindedPair(eng, rng, sk.Alpha.Value())
	if err != nil {
		sk.Zeroize()
		return nil, nil, fmt.Errorf("publickey: alpha pair: %w", err)
	}
	betaPair, err := blindedPair(eng, rng, sk.Beta.Value())
	if err != nil {
		sk.Zeroize()
		return nil, nil, fmt.Errorf("publickey: beta pair: %w", err)
	}

	g2TauS := ComputeG2S(eng, digest64, tauPair.S, tauPair.SX, PersonalizationTau)
	g2AlphaS := ComputeG2S(eng, digest64, alphaPair.S, alphaPair.SX, PersonalizationAlpha)
	g2BetaS := ComputeG2S(eng, digest64, betaPair.S, betaPair.SX, PersonalizationBeta)

	pk := &PublicKey{
		TauG1:   tauPair,
		AlphaG1: alphaPair,
		BetaG1:  betaPair,
		TauG2:   eng.ScalarMulG2(g2TauS, sk.Tau.Value()),
		AlphaG2: eng.ScalarMulG2(g2AlphaS, sk.Alpha.Value()),
		BetaG2:  eng.ScalarMulG2(g2BetaS, sk.Beta.Value()),
	}
	return pk, sk, nil
}

// VerifyPoK recomputes the three g2_xs values from digest and checks
// each proof-of-knowledge ratio from §4.8 step 2: any failure means
// the contributor did not actually know the scalar they claim.
func VerifyPoK(eng curve.Engine, pk *PublicKey, digest64 Digest64) (bool, error) {
	g2TauS := ComputeG2S(eng, digest64, pk.TauG1.S, pk.TauG1.SX, PersonalizationTau)
	g2AlphaS := ComputeG2S(eng, digest64, pk.AlphaG1.S, pk.AlphaG1.SX, PersonalizationAlpha)
	g2BetaS := ComputeG2S(eng, digest64, pk.BetaG1.S, pk.BetaG1.SX, PersonalizationBeta)

	for _, check := range []struct {
		name string
		pair Pair
		g2s  curve.PointG2
		g2x  curve.PointG2
	}{
		{"tau", pk.TauG1, g2TauS, pk.TauG2},
		{"alpha", pk.AlphaG1, g2AlphaS, pk.AlphaG2},
		{"beta", pk.BetaG1, g2BetaS, pk.BetaG2},
	} {
		ok, err := pairing.SameRatio(eng, check.pair.S, check.pair.SX, check.g2s, check.g2x)
		if err != nil {
			return false, fmt.Errorf("publickey: verify pok %s: %w", check.name, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// blindedPair samples a random G1 blinding point s and returns
// (s, x*s) for the given private scalar x.
func blindedPair(eng curve.Engine, rng io.Reader, x *big.Int) (Pair, error) {
	sScalar, err := eng.RandomScalar(rng)
	if err != nil {
		return Pair{}, err
	}
	s := eng.ScalarMulG1(eng.G1Generator(), sScalar)
	sx := eng.ScalarMulG1(s, x)
	return Pair{S: s, SX: sx}, nil
}
