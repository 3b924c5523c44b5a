// Copyright 2025 Certen Protocol

// Package phase2 implements the Phase-2 Groth16-specialization
// lifecycle: parameter initialization from R1CS matrices plus a
// finished Phase-1 accumulator (C12), per-contributor delta
// contribution (C13), before/after transcript verification (C14), and
// chunk recombination (C15).
package phase2

import (
	"fmt"
	"math/big"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/ceremony/lagrange"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Matrix is a dense R1CS coefficient matrix: rows are constraints,
// columns are variables (column 0 is the constant 1 wire, followed by
// public inputs, followed by witness variables).
type Matrix [][]*big.Int

// VerifyingKey is Groth16's public verification data, everything
// except delta which lives on Params directly since it changes with
// every contribution.
type VerifyingKey struct {
	AlphaG1    curve.PointG1
	BetaG1     curve.PointG1 // kept alongside BetaG2; Verify checks it is unchanged, groth16adapt copies it into the proving key
	BetaG2     curve.PointG2
	GammaG2    curve.PointG2
	GammaABCG1 []curve.PointG1
}

// PublicKey2 is PK2 from §4.13: a contributor's proof that they
// applied some delta to Params.DeltaG1/DeltaG2, analogous to Phase-1's
// PublicKey but over a single scalar.
type PublicKey2 struct {
	S, SDelta    curve.PointG1
	R, RDelta    curve.PointG2
	Transcript   digest.Digest64
	DeltaAfterG1 curve.PointG1
}

// Digest64 aliases the shared transcript digest type.
type Digest64 = digest.Digest64

// Params is Π from §4.12-4.15: the in-memory Groth16 parameter set a
// Phase-2 ceremony mutates one delta-contribution at a time.
type Params struct {
	VK       VerifyingKey
	DeltaG1  curve.PointG1
	DeltaG2  curve.PointG2
	AQuery   []curve.PointG1
	BG1Query []curve.PointG1
	BG2Query []curve.PointG2
	HQuery   []curve.PointG1
	LQuery   []curve.PointG1
	CsHash   Digest64

	Contributors []PublicKey2
}

// Initialize implements C12: builds Π from R1CS matrices A, B, C (each
// numConstraints x numVars, numVars = 1 + numPublic + numWitness) and a
// Lagrange-converted Phase-1 accumulator. delta starts at 1 (DeltaG1=G1,
// DeltaG2=G2), gamma at 1 (VK.GammaG2=G2), matching §4.12 step 3.
func Initialize(eng curve.Engine, conv *lagrange.Converted, A, B, C Matrix, numPublic int) (*Params, error) {
	numConstraints := len(A)
	if numConstraints == 0 || len(A) != len(B) || len(A) != len(C) {
		return nil, fmt.Errorf("phase2: initialize: A/B/C row counts must match and be non-empty")
	}
	numVars := len(A[0])
	if numVars > len(conv.CoeffsTauG1) {
		return nil, fmt.Errorf("phase2: initialize: circuit has %d variables, domain only covers %d", numVars, len(conv.CoeffsTauG1))
	}
	if numPublic < 1 || numPublic > numVars {
		return nil, fmt.Errorf("phase2: initialize: invalid numPublic %d for %d variables", numPublic, numVars)
	}

	aQuery := make([]curve.PointG1, numVars)
	bG1Query := make([]curve.PointG1, numVars)
	bG2Query := make([]curve.PointG2, numVars)
	combined := make([]curve.PointG1, numVars)

	for j := 0; j < numVars; j++ {
		aQuery[j] = eng.G1Identity()
		bG1Query[j] = eng.G1Identity()
		bG2Query[j] = eng.G2Identity()
		combined[j] = eng.G1Identity()
	}

	for i := 0; i < numConstraints; i++ {
		rowA, rowB, rowC := A[i], B[i], C[i]
		tauG1I := conv.CoeffsTauG1[i]
		tauG2I := conv.CoeffsTauG2[i]
		alphaG1I := conv.CoeffsAlphaG1[i]
		betaG1I := conv.CoeffsBetaG1[i]
		for j := 0; j < numVars; j++ {
			if c := rowA[j]; c != nil && c.Sign() != 0 {
				aQuery[j] = eng.AddG1(aQuery[j], eng.ScalarMulG1(tauG1I, c))
				combined[j] = eng.AddG1(combined[j], eng.ScalarMulG1(betaG1I, c))
			}
			if c := rowB[j]; c != nil && c.Sign() != 0 {
				bG1Query[j] = eng.AddG1(bG1Query[j], eng.ScalarMulG1(tauG1I, c))
				bG2Query[j] = eng.AddG2(bG2Query[j], eng.ScalarMulG2(tauG2I, c))
				combined[j] = eng.AddG1(combined[j], eng.ScalarMulG1(alphaG1I, c))
			}
			if c := rowC[j]; c != nil && c.Sign() != 0 {
				combined[j] = eng.AddG1(combined[j], eng.ScalarMulG1(tauG1I, c))
			}
		}
	}

	gammaABC := make([]curve.PointG1, numPublic)
	copy(gammaABC, combined[:numPublic])
	lQuery := make([]curve.PointG1, numVars-numPublic)
	copy(lQuery, combined[numPublic:])

	p := &Params{
		VK: VerifyingKey{
			AlphaG1:    conv.AlphaG1,
			BetaG1:     conv.BetaG1,
			BetaG2:     conv.BetaG2,
			GammaG2:    eng.G2Generator(),
			GammaABCG1: gammaABC,
		},
		DeltaG1:  eng.G1Generator(),
		DeltaG2:  eng.G2Generator(),
		AQuery:   aQuery,
		BG1Query: bG1Query,
		BG2Query: bG2Query,
		HQuery:   conv.HQuery,
		LQuery:   lQuery,
	}
	p.CsHash = computeCsHash(eng, p)
	return p, nil
}

// computeCsHash implements §4.12 step 4: cs_hash is BLAKE2b taken once,
// before any contribution, over the compressed encodings of
// vk.alpha_g1, vk.beta_g1, vk.gamma_abc_g1, a_query, b_g1_query,
// h_query and l_query as Initialize built them. The G2 elements
// (vk.beta_g2, vk.gamma_g2, b_g2_query), delta and the contributor list
// are not hashed.
func computeCsHash(eng curve.Engine, p *Params) Digest64 {
	hw := digest.NewHashWriter(nil)
	writeG1 := func(pt curve.PointG1) { hw.Write(eng.EncodeG1(pt, true)) }
	writeG1(p.VK.AlphaG1)
	writeG1(p.VK.BetaG1)
	for _, pt := range p.VK.GammaABCG1 {
		writeG1(pt)
	}
	for _, pt := range p.AQuery {
		writeG1(pt)
	}
	for _, pt := range p.BG1Query {
		writeG1(pt)
	}
	for _, pt := range p.HQuery {
		writeG1(pt)
	}
	for _, pt := range p.LQuery {
		writeG1(pt)
	}
	return hw.Sum512()
}
