// Copyright 2025 Certen Protocol

// Package lagrange implements C11: converting a finished Phase-1
// accumulator's monomial-basis tau/alpha/beta vectors into the
// coefficient-basis query vectors Phase-2 initialization (C12) needs,
// via inverse-FFT over a radix-2 evaluation domain.
package lagrange

import (
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Converted holds the output of converting one finished Phase-1
// accumulator of domain size N: the four coefficient-basis vectors,
// the h_query vector of length N-1, and beta_g2 passed through
// unchanged.
type Converted struct {
	CoeffsTauG1   []curve.PointG1
	CoeffsTauG2   []curve.PointG2
	CoeffsAlphaG1 []curve.PointG1
	CoeffsBetaG1  []curve.PointG1
	HQuery        []curve.PointG1
	BetaG2        curve.PointG2

	// AlphaG1/BetaG1 are the raw (pre-FFT) alpha_g1[0]/beta_g1[0]
	// values, i.e. alpha*G1 and beta*G1 themselves — Phase-2's vk
	// needs the toxic-waste commitments, not their coefficient-basis
	// transform.
	AlphaG1 curve.PointG1
	BetaG1  curve.PointG1
}

// NextPowerOfTwo returns the smallest power of two >= n (or 1 if n<=0).
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Convert implements C11: given a finished Phase-1 accumulator buffer
// and circuit size n (already rounded to a power of two by the
// caller via NextPowerOfTwo), applies inverse-FFT to tau_g1[0:n],
// tau_g2[0:n], alpha_g1[0:n], beta_g1[0:n] independently, derives
// h_query, and passes beta_g2 through unchanged.
func Convert(eng curve.Engine, p params.Params, buf []byte, compressed bool, check curve.CheckLevel, n int) (*Converted, error) {
	domain, err := eng.FFTDomain(n)
	if err != nil {
		return nil, fmt.Errorf("lagrange: fft domain: %w", err)
	}
	if domain.Size() != n {
		return nil, fmt.Errorf("lagrange: domain size %d != requested %d", domain.Size(), n)
	}

	tauG1, err := readVectorG1(eng, p, buf, compressed, check, params.TauG1, n)
	if err != nil {
		return nil, fmt.Errorf("lagrange: read tau_g1: %w", err)
	}
	tauG2, err := readVectorG2(eng, p, buf, compressed, check, params.TauG2, n)
	if err != nil {
		return nil, fmt.Errorf("lagrange: read tau_g2: %w", err)
	}
	alphaG1, err := readVectorG1(eng, p, buf, compressed, check, params.AlphaG1, n)
	if err != nil {
		return nil, fmt.Errorf("lagrange: read alpha_g1: %w", err)
	}
	betaG1, err := readVectorG1(eng, p, buf, compressed, check, params.BetaG1, n)
	if err != nil {
		return nil, fmt.Errorf("lagrange: read beta_g1: %w", err)
	}
	betaG2, err := readG2Single(eng, p, buf, compressed, check, params.BetaG2)
	if err != nil {
		return nil, fmt.Errorf("lagrange: read beta_g2: %w", err)
	}
	rawAlphaG1_0 := alphaG1[0]
	rawBetaG1_0 := betaG1[0]

	if err := domain.InvFFTG1(tauG1); err != nil {
		return nil, fmt.Errorf("lagrange: inv fft tau_g1: %w", err)
	}
	if err := domain.InvFFTG2(tauG2); err != nil {
		return nil, fmt.Errorf("lagrange: inv fft tau_g2: %w", err)
	}
	if err := domain.InvFFTG1(alphaG1); err != nil {
		return nil, fmt.Errorf("lagrange: inv fft alpha_g1: %w", err)
	}
	if err := domain.InvFFTG1(betaG1); err != nil {
		return nil, fmt.Errorf("lagrange: inv fft beta_g1: %w", err)
	}

	hQuery, err := deriveHQuery(eng, p, buf, compressed, check, n)
	if err != nil {
		return nil, fmt.Errorf("lagrange: h_query: %w", err)
	}

	return &Converted{
		CoeffsTauG1:   tauG1,
		CoeffsTauG2:   tauG2,
		CoeffsAlphaG1: alphaG1,
		CoeffsBetaG1:  betaG1,
		HQuery:        hQuery,
		BetaG2:        betaG2,
		AlphaG1:       rawAlphaG1_0,
		BetaG1:        rawBetaG1_0,
	}, nil
}

// deriveHQuery computes h_query[i] = tau^i * (tau^n - 1) * G1 / n for
// i in [0, n-1), directly from the monomial-basis tau_g1 vector (which
// already holds tau^i * G1 for every i < len(tau_g1)): h_query[i] is a
// linear combination of tau_g1[i+n] and tau_g1[i].
func deriveHQuery(eng curve.Engine, p params.Params, buf []byte, compressed bool, check curve.CheckLevel, n int) ([]curve.PointG1, error) {
	need := 2*n - 1
	total := p.Len(params.TauG1)
	if need > total {
		need = total
	}
	tauG1, err := readVectorG1(eng, p, buf, compressed, check, params.TauG1, need)
	if err != nil {
		return nil, err
	}
	out := make([]curve.PointG1, n-1)
	for i := 0; i < n-1 && i+n < len(tauG1); i++ {
		hi := tauG1[i+n]
		lo := tauG1[i]
		out[i] = eng.AddG1(hi, eng.NegG1(lo))
	}
	return out, nil
}

func readVectorG1(eng curve.Engine, p params.Params, buf []byte, compressed bool, check curve.CheckLevel, tag params.VectorTag, n int) ([]curve.PointG1, error) {
	off := p.Offset(eng, tag, compressed)
	size := eng.G1Size(compressed)
	out := make([]curve.PointG1, n)
	for i := 0; i < n; i++ {
		pt, _, err := codec.ReadG1(eng, buf, off+i*size, compressed, check)
		if err != nil {
			return nil, err
		}
		out[i] = pt
	}
	return out, nil
}

func readVectorG2(eng curve.Engine, p params.Params, buf []byte, compressed bool, check curve.CheckLevel, tag params.VectorTag, n int) ([]curve.PointG2, error) {
	off := p.Offset(eng, tag, compressed)
	size := eng.G2Size(compressed)
	out := make([]curve.PointG2, n)
	for i := 0; i < n; i++ {
		pt, _, err := codec.ReadG2(eng, buf, off+i*size, compressed, check)
		if err != nil {
			return nil, err
		}
		out[i] = pt
	}
	return out, nil
}

func readG2Single(eng curve.Engine, p params.Params, buf []byte, compressed bool, check curve.CheckLevel, tag params.VectorTag) (curve.PointG2, error) {
	if p.Len(tag) == 0 {
		return eng.G2Generator(), nil
	}
	off := p.Offset(eng, tag, compressed)
	pt, _, err := codec.ReadG2(eng, buf, off, compressed, check)
	return pt, err
}
