// Copyright 2025 Certen Protocol

package phase2

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/ceremony/secret"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Contribute implements C13: samples a fresh delta, multiplies
// DeltaG1/DeltaG2 by it, divides HQuery/LQuery by delta in place, and
// appends a PublicKey2 transcript entry. p is mutated in place and
// also returned for convenience; delta and its inverse are zeroized on
// every exit path.
func Contribute(eng curve.Engine, pool *workpool.Pool, rng io.Reader, p *Params, mode scalarmul.Mode) (*Params, error) {
	delta, err := eng.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("phase2: contribute: sample delta: %w", err)
	}
	deltaScalar := secret.NewScalar(delta)
	defer deltaScalar.Zeroize()

	modulus := eng.ScalarFieldModulus()
	if delta.Sign() == 0 {
		return nil, fmt.Errorf("phase2: contribute: %w", errs.NoContributions)
	}
	deltaInv := new(big.Int).ModInverse(delta, modulus)
	if deltaInv == nil {
		return nil, fmt.Errorf("phase2: contribute: %w", errs.InconsistentDelta)
	}
	deltaInvScalar := secret.NewScalar(deltaInv)
	defer deltaInvScalar.Zeroize()

	sScalar, err := eng.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("phase2: contribute: sample s: %w", err)
	}
	s := eng.ScalarMulG1(eng.G1Generator(), sScalar)
	sDelta := eng.ScalarMulG1(s, delta)

	transcript := computeTranscript(eng, p.CsHash, p.Contributors, s, sDelta)
	r := eng.HashToG2(transcript[:])
	rDelta := eng.ScalarMulG2(r, delta)

	p.DeltaG1 = eng.ScalarMulG1(p.DeltaG1, delta)
	p.DeltaG2 = eng.ScalarMulG2(p.DeltaG2, delta)

	scope, _ := pool.Run(context.Background())
	scope.Go(func() error {
		out, err := scalarmul.ScalarsG1(eng, p.HQuery, []*big.Int{deltaInv}, mode)
		if err != nil {
			return fmt.Errorf("h_query: %w", err)
		}
		p.HQuery = out
		return nil
	})
	scope.Go(func() error {
		out, err := scalarmul.ScalarsG1(eng, p.LQuery, []*big.Int{deltaInv}, mode)
		if err != nil {
			return fmt.Errorf("l_query: %w", err)
		}
		p.LQuery = out
		return nil
	})
	if err := scope.Wait(); err != nil {
		return nil, fmt.Errorf("phase2: contribute: %w", err)
	}

	p.Contributors = append(p.Contributors, PublicKey2{
		S:            s,
		SDelta:       sDelta,
		R:            r,
		RDelta:       rDelta,
		Transcript:   transcript,
		DeltaAfterG1: p.DeltaG1,
	})
	return p, nil
}

// computeTranscript implements §4.13 step 2's
// transcript = BLAKE2b(cs_hash || existing_contributors || s || s_delta).
func computeTranscript(eng curve.Engine, csHash digest.Digest64, prior []PublicKey2, s, sDelta curve.PointG1) digest.Digest64 {
	hw := digest.NewHashWriter(nil)
	hw.Write(csHash[:])
	for _, pk := range prior {
		hw.Write(pk.Transcript[:])
		hw.Write(eng.EncodeG1(pk.S, true))
		hw.Write(eng.EncodeG1(pk.SDelta, true))
	}
	hw.Write(eng.EncodeG1(s, true))
	hw.Write(eng.EncodeG1(sDelta, true))
	return hw.Sum512()
}
