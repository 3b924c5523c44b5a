// Copyright 2025 Certen Protocol

package phase1

import (
	"crypto/rand"
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/pairing"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/publickey"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

// VerifyOptions bundles C8's buffer-compression and check-level flags.
type VerifyOptions struct {
	InCompressed, OutCompressed bool
	CheckIn, CheckOut           curve.CheckLevel
	RatioCheck                  bool
}

// Verify implements C8: checks that output is a correct transition
// from input under pk and digest, per §4.8. firstChunk selects whether
// the proof-of-knowledge and first-step ratio checks run (they are
// scoped to the first chunk, or always for Full mode).
//
// newChallenge, when non-nil, receives the "transform" half of
// verify_and_transform_pok (§4.8 step 5c, §6): a decompressed copy of
// every active vector in output, laid out at the ActiveOffset each
// vector occupies in an uncompressed buffer. Its
// length must be p.ActiveBufferSize(eng, false); callers that only
// need the verification half may pass nil to skip the copy.
func Verify(eng curve.Engine, pool *workpool.Pool, p params.Params, input, output []byte, pk *publickey.PublicKey, digest64 publickey.Digest64, opt VerifyOptions, firstChunk bool, newChallenge []byte) error {
	if newChallenge != nil {
		if err := transformNewChallenge(eng, pool, p, output, opt, newChallenge); err != nil {
			return err
		}
	}

	if firstChunk {
		ok, err := publickey.VerifyPoK(eng, pk, digest64)
		if err != nil {
			return fmt.Errorf("phase1: verify: %w", err)
		}
		if !ok {
			return fmt.Errorf("phase1: verify: %w", errs.InvalidPublicKey)
		}

		tauG1_0, err := readG1Indexed(eng, output, p, params.TauG1, 0, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: read new tau_g1[0]: %w", err)
		}
		if !eng.EqualG1(tauG1_0, eng.G1Generator()) {
			return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidGenerator, "tau_g1[0] != G1"))
		}
		tauG2_0, err := readG2Indexed(eng, output, p, params.TauG2, 0, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: read new tau_g2[0]: %w", err)
		}
		if !eng.EqualG2(tauG2_0, eng.G2Generator()) {
			return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidGenerator, "tau_g2[0] != G2"))
		}

		if err := verifyFirstStep(eng, p, input, output, pk, digest64, opt); err != nil {
			return err
		}
	}

	if opt.RatioCheck {
		if err := verifyChunkRatios(eng, pool, p, output, opt); err != nil {
			return err
		}
	}
	return nil
}

// verifyFirstStep implements §4.8 step 4: the scalar applied to the
// tau_g1 vector at index 1 must be exactly tau (symmetrically for
// tau_g2), and the alpha_g1/beta_g1/beta_g2 one-shot ratio checks.
func verifyFirstStep(eng curve.Engine, p params.Params, input, output []byte, pk *publickey.PublicKey, digest64 publickey.Digest64, opt VerifyOptions) error {
	g2TauS := publickey.ComputeG2S(eng, digest64, pk.TauG1.S, pk.TauG1.SX, publickey.PersonalizationTau)
	g1TauS, g1TauSTau := pk.TauG1.S, pk.TauG1.SX

	if p.ActiveLen(params.TauG1) > 1 {
		priorT1, err := readG1Indexed(eng, input, p, params.TauG1, 1, opt.InCompressed, opt.CheckIn)
		if err != nil {
			return fmt.Errorf("phase1: verify: read prior tau_g1[1]: %w", err)
		}
		newT1, err := readG1Indexed(eng, output, p, params.TauG1, 1, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: read new tau_g1[1]: %w", err)
		}
		ok, err := pairing.SameRatio(eng, priorT1, newT1, g2TauS, pk.TauG2)
		if err != nil {
			return fmt.Errorf("phase1: verify: tau_g1 first step: %w", err)
		}
		if !ok {
			return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidRatio, "tau_g1 first step"))
		}
	}

	if p.ActiveLen(params.TauG2) > 1 {
		priorT2, err := readG2Indexed(eng, input, p, params.TauG2, 1, opt.InCompressed, opt.CheckIn)
		if err != nil {
			return fmt.Errorf("phase1: verify: read prior tau_g2[1]: %w", err)
		}
		newT2, err := readG2Indexed(eng, output, p, params.TauG2, 1, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: read new tau_g2[1]: %w", err)
		}
		ok, err := pairing.SameRatio(eng, g1TauS, g1TauSTau, priorT2, newT2)
		if err != nil {
			return fmt.Errorf("phase1: verify: tau_g2 first step: %w", err)
		}
		if !ok {
			return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidRatio, "tau_g2 first step"))
		}
	}

	if p.ActiveLen(params.AlphaG1) > 0 {
		g2AlphaS := publickey.ComputeG2S(eng, digest64, pk.AlphaG1.S, pk.AlphaG1.SX, publickey.PersonalizationAlpha)
		priorA0, err := readG1Indexed(eng, input, p, params.AlphaG1, 0, opt.InCompressed, opt.CheckIn)
		if err != nil {
			return fmt.Errorf("phase1: verify: read prior alpha_g1[0]: %w", err)
		}
		newA0, err := readG1Indexed(eng, output, p, params.AlphaG1, 0, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: read new alpha_g1[0]: %w", err)
		}
		ok, err := pairing.SameRatio(eng, priorA0, newA0, g2AlphaS, pk.AlphaG2)
		if err != nil {
			return fmt.Errorf("phase1: verify: alpha_g1 first step: %w", err)
		}
		if !ok {
			return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidRatio, "alpha_g1 first step"))
		}
	}

	if p.ActiveLen(params.BetaG1) > 0 {
		g2BetaS := publickey.ComputeG2S(eng, digest64, pk.BetaG1.S, pk.BetaG1.SX, publickey.PersonalizationBeta)
		priorB0, err := readG1Indexed(eng, input, p, params.BetaG1, 0, opt.InCompressed, opt.CheckIn)
		if err != nil {
			return fmt.Errorf("phase1: verify: read prior beta_g1[0]: %w", err)
		}
		newB0, err := readG1Indexed(eng, output, p, params.BetaG1, 0, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: read new beta_g1[0]: %w", err)
		}
		ok, err := pairing.SameRatio(eng, priorB0, newB0, g2BetaS, pk.BetaG2)
		if err != nil {
			return fmt.Errorf("phase1: verify: beta_g1 first step: %w", err)
		}
		if !ok {
			return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidRatio, "beta_g1 first step"))
		}
	}

	if p.HasBetaG2() {
		priorB2, err := readG2Indexed(eng, input, p, params.BetaG2, 0, opt.InCompressed, opt.CheckIn)
		if err != nil {
			return fmt.Errorf("phase1: verify: read prior beta_g2: %w", err)
		}
		newB2, err := readG2Indexed(eng, output, p, params.BetaG2, 0, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: read new beta_g2: %w", err)
		}
		ok, err := pairing.SameRatio(eng, pk.BetaG1.S, pk.BetaG1.SX, priorB2, newB2)
		if err != nil {
			return fmt.Errorf("phase1: verify: beta_g2 first step: %w", err)
		}
		if !ok {
			return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidRatio, "beta_g2 first step"))
		}
	}

	return nil
}

// transformNewChallenge implements §4.8 step 5c: decode every active
// vector out of output (honoring opt.OutCompressed/opt.CheckOut) and
// re-encode it uncompressed into newChallenge, so the next
// contributor always starts from an uncompressed challenge regardless
// of how the prior response was serialized.
func transformNewChallenge(eng curve.Engine, pool *workpool.Pool, p params.Params, output []byte, opt VerifyOptions, newChallenge []byte) error {
	want := p.ActiveBufferSize(eng, false)
	if len(newChallenge) != want {
		return fmt.Errorf("phase1: verify: new_challenge buffer: %w", errs.New(errs.KindInvalidLength, fmt.Sprintf("want %d bytes, got %d", want, len(newChallenge))))
	}
	for _, tag := range []params.VectorTag{params.TauG1, params.TauG2, params.AlphaG1, params.BetaG1, params.BetaG2} {
		n := p.ActiveLen(tag)
		if n == 0 {
			continue
		}
		srcOff := p.ActiveOffset(eng, tag, opt.OutCompressed)
		dstOff := p.ActiveOffset(eng, tag, false)
		if tag == params.TauG2 || tag == params.BetaG2 {
			v, err := codec.ReadBatchG2(pool, eng, output, srcOff, n, opt.OutCompressed, opt.CheckOut)
			if err != nil {
				return fmt.Errorf("phase1: verify: new_challenge decode %s: %w", tag, err)
			}
			if err := codec.WriteBatchG2(pool, eng, newChallenge, dstOff, v, false); err != nil {
				return fmt.Errorf("phase1: verify: new_challenge encode %s: %w", tag, err)
			}
			continue
		}
		v, err := codec.ReadBatchG1(pool, eng, output, srcOff, n, opt.OutCompressed, opt.CheckOut)
		if err != nil {
			return fmt.Errorf("phase1: verify: new_challenge decode %s: %w", tag, err)
		}
		if err := codec.WriteBatchG1(pool, eng, newChallenge, dstOff, v, false); err != nil {
			return fmt.Errorf("phase1: verify: new_challenge encode %s: %w", tag, err)
		}
	}
	return nil
}

// verifyChunkRatios runs the per-chunk power_pairs consistency checks
// from §4.8 step 5b: tau_g1 against (G2, new.tau_g2[1]), tau_g2
// against (G1, new.tau_g1[1]) with group roles swapped, and the same
// for alpha_g1 and beta_g1.
func verifyChunkRatios(eng curve.Engine, pool *workpool.Pool, p params.Params, output []byte, opt VerifyOptions) error {
	tauG2_1, err := readG2Indexed(eng, output, p, params.TauG2, 1, opt.OutCompressed, opt.CheckOut)
	if err != nil {
		return fmt.Errorf("phase1: verify: read tau_g2[1]: %w", err)
	}
	tauG1_1, err := readG1Indexed(eng, output, p, params.TauG1, 1, opt.OutCompressed, opt.CheckOut)
	if err != nil {
		return fmt.Errorf("phase1: verify: read tau_g1[1]: %w", err)
	}

	if err := checkPowerPairsG1(eng, pool, p, output, opt, params.TauG1, eng.G2Generator(), tauG2_1); err != nil {
		return err
	}
	if err := checkPowerPairsG2(eng, pool, p, output, opt, params.TauG2, eng.G1Generator(), tauG1_1); err != nil {
		return err
	}
	if p.ActiveLen(params.AlphaG1) > 1 {
		if err := checkPowerPairsG1(eng, pool, p, output, opt, params.AlphaG1, eng.G2Generator(), tauG2_1); err != nil {
			return err
		}
	}
	if p.ActiveLen(params.BetaG1) > 1 {
		if err := checkPowerPairsG1(eng, pool, p, output, opt, params.BetaG1, eng.G2Generator(), tauG2_1); err != nil {
			return err
		}
	}
	return nil
}

func checkPowerPairsG1(eng curve.Engine, pool *workpool.Pool, p params.Params, output []byte, opt VerifyOptions, tag params.VectorTag, b1, b2 curve.PointG2) error {
	n := p.ActiveLen(tag)
	if n <= 1 {
		return fmt.Errorf("phase1: verify: %w", errs.BatchTooSmall)
	}
	v, err := codec.ReadBatchG1(pool, eng, output, p.ActiveOffset(eng, tag, opt.OutCompressed), n, opt.OutCompressed, opt.CheckOut)
	if err != nil {
		return fmt.Errorf("phase1: verify: decode %s chunk: %w", tag, err)
	}
	p1, p2, err := pairing.PowerPairs(eng, rand.Reader, v)
	if err != nil {
		return fmt.Errorf("phase1: verify: power_pairs %s: %w", tag, err)
	}
	ok, err := pairing.SameRatio(eng, p1, p2, b1, b2)
	if err != nil {
		return fmt.Errorf("phase1: verify: same_ratio %s: %w", tag, err)
	}
	if !ok {
		return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidRatio, tag.String()+" power consistency"))
	}
	return nil
}

func checkPowerPairsG2(eng curve.Engine, pool *workpool.Pool, p params.Params, output []byte, opt VerifyOptions, tag params.VectorTag, a1, a2 curve.PointG1) error {
	n := p.ActiveLen(tag)
	if n <= 1 {
		return fmt.Errorf("phase1: verify: %w", errs.BatchTooSmall)
	}
	v, err := codec.ReadBatchG2(pool, eng, output, p.ActiveOffset(eng, tag, opt.OutCompressed), n, opt.OutCompressed, opt.CheckOut)
	if err != nil {
		return fmt.Errorf("phase1: verify: decode %s chunk: %w", tag, err)
	}
	b1, b2, err := pairing.PowerPairsG2(eng, rand.Reader, v)
	if err != nil {
		return fmt.Errorf("phase1: verify: power_pairs_g2 %s: %w", tag, err)
	}
	ok, err := pairing.SameRatio(eng, a1, a2, b1, b2)
	if err != nil {
		return fmt.Errorf("phase1: verify: same_ratio %s: %w", tag, err)
	}
	if !ok {
		return fmt.Errorf("phase1: verify: %w", errs.New(errs.KindInvalidRatio, tag.String()+" power consistency"))
	}
	return nil
}

func readG1Indexed(eng curve.Engine, buf []byte, p params.Params, tag params.VectorTag, idx int, compressed bool, check curve.CheckLevel) (curve.PointG1, error) {
	size := eng.G1Size(compressed)
	base := p.ActiveOffset(eng, tag, compressed)
	pt, _, err := codec.ReadG1(eng, buf, base+idx*size, compressed, check)
	return pt, err
}

func readG2Indexed(eng curve.Engine, buf []byte, p params.Params, tag params.VectorTag, idx int, compressed bool, check curve.CheckLevel) (curve.PointG2, error) {
	size := eng.G2Size(compressed)
	base := p.ActiveOffset(eng, tag, compressed)
	pt, _, err := codec.ReadG2(eng, buf, base+idx*size, compressed, check)
	return pt, err
}
