// Copyright 2025 Certen Protocol

package phase1

import (
	"crypto/rand"
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/pairing"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

// AggregateOptions bundles C9's buffer-compression and check-level
// flags for a finished accumulator with no public key attached.
type AggregateOptions struct {
	Compressed bool
	Check      curve.CheckLevel
}

// VerifyAggregate implements C9: checks the internal ratio consistency
// of a finished accumulator, with no public key involved. For Groth16
// this is the power_pairs ratio of each vector against a shared
// (tau_g2[0], tau_g2[1]) pair; for Marlin it additionally checks the
// doubled-power and alpha-geometric-progression invariants of §4.9.
func VerifyAggregate(eng curve.Engine, pool *workpool.Pool, p params.Params, buf []byte, opt AggregateOptions) error {
	tauG2_0, err := readG2Indexed(eng, buf, p, params.TauG2, 0, opt.Compressed, opt.Check)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: read tau_g2[0]: %w", err)
	}
	tauG2_1, err := readG2Indexed(eng, buf, p, params.TauG2, 1, opt.Compressed, opt.Check)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: read tau_g2[1]: %w", err)
	}
	tauG1_0, err := readG1Indexed(eng, buf, p, params.TauG1, 0, opt.Compressed, opt.Check)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: read tau_g1[0]: %w", err)
	}
	tauG1_1, err := readG1Indexed(eng, buf, p, params.TauG1, 1, opt.Compressed, opt.Check)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: read tau_g1[1]: %w", err)
	}

	if err := aggregatePowerPairsG1(eng, pool, p, buf, opt, params.TauG1, tauG2_0, tauG2_1); err != nil {
		return err
	}
	if err := aggregatePowerPairsG2(eng, pool, p, buf, opt, params.TauG2, tauG1_0, tauG1_1); err != nil {
		return err
	}
	if p.ActiveLen(params.AlphaG1) > 1 {
		if err := aggregatePowerPairsG1(eng, pool, p, buf, opt, params.AlphaG1, tauG2_0, tauG2_1); err != nil {
			return err
		}
	}
	if p.ActiveLen(params.BetaG1) > 1 {
		if err := aggregatePowerPairsG1(eng, pool, p, buf, opt, params.BetaG1, tauG2_0, tauG2_1); err != nil {
			return err
		}
	}

	if p.System == params.Marlin {
		return verifyMarlinDoubledPowers(eng, p, buf, opt)
	}
	return nil
}

func aggregatePowerPairsG1(eng curve.Engine, pool *workpool.Pool, p params.Params, buf []byte, opt AggregateOptions, tag params.VectorTag, b1, b2 curve.PointG2) error {
	n := p.ActiveLen(tag)
	if n <= 1 {
		return fmt.Errorf("phase1: aggregate: %w", errs.BatchTooSmall)
	}
	v, err := codec.ReadBatchG1(pool, eng, buf, p.ActiveOffset(eng, tag, opt.Compressed), n, opt.Compressed, opt.Check)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: decode %s: %w", tag, err)
	}
	p1, p2, err := pairing.PowerPairs(eng, rand.Reader, v)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: power_pairs %s: %w", tag, err)
	}
	ok, err := pairing.SameRatio(eng, p1, p2, b1, b2)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: same_ratio %s: %w", tag, err)
	}
	if !ok {
		return fmt.Errorf("phase1: aggregate: %w", errs.New(errs.KindInvariantBroken, tag.String()+" power consistency"))
	}
	return nil
}

func aggregatePowerPairsG2(eng curve.Engine, pool *workpool.Pool, p params.Params, buf []byte, opt AggregateOptions, tag params.VectorTag, a1, a2 curve.PointG1) error {
	n := p.ActiveLen(tag)
	if n <= 1 {
		return fmt.Errorf("phase1: aggregate: %w", errs.BatchTooSmall)
	}
	v, err := codec.ReadBatchG2(pool, eng, buf, p.ActiveOffset(eng, tag, opt.Compressed), n, opt.Compressed, opt.Check)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: decode %s: %w", tag, err)
	}
	b1, b2, err := pairing.PowerPairsG2(eng, rand.Reader, v)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: power_pairs_g2 %s: %w", tag, err)
	}
	ok, err := pairing.SameRatio(eng, a1, a2, b1, b2)
	if err != nil {
		return fmt.Errorf("phase1: aggregate: same_ratio %s: %w", tag, err)
	}
	if !ok {
		return fmt.Errorf("phase1: aggregate: %w", errs.New(errs.KindInvariantBroken, tag.String()+" power consistency"))
	}
	return nil
}

// verifyMarlinDoubledPowers checks §4.9's Marlin-only invariants: for
// each i in [0,k), tau_g1 at the "doubled power" offset matches
// tau_g2[i+2], and the three alpha_g1 entries at offset 3+3i form a
// geometric progression in tau starting from the expected power of
// alpha_g1[0].
func verifyMarlinDoubledPowers(eng curve.Engine, p params.Params, buf []byte, opt AggregateOptions) error {
	powers := p.Powers()
	g1Gen := eng.G1Generator()
	g2Gen := eng.G2Generator()

	for i := 0; i < p.K; i++ {
		doubledOffset := powers - 1 - (1 << uint(i)) + 2
		if doubledOffset < 0 || doubledOffset >= p.ActiveLen(params.TauG1) {
			continue
		}
		tauG1P, err := readG1Indexed(eng, buf, p, params.TauG1, doubledOffset, opt.Compressed, opt.Check)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: read tau_g1[%d]: %w", doubledOffset, err)
		}
		tauG2I, err := readG2Indexed(eng, buf, p, params.TauG2, i+2, opt.Compressed, opt.Check)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: read tau_g2[%d]: %w", i+2, err)
		}
		ok, err := pairing.SameRatio(eng, tauG1P, g1Gen, g2Gen, tauG2I)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: marlin doubled power %d: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("phase1: aggregate: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("marlin doubled power %d", i)))
		}

		base := 3 + 3*i
		if base+2 >= p.ActiveLen(params.AlphaG1) {
			continue
		}
		a0, err := readG1Indexed(eng, buf, p, params.AlphaG1, base, opt.Compressed, opt.Check)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: read alpha_g1[%d]: %w", base, err)
		}
		a1, err := readG1Indexed(eng, buf, p, params.AlphaG1, base+1, opt.Compressed, opt.Check)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: read alpha_g1[%d]: %w", base+1, err)
		}
		a2, err := readG1Indexed(eng, buf, p, params.AlphaG1, base+2, opt.Compressed, opt.Check)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: read alpha_g1[%d]: %w", base+2, err)
		}
		ok, err = pairing.SameRatio(eng, a0, a1, g2Gen, tauG2I)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: marlin alpha progression %d (0->1): %w", i, err)
		}
		if !ok {
			return fmt.Errorf("phase1: aggregate: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("marlin alpha geometric progression %d", i)))
		}
		ok, err = pairing.SameRatio(eng, a1, a2, g2Gen, tauG2I)
		if err != nil {
			return fmt.Errorf("phase1: aggregate: marlin alpha progression %d (1->2): %w", i, err)
		}
		if !ok {
			return fmt.Errorf("phase1: aggregate: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("marlin alpha geometric progression %d", i)))
		}
	}
	return nil
}
