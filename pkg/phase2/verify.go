// Copyright 2025 Certen Protocol

package phase2

import (
	"crypto/rand"
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/pairing"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Verify implements C14: checks that after is a valid single-step
// transition from before — every invariant parameter byte-identical,
// the contributor list extended by exactly one PK2 whose delta and
// transcript are self-consistent, and the H/L query vectors correctly
// divided by that contributor's delta.
func Verify(eng curve.Engine, before, after *Params) error {
	if err := checkInvariantFieldsEqual(eng, before, after); err != nil {
		return err
	}
	if before.CsHash != after.CsHash {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "cs_hash changed"))
	}
	if len(after.Contributors) <= len(before.Contributors) {
		return fmt.Errorf("phase2: verify: %w", errs.NoContributions)
	}
	if len(after.Contributors) != len(before.Contributors)+1 {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("expected %d contributors, got %d", len(before.Contributors)+1, len(after.Contributors))))
	}
	for i := range before.Contributors {
		if !sameContributor(eng, before.Contributors[i], after.Contributors[i]) {
			return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("contributor %d differs from before", i)))
		}
	}
	pk := after.Contributors[len(after.Contributors)-1]

	if !eng.EqualG1(pk.DeltaAfterG1, after.DeltaG1) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "pk.delta_after_g1 != after.delta_g1"))
	}
	ok, err := pairing.SameRatio(eng, eng.G1Generator(), pk.DeltaAfterG1, eng.G2Generator(), after.DeltaG2)
	if err != nil {
		return fmt.Errorf("phase2: verify: delta ratio: %w", err)
	}
	if !ok {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "delta_g1/delta_g2 ratio mismatch"))
	}

	wantTranscript := computeTranscript(eng, before.CsHash, before.Contributors, pk.S, pk.SDelta)
	if wantTranscript != pk.Transcript {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "transcript hash chain broken"))
	}
	r := eng.HashToG2(pk.Transcript[:])
	ok, err = pairing.SameRatio(eng, pk.S, pk.SDelta, r, pk.RDelta)
	if err != nil {
		return fmt.Errorf("phase2: verify: pok ratio: %w", err)
	}
	if !ok {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "contributor proof of knowledge failed"))
	}

	if err := checkDeltaInverseRatio(eng, before.HQuery, after.HQuery, before.DeltaG2, after.DeltaG2, "h_query"); err != nil {
		return err
	}
	if err := checkDeltaInverseRatio(eng, before.LQuery, after.LQuery, before.DeltaG2, after.DeltaG2, "l_query"); err != nil {
		return err
	}
	return nil
}

func checkInvariantFieldsEqual(eng curve.Engine, before, after *Params) error {
	if !eng.EqualG1(before.VK.AlphaG1, after.VK.AlphaG1) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "vk.alpha_g1 changed"))
	}
	if !eng.EqualG1(before.VK.BetaG1, after.VK.BetaG1) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "vk.beta_g1 changed"))
	}
	if !eng.EqualG2(before.VK.BetaG2, after.VK.BetaG2) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "vk.beta_g2 changed"))
	}
	if !eng.EqualG2(before.VK.GammaG2, after.VK.GammaG2) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "vk.gamma_g2 changed"))
	}
	if len(before.VK.GammaABCG1) != len(after.VK.GammaABCG1) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "vk.gamma_abc_g1 length changed"))
	}
	for i := range before.VK.GammaABCG1 {
		if !eng.EqualG1(before.VK.GammaABCG1[i], after.VK.GammaABCG1[i]) {
			return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("vk.gamma_abc_g1[%d] changed", i)))
		}
	}
	if err := equalVectorG1(eng, before.AQuery, after.AQuery, "a_query"); err != nil {
		return err
	}
	if err := equalVectorG1(eng, before.BG1Query, after.BG1Query, "b_g1_query"); err != nil {
		return err
	}
	if len(before.BG2Query) != len(after.BG2Query) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, "b_g2_query length changed"))
	}
	for i := range before.BG2Query {
		if !eng.EqualG2(before.BG2Query[i], after.BG2Query[i]) {
			return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("b_g2_query[%d] changed", i)))
		}
	}
	return nil
}

func equalVectorG1(eng curve.Engine, a, b []curve.PointG1, name string) error {
	if len(a) != len(b) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, name+" length changed"))
	}
	for i := range a {
		if !eng.EqualG1(a[i], b[i]) {
			return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, fmt.Sprintf("%s[%d] changed", name, i)))
		}
	}
	return nil
}

func sameContributor(eng curve.Engine, a, b PublicKey2) bool {
	return eng.EqualG1(a.S, b.S) && eng.EqualG1(a.SDelta, b.SDelta) &&
		eng.EqualG2(a.R, b.R) && eng.EqualG2(a.RDelta, b.RDelta) &&
		a.Transcript == b.Transcript && eng.EqualG1(a.DeltaAfterG1, b.DeltaAfterG1)
}

// checkDeltaInverseRatio implements §4.14's H/L-query check:
// same_ratio(merge_pairs(before, after), (after.delta_g2, before.delta_g2)),
// the ratio being exactly delta^-1.
func checkDeltaInverseRatio(eng curve.Engine, before, after []curve.PointG1, beforeDeltaG2, afterDeltaG2 curve.PointG2, name string) error {
	if len(before) != len(after) {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, name+" length changed"))
	}
	if len(before) == 0 {
		return nil
	}
	p1, p2, err := pairing.MergePairs(eng, rand.Reader, before, after)
	if err != nil {
		return fmt.Errorf("phase2: verify: %s merge_pairs: %w", name, err)
	}
	ok, err := pairing.SameRatio(eng, p1, p2, afterDeltaG2, beforeDeltaG2)
	if err != nil {
		return fmt.Errorf("phase2: verify: %s same_ratio: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("phase2: verify: %w", errs.New(errs.KindInvariantBroken, name+" delta ratio mismatch"))
	}
	return nil
}
