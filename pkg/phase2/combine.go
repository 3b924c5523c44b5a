// Copyright 2025 Certen Protocol

package phase2

import (
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Combine implements C15: merges a sequence of per-chunk Params (each
// holding one contiguous slice of the full HQuery/LQuery vectors,
// produced by a chunked contribution run over Chunked's side buffers)
// back into one full Params. Every chunk must agree on everything
// except its own HQuery/LQuery slice — same vk, delta, cs_hash, and
// contributor list — since those fields are shared state the chunked
// run copies into every chunk rather than splitting.
func Combine(eng curve.Engine, chunks []*Params) (*Params, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("phase2: combine: %w", errs.New(errs.KindInvalidLength, "no chunks given"))
	}
	first := chunks[0]
	for i, c := range chunks[1:] {
		if err := checkSharedFieldsEqual(eng, first, c); err != nil {
			return nil, fmt.Errorf("phase2: combine: chunk %d: %w", i+1, err)
		}
	}

	out := &Params{
		VK:           first.VK,
		DeltaG1:      first.DeltaG1,
		DeltaG2:      first.DeltaG2,
		AQuery:       first.AQuery,
		BG1Query:     first.BG1Query,
		BG2Query:     first.BG2Query,
		CsHash:       first.CsHash,
		Contributors: first.Contributors,
	}
	for _, c := range chunks {
		out.HQuery = append(out.HQuery, c.HQuery...)
		out.LQuery = append(out.LQuery, c.LQuery...)
	}
	return out, nil
}

func checkSharedFieldsEqual(eng curve.Engine, a, b *Params) error {
	if !eng.EqualG1(a.VK.AlphaG1, b.VK.AlphaG1) || !eng.EqualG1(a.VK.BetaG1, b.VK.BetaG1) ||
		!eng.EqualG2(a.VK.BetaG2, b.VK.BetaG2) || !eng.EqualG2(a.VK.GammaG2, b.VK.GammaG2) {
		return errs.New(errs.KindInconsistentChunks, "vk differs across chunks")
	}
	if len(a.VK.GammaABCG1) != len(b.VK.GammaABCG1) {
		return errs.New(errs.KindInconsistentChunks, "vk.gamma_abc_g1 length differs across chunks")
	}
	for i := range a.VK.GammaABCG1 {
		if !eng.EqualG1(a.VK.GammaABCG1[i], b.VK.GammaABCG1[i]) {
			return errs.New(errs.KindInconsistentChunks, "vk.gamma_abc_g1 differs across chunks")
		}
	}
	if !eng.EqualG1(a.DeltaG1, b.DeltaG1) || !eng.EqualG2(a.DeltaG2, b.DeltaG2) {
		return errs.New(errs.KindInconsistentChunks, "delta differs across chunks")
	}
	if a.CsHash != b.CsHash {
		return errs.New(errs.KindInconsistentChunks, "cs_hash differs across chunks")
	}
	if len(a.AQuery) != len(b.AQuery) || len(a.BG1Query) != len(b.BG1Query) || len(a.BG2Query) != len(b.BG2Query) {
		return errs.New(errs.KindInconsistentChunks, "a_query/b_query length differs across chunks")
	}
	for i := range a.AQuery {
		if !eng.EqualG1(a.AQuery[i], b.AQuery[i]) {
			return errs.New(errs.KindInconsistentChunks, "a_query differs across chunks")
		}
	}
	for i := range a.BG1Query {
		if !eng.EqualG1(a.BG1Query[i], b.BG1Query[i]) {
			return errs.New(errs.KindInconsistentChunks, "b_g1_query differs across chunks")
		}
	}
	for i := range a.BG2Query {
		if !eng.EqualG2(a.BG2Query[i], b.BG2Query[i]) {
			return errs.New(errs.KindInconsistentChunks, "b_g2_query differs across chunks")
		}
	}
	if len(a.Contributors) != len(b.Contributors) {
		return errs.New(errs.KindInconsistentChunks, "contributor list differs across chunks")
	}
	for i := range a.Contributors {
		if !sameContributor(eng, a.Contributors[i], b.Contributors[i]) {
			return errs.New(errs.KindInconsistentChunks, "contributor list differs across chunks")
		}
	}
	return nil
}
