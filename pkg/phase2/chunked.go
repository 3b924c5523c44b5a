// Copyright 2025 Certen Protocol

// Chunked support for Phase-2: a ceremony with a circuit too large to
// hold H/L queries in one process's memory splits Params into a query-
// only side buffer per chunk, applies the same contributor delta to
// each chunk's slice independently, and recombines with Combine.
package phase2

import (
	"fmt"
	"math/big"

	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Chunked is one chunk's query-only side buffer: the shared header
// fields every chunk must agree on (checked by Combine), plus this
// chunk's own slice of HQuery/LQuery.
type Chunked struct {
	Header       *Params // VK, DeltaG1/G2, AQuery, BG1Query, BG2Query, CsHash, Contributors
	HQuery       []curve.PointG1
	LQuery       []curve.PointG1
}

// Split divides a full Params' HQuery/LQuery vectors into numChunks
// roughly-equal contiguous Chunked side buffers, each carrying its own
// copy of the shared header.
func Split(p *Params, numChunks int) ([]*Chunked, error) {
	if numChunks <= 0 {
		return nil, fmt.Errorf("phase2: split: %w", errs.New(errs.KindInvalidLength, "numChunks must be positive"))
	}
	header := &Params{
		VK:           p.VK,
		DeltaG1:      p.DeltaG1,
		DeltaG2:      p.DeltaG2,
		AQuery:       p.AQuery,
		BG1Query:     p.BG1Query,
		BG2Query:     p.BG2Query,
		CsHash:       p.CsHash,
		Contributors: p.Contributors,
	}

	hChunks := splitSliceG1(p.HQuery, numChunks)
	lChunks := splitSliceG1(p.LQuery, numChunks)
	out := make([]*Chunked, numChunks)
	for i := 0; i < numChunks; i++ {
		out[i] = &Chunked{Header: header, HQuery: hChunks[i], LQuery: lChunks[i]}
	}
	return out, nil
}

func splitSliceG1(v []curve.PointG1, numChunks int) [][]curve.PointG1 {
	out := make([][]curve.PointG1, numChunks)
	n := len(v)
	base := n / numChunks
	rem := n % numChunks
	start := 0
	for i := 0; i < numChunks; i++ {
		size := base
		if i < rem {
			size++
		}
		out[i] = v[start : start+size]
		start += size
	}
	return out
}

// ContributeChunk applies a single contributor's already-derived
// deltaInv to this chunk's HQuery/LQuery slice in place. The caller is
// responsible for deriving delta/deltaInv once (via the same proof-of-
// knowledge flow Contribute uses) and driving it into every chunk plus
// the shared header's DeltaG1/DeltaG2 and Contributors fields
// identically, so Combine's cross-chunk agreement check passes.
func ContributeChunk(eng curve.Engine, c *Chunked, deltaInv *big.Int, mode scalarmul.Mode) error {
	h, err := scalarmul.ScalarsG1(eng, c.HQuery, []*big.Int{deltaInv}, mode)
	if err != nil {
		return fmt.Errorf("phase2: contribute chunk: h_query: %w", err)
	}
	c.HQuery = h
	l, err := scalarmul.ScalarsG1(eng, c.LQuery, []*big.Int{deltaInv}, mode)
	if err != nil {
		return fmt.Errorf("phase2: contribute chunk: l_query: %w", err)
	}
	c.LQuery = l
	return nil
}

// ToParams assembles one chunk's full Params view (header fields plus
// this chunk's own H/L slice) for feeding into Combine.
func (c *Chunked) ToParams() *Params {
	p := *c.Header
	p.HQuery = c.HQuery
	p.LQuery = c.LQuery
	return &p
}
