// Copyright 2025 Certen Protocol

// Package phase1 implements the Phase-1 powers-of-tau accumulator
// lifecycle: initialization (C6), contribution (C7), verification
// (C8), aggregate verification (C9), and combine/split (C10).
package phase1

import (
	"context"
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Initialize implements C6: produces the identity accumulator for the
// active (full or chunked) range of p — tauG1[i]=G1, tauG2[i]=G2,
// alphaG1[i]=G1, betaG1[i]=G1, betaG2=G2 — serialized in the fixed
// vector order.
func Initialize(eng curve.Engine, pool *workpool.Pool, p params.Params, compressed bool) ([]byte, error) {
	buf := make([]byte, p.ActiveBufferSize(eng, compressed))

	g1 := eng.G1Generator()
	g2 := eng.G2Generator()

	jobs := []struct {
		tag params.VectorTag
		fn  func() error
	}{
		{params.TauG1, func() error { return fillG1(pool, eng, buf, p, params.TauG1, g1, compressed) }},
		{params.TauG2, func() error { return fillG2(pool, eng, buf, p, params.TauG2, g2, compressed) }},
		{params.AlphaG1, func() error { return fillG1(pool, eng, buf, p, params.AlphaG1, g1, compressed) }},
		{params.BetaG1, func() error { return fillG1(pool, eng, buf, p, params.BetaG1, g1, compressed) }},
		{params.BetaG2, func() error { return fillG2(pool, eng, buf, p, params.BetaG2, g2, compressed) }},
	}

	scope, _ := pool.Run(context.Background())
	for _, j := range jobs {
		j := j
		scope.Go(j.fn)
	}
	if err := scope.Wait(); err != nil {
		return nil, fmt.Errorf("phase1: initialize: %w", err)
	}
	return buf, nil
}

func fillG1(pool *workpool.Pool, eng curve.Engine, buf []byte, p params.Params, tag params.VectorTag, v curve.PointG1, compressed bool) error {
	n := p.ActiveLen(tag)
	if n == 0 {
		return nil
	}
	points := make([]curve.PointG1, n)
	for i := range points {
		points[i] = v
	}
	offset := p.ActiveOffset(eng, tag, compressed)
	return codec.WriteBatchG1(pool, eng, buf, offset, points, compressed)
}

func fillG2(pool *workpool.Pool, eng curve.Engine, buf []byte, p params.Params, tag params.VectorTag, v curve.PointG2, compressed bool) error {
	n := p.ActiveLen(tag)
	if n == 0 {
		return nil
	}
	points := make([]curve.PointG2, n)
	for i := range points {
		points[i] = v
	}
	offset := p.ActiveOffset(eng, tag, compressed)
	return codec.WriteBatchG2(pool, eng, buf, offset, points, compressed)
}
