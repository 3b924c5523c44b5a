// Copyright 2025 Certen Protocol

// Package codec implements C1: reading and writing a single curve
// point in compressed or uncompressed form, and parallel batch
// read/write over contiguous byte slices so the same code runs
// against memory-mapped files.
package codec

import (
	"context"
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

// chunkGrain is the recommended element grain for parallel batch
// decode/encode (spec §5 "fixed grain (recommend 1024 elements)").
const chunkGrain = 1024

// WriteG1 encodes p into buf[offset:offset+size] using the engine's
// canonical encoding, returning the number of bytes written.
func WriteG1(eng curve.Engine, buf []byte, offset int, p curve.PointG1, compressed bool) (int, error) {
	size := eng.G1Size(compressed)
	if offset+size > len(buf) {
		return 0, fmt.Errorf("codec: write g1 at %d: %w", offset, errs.New(errs.KindInvalidLength, fmt.Sprintf("buffer too short: need %d, have %d", offset+size, len(buf))))
	}
	copy(buf[offset:offset+size], eng.EncodeG1(p, compressed))
	return size, nil
}

// WriteG2 is WriteG1's G2 analogue.
func WriteG2(eng curve.Engine, buf []byte, offset int, p curve.PointG2, compressed bool) (int, error) {
	size := eng.G2Size(compressed)
	if offset+size > len(buf) {
		return 0, fmt.Errorf("codec: write g2 at %d: %w", offset, errs.New(errs.KindInvalidLength, fmt.Sprintf("buffer too short: need %d, have %d", offset+size, len(buf))))
	}
	copy(buf[offset:offset+size], eng.EncodeG2(p, compressed))
	return size, nil
}

// ReadG1 decodes one G1 point at buf[offset:], applying check against
// check, and returns the point plus the number of bytes consumed.
func ReadG1(eng curve.Engine, buf []byte, offset int, compressed bool, check curve.CheckLevel) (curve.PointG1, int, error) {
	size := eng.G1Size(compressed)
	if offset+size > len(buf) {
		return nil, 0, fmt.Errorf("codec: read g1 at %d: %w", offset, errs.New(errs.KindInvalidLength, fmt.Sprintf("buffer too short: need %d, have %d", offset+size, len(buf))))
	}
	p, err := eng.DecodeG1(buf[offset:offset+size], compressed, check)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: read g1 at %d: %w", offset, err)
	}
	return p, size, nil
}

// ReadG2 is ReadG1's G2 analogue.
func ReadG2(eng curve.Engine, buf []byte, offset int, compressed bool, check curve.CheckLevel) (curve.PointG2, int, error) {
	size := eng.G2Size(compressed)
	if offset+size > len(buf) {
		return nil, 0, fmt.Errorf("codec: read g2 at %d: %w", offset, errs.New(errs.KindInvalidLength, fmt.Sprintf("buffer too short: need %d, have %d", offset+size, len(buf))))
	}
	p, err := eng.DecodeG2(buf[offset:offset+size], compressed, check)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: read g2 at %d: %w", offset, err)
	}
	return p, size, nil
}

// ReadBatchG1 decodes n consecutive G1 points starting at offset,
// split across workpool jobs of chunkGrain elements each. Either every
// element decodes or the call fails as a whole — no partial vector is
// ever returned, per §4.1.
func ReadBatchG1(pool *workpool.Pool, eng curve.Engine, buf []byte, offset, n int, compressed bool, check curve.CheckLevel) ([]curve.PointG1, error) {
	size := eng.G1Size(compressed)
	out := make([]curve.PointG1, n)
	scope, _ := pool.Run(context.Background())
	for start := 0; start < n; start += chunkGrain {
		start := start
		end := start + chunkGrain
		if end > n {
			end = n
		}
		scope.Go(func() error {
			for i := start; i < end; i++ {
				p, _, err := ReadG1(eng, buf, offset+i*size, compressed, check)
				if err != nil {
					return fmt.Errorf("codec: read batch g1[%d]: %w", i, err)
				}
				out[i] = p
			}
			return nil
		})
	}
	if err := scope.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadBatchG2 is ReadBatchG1's G2 analogue.
func ReadBatchG2(pool *workpool.Pool, eng curve.Engine, buf []byte, offset, n int, compressed bool, check curve.CheckLevel) ([]curve.PointG2, error) {
	size := eng.G2Size(compressed)
	out := make([]curve.PointG2, n)
	scope, _ := pool.Run(context.Background())
	for start := 0; start < n; start += chunkGrain {
		start := start
		end := start + chunkGrain
		if end > n {
			end = n
		}
		scope.Go(func() error {
			for i := start; i < end; i++ {
				p, _, err := ReadG2(eng, buf, offset+i*size, compressed, check)
				if err != nil {
					return fmt.Errorf("codec: read batch g2[%d]: %w", i, err)
				}
				out[i] = p
			}
			return nil
		})
	}
	if err := scope.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteBatchG1 is ReadBatchG1's write-side analogue.
func WriteBatchG1(pool *workpool.Pool, eng curve.Engine, buf []byte, offset int, points []curve.PointG1, compressed bool) error {
	size := eng.G1Size(compressed)
	n := len(points)
	scope, _ := pool.Run(context.Background())
	for start := 0; start < n; start += chunkGrain {
		start := start
		end := start + chunkGrain
		if end > n {
			end = n
		}
		scope.Go(func() error {
			for i := start; i < end; i++ {
				if _, err := WriteG1(eng, buf, offset+i*size, points[i], compressed); err != nil {
					return fmt.Errorf("codec: write batch g1[%d]: %w", i, err)
				}
			}
			return nil
		})
	}
	return scope.Wait()
}

// WriteBatchG2 is WriteBatchG1's G2 analogue.
func WriteBatchG2(pool *workpool.Pool, eng curve.Engine, buf []byte, offset int, points []curve.PointG2, compressed bool) error {
	size := eng.G2Size(compressed)
	n := len(points)
	scope, _ := pool.Run(context.Background())
	for start := 0; start < n; start += chunkGrain {
		start := start
		end := start + chunkGrain
		if end > n {
			end = n
		}
		scope.Go(func() error {
			for i := start; i < end; i++ {
				if _, err := WriteG2(eng, buf, offset+i*size, points[i], compressed); err != nil {
					return fmt.Errorf("codec: write batch g2[%d]: %w", i, err)
				}
			}
			return nil
		})
	}
	return scope.Wait()
}

// IsZeroG1 reports whether p is the G1 group identity.
func IsZeroG1(eng curve.Engine, p curve.PointG1) bool { return eng.IsIdentityG1(p) }

// IsZeroG2 reports whether p is the G2 group identity.
func IsZeroG2(eng curve.Engine, p curve.PointG2) bool { return eng.IsIdentityG2(p) }
