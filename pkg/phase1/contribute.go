// Copyright 2025 Certen Protocol

package phase1

import (
	"context"
	"fmt"
	"math/big"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/ceremony/secret"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

// Contribute implements C7: applies (tau, alpha, beta) to all five
// vectors over the active chunk of p, decoding input with checkIn and
// encoding the result with outCompressed. The five sub-vector jobs run
// as independent sibling tasks on pool, per §5's parallelism-
// granularity requirement. sk is erased before this function returns,
// on every exit path.
func Contribute(eng curve.Engine, pool *workpool.Pool, p params.Params, input []byte, inCompressed bool, checkIn curve.CheckLevel, outCompressed bool, sk *secret.Triple, mode scalarmul.Mode) ([]byte, error) {
	defer sk.Zeroize()

	modulus := eng.ScalarFieldModulus()
	out := make([]byte, p.ActiveBufferSize(eng, outCompressed))

	scope, _ := pool.Run(context.Background())

	scope.Go(func() error {
		return contributeG1Vector(eng, pool, p, input, inCompressed, checkIn, out, outCompressed,
			params.TauG1, mode, func(start, end int) []*big.Int { return scalarmul.PowerSequence(sk.Tau.Value(), start, end, modulus) })
	})
	scope.Go(func() error {
		return contributeG2Vector(eng, pool, p, input, inCompressed, checkIn, out, outCompressed,
			params.TauG2, mode, func(start, end int) []*big.Int { return scalarmul.PowerSequence(sk.Tau.Value(), start, end, modulus) })
	})
	scope.Go(func() error {
		return contributeG1Vector(eng, pool, p, input, inCompressed, checkIn, out, outCompressed,
			params.AlphaG1, mode, func(start, end int) []*big.Int {
				return scalarmul.ScaledPowerSequence(sk.Tau.Value(), sk.Alpha.Value(), start, end, modulus)
			})
	})
	if p.ActiveLen(params.BetaG1) > 0 {
		scope.Go(func() error {
			return contributeG1Vector(eng, pool, p, input, inCompressed, checkIn, out, outCompressed,
				params.BetaG1, mode, func(start, end int) []*big.Int {
					return scalarmul.ScaledPowerSequence(sk.Tau.Value(), sk.Beta.Value(), start, end, modulus)
				})
		})
	}
	if p.ActiveLen(params.BetaG2) > 0 {
		scope.Go(func() error { return contributeBetaG2(eng, p, input, inCompressed, checkIn, out, outCompressed, sk) })
	}

	if err := scope.Wait(); err != nil {
		return nil, fmt.Errorf("phase1: contribute: %w", err)
	}
	return out, nil
}

func contributeG1Vector(eng curve.Engine, pool *workpool.Pool, p params.Params, input []byte, inCompressed bool, checkIn curve.CheckLevel, out []byte, outCompressed bool, tag params.VectorTag, mode scalarmul.Mode, scalars func(start, end int) []*big.Int) error {
	n := p.ActiveLen(tag)
	if n == 0 {
		return nil
	}
	inOff := p.ActiveOffset(eng, tag, inCompressed)
	bases, err := codec.ReadBatchG1(pool, eng, input, inOff, n, inCompressed, checkIn)
	if err != nil {
		return fmt.Errorf("decode %s: %w", tag, err)
	}
	chunkStart, chunkEnd := p.ChunkRange(tag)
	s := scalars(chunkStart, chunkEnd)
	results, err := eng.BatchScalarMulG1(bases, s, mode == scalarmul.ModeDirect)
	if err != nil {
		return fmt.Errorf("scalar mul %s: %w", tag, err)
	}
	outOff := p.ActiveOffset(eng, tag, outCompressed)
	return codec.WriteBatchG1(pool, eng, out, outOff, results, outCompressed)
}

func contributeG2Vector(eng curve.Engine, pool *workpool.Pool, p params.Params, input []byte, inCompressed bool, checkIn curve.CheckLevel, out []byte, outCompressed bool, tag params.VectorTag, mode scalarmul.Mode, scalars func(start, end int) []*big.Int) error {
	n := p.ActiveLen(tag)
	if n == 0 {
		return nil
	}
	inOff := p.ActiveOffset(eng, tag, inCompressed)
	bases, err := codec.ReadBatchG2(pool, eng, input, inOff, n, inCompressed, checkIn)
	if err != nil {
		return fmt.Errorf("decode %s: %w", tag, err)
	}
	chunkStart, chunkEnd := p.ChunkRange(tag)
	s := scalars(chunkStart, chunkEnd)
	results, err := eng.BatchScalarMulG2(bases, s, mode == scalarmul.ModeDirect)
	if err != nil {
		return fmt.Errorf("scalar mul %s: %w", tag, err)
	}
	outOff := p.ActiveOffset(eng, tag, outCompressed)
	return codec.WriteBatchG2(pool, eng, out, outOff, results, outCompressed)
}

func contributeBetaG2(eng curve.Engine, p params.Params, input []byte, inCompressed bool, checkIn curve.CheckLevel, out []byte, outCompressed bool, sk *secret.Triple) error {
	inOff := p.ActiveOffset(eng, params.BetaG2, inCompressed)
	prior, _, err := readG2One(eng, input, inOff, inCompressed, checkIn)
	if err != nil {
		return fmt.Errorf("decode beta_g2: %w", err)
	}
	result := eng.ScalarMulG2(prior, sk.Beta.Value())
	outOff := p.ActiveOffset(eng, params.BetaG2, outCompressed)
	size := eng.G2Size(outCompressed)
	copy(out[outOff:outOff+size], eng.EncodeG2(result, outCompressed))
	return nil
}

func readG2One(eng curve.Engine, buf []byte, offset int, compressed bool, check curve.CheckLevel) (curve.PointG2, int, error) {
	size := eng.G2Size(compressed)
	p, err := eng.DecodeG2(buf[offset:offset+size], compressed, check)
	if err != nil {
		return nil, 0, err
	}
	return p, size, nil
}
