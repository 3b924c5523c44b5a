// Copyright 2025 Certen Protocol

// Package params implements C4: the Phase-1 accumulator's logical
// layout (five sub-vector lengths and their offsets inside a flat
// buffer) and the chunk-iteration helper every Phase-1 operation
// drives its parallelism from.
package params

import (
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/curve"
)

// ProvingSystem selects which Phase-1 vector-length formulas apply.
type ProvingSystem int

const (
	Groth16 ProvingSystem = iota
	Marlin
)

func (s ProvingSystem) String() string {
	if s == Marlin {
		return "marlin"
	}
	return "groth16"
}

// Mode is the Full-vs-Chunked contribution mode from §3.
type Mode struct {
	Chunked    bool
	ChunkIndex int
	ChunkSize  int
}

// Full is the non-chunked contribution mode.
func Full() Mode { return Mode{} }

// Chunk returns a Chunked mode covering chunk index ci of size cs.
func Chunk(ci, cs int) Mode { return Mode{Chunked: true, ChunkIndex: ci, ChunkSize: cs} }

// Params is the immutable per-ceremony parameter set P from §3.
type Params struct {
	Curve       curve.CurveKind
	System      ProvingSystem
	K           int // total log-size
	BatchSize   int
	Mode        Mode
	Compressed  bool // compression used for the accumulator's own vectors
}

// Powers is 2^K.
func (p Params) Powers() int { return 1 << uint(p.K) }

// PowersG1 is the logical length of tauG1: 2*powers-1 for Groth16,
// powers for Marlin.
func (p Params) PowersG1() int {
	if p.System == Marlin {
		return p.Powers()
	}
	return 2*p.Powers() - 1
}

// LenTauG2 is the logical length of tauG2.
func (p Params) LenTauG2() int {
	if p.System == Marlin {
		return p.K + 2
	}
	return p.Powers()
}

// LenAlphaG1 is the logical length of alphaG1.
func (p Params) LenAlphaG1() int {
	if p.System == Marlin {
		return 3 + 3*p.K
	}
	return p.Powers()
}

// LenBetaG1 is the logical length of betaG1: 0 for Marlin (the vector
// does not exist), powers for Groth16.
func (p Params) LenBetaG1() int {
	if p.System == Marlin {
		return 0
	}
	return p.Powers()
}

// HasBetaG2 reports whether betaG2 is a written field (Groth16) or
// implicitly fixed to the G2 generator (Marlin).
func (p Params) HasBetaG2() bool { return p.System == Groth16 }

// VectorTag names one of the five accumulator sub-vectors, used by
// C10's split/combine file naming and by per-vector chunk offsets.
type VectorTag int

const (
	TauG1 VectorTag = iota
	TauG2
	AlphaG1
	BetaG1
	BetaG2
)

func (t VectorTag) String() string {
	switch t {
	case TauG1:
		return "tau_g1"
	case TauG2:
		return "tau_g2"
	case AlphaG1:
		return "alpha_g1"
	case BetaG1:
		return "beta_g1"
	case BetaG2:
		return "beta_g2"
	default:
		return "unknown"
	}
}

// Len returns the logical element count of tag.
func (p Params) Len(tag VectorTag) int {
	switch tag {
	case TauG1:
		return p.PowersG1()
	case TauG2:
		return p.LenTauG2()
	case AlphaG1:
		return p.LenAlphaG1()
	case BetaG1:
		return p.LenBetaG1()
	case BetaG2:
		if p.HasBetaG2() {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// group reports which curve group (1 or 2) tag's points live in, for
// element-size lookups.
func (t VectorTag) group() int {
	if t == TauG2 || t == BetaG2 {
		return 2
	}
	return 1
}

func elementSize(eng curve.Engine, tag VectorTag, compressed bool) int {
	if tag.group() == 2 {
		return eng.G2Size(compressed)
	}
	return eng.G1Size(compressed)
}

// vectorOrder is the fixed concatenation order of a full accumulator:
// tauG1 || tauG2 || alphaG1 || betaG1 || betaG2.
var vectorOrder = []VectorTag{TauG1, TauG2, AlphaG1, BetaG1, BetaG2}

// Offset returns the byte offset of tag's first element inside a full
// accumulator buffer.
func (p Params) Offset(eng curve.Engine, tag VectorTag, compressed bool) int {
	offset := 0
	for _, t := range vectorOrder {
		if t == tag {
			return offset
		}
		offset += p.Len(t) * elementSize(eng, t, compressed)
	}
	return offset
}

// BufferSize returns the total byte length of a full accumulator
// buffer (no public key appended).
func (p Params) BufferSize(eng curve.Engine, compressed bool) int {
	total := 0
	for _, t := range vectorOrder {
		total += p.Len(t) * elementSize(eng, t, compressed)
	}
	return total
}

// IterChunk invokes f(start, end) over successive [start,end) ranges
// of length <= p.BatchSize covering [0, length), the C4 "iter_chunk"
// helper every chunk-parallel operation (C7/C8/C11/C13/C14) uses to
// fan sub-vector work out across the pool.
func IterChunk(length, batchSize int, f func(start, end int) error) error {
	if batchSize <= 0 {
		return fmt.Errorf("params: iter_chunk: %w", errs.New(errs.KindInvalidLength, "batch size must be positive"))
	}
	for start := 0; start < length; start += batchSize {
		end := start + batchSize
		if end > length {
			end = length
		}
		if err := f(start, end); err != nil {
			return err
		}
	}
	return nil
}

// ChunkRange returns the logical [start,end) range of vector tag that
// belongs to p.Mode's chunk, clipped to the vector's own logical
// length (Chunked mode's last chunk may be shorter).
func (p Params) ChunkRange(tag VectorTag) (start, end int) {
	total := p.Len(tag)
	if !p.Mode.Chunked {
		return 0, total
	}
	start = p.Mode.ChunkIndex * p.Mode.ChunkSize
	end = start + p.Mode.ChunkSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return start, end
}

// ActiveLen is the element count of tag within the current chunk (or
// the full vector length in Full mode) — the length of the buffer C7,
// C8, C11, C13 and C14 actually see for this mode.
func (p Params) ActiveLen(tag VectorTag) int {
	start, end := p.ChunkRange(tag)
	return end - start
}

// ActiveOffset is Offset's analogue for a chunk-sized buffer: the byte
// offset of tag's first active element within a buffer laid out with
// only the active (chunk-clipped) length of each vector.
func (p Params) ActiveOffset(eng curve.Engine, tag VectorTag, compressed bool) int {
	offset := 0
	for _, t := range vectorOrder {
		if t == tag {
			return offset
		}
		offset += p.ActiveLen(t) * elementSize(eng, t, compressed)
	}
	return offset
}

// ActiveBufferSize is BufferSize's analogue for a chunk-sized buffer.
func (p Params) ActiveBufferSize(eng curve.Engine, compressed bool) int {
	total := 0
	for _, t := range vectorOrder {
		total += p.ActiveLen(t) * elementSize(eng, t, compressed)
	}
	return total
}
