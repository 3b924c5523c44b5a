// Copyright 2025 Certen Protocol

package params

import (
	"testing"

	"github.com/certen/trusted-setup/pkg/curve"
)

func TestGroth16VectorLengths(t *testing.T) {
	p := Params{Curve: curve.BLS12_377, System: Groth16, K: 4}
	if got, want := p.Powers(), 16; got != want {
		t.Fatalf("Powers() = %d, want %d", got, want)
	}
	if got, want := p.PowersG1(), 31; got != want {
		t.Fatalf("PowersG1() = %d, want %d", got, want)
	}
	if got, want := p.LenTauG2(), 16; got != want {
		t.Fatalf("LenTauG2() = %d, want %d", got, want)
	}
	if got, want := p.LenBetaG1(), 16; got != want {
		t.Fatalf("LenBetaG1() = %d, want %d", got, want)
	}
	if !p.HasBetaG2() {
		t.Fatalf("Groth16 must have betaG2")
	}
}

func TestMarlinVectorLengths(t *testing.T) {
	p := Params{Curve: curve.BLS12_377, System: Marlin, K: 4}
	if got, want := p.PowersG1(), 16; got != want {
		t.Fatalf("PowersG1() = %d, want %d", got, want)
	}
	if got, want := p.LenTauG2(), 6; got != want {
		t.Fatalf("LenTauG2() = %d, want %d", got, want)
	}
	if got, want := p.LenAlphaG1(), 15; got != want {
		t.Fatalf("LenAlphaG1() = %d, want %d", got, want)
	}
	if got, want := p.LenBetaG1(), 0; got != want {
		t.Fatalf("LenBetaG1() = %d, want %d", got, want)
	}
	if p.HasBetaG2() {
		t.Fatalf("Marlin must not have a written betaG2")
	}
}

func TestOffsetsAreMonotonicAndCoverBuffer(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	p := Params{Curve: curve.BLS12_377, System: Groth16, K: 4}
	prev := -1
	for _, tag := range vectorOrder {
		off := p.Offset(eng, tag, true)
		if off <= prev {
			t.Fatalf("offsets must be strictly increasing, got %d after %d for %s", off, prev, tag)
		}
		prev = off
	}
	if got := p.Offset(eng, BetaG2, true) + p.Len(BetaG2)*eng.G2Size(true); got != p.BufferSize(eng, true) {
		t.Fatalf("last vector's end = %d, want BufferSize() = %d", got, p.BufferSize(eng, true))
	}
}

func TestIterChunkCoversFullRangeWithoutOverlap(t *testing.T) {
	var seen []int
	err := IterChunk(23, 10, func(start, end int) error {
		for i := start; i < end; i++ {
			seen = append(seen, i)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("IterChunk() error = %v", err)
	}
	if len(seen) != 23 {
		t.Fatalf("len(seen) = %d, want 23", len(seen))
	}
	for i, v := range seen {
		if v != i {
			t.Fatalf("seen[%d] = %d, want %d (gap or overlap)", i, v, i)
		}
	}
}

func TestChunkRangeClipsLastChunk(t *testing.T) {
	p := Params{System: Groth16, K: 4, Mode: Chunk(2, 15)}
	start, end := p.ChunkRange(TauG1) // PowersG1() = 31, chunk size 15
	if start != 30 || end != 31 {
		t.Fatalf("ChunkRange(TauG1) = (%d,%d), want (30,31)", start, end)
	}
}

func TestFullModeCoversEntireVector(t *testing.T) {
	p := Params{System: Groth16, K: 4, Mode: Full()}
	start, end := p.ChunkRange(TauG1)
	if start != 0 || end != p.PowersG1() {
		t.Fatalf("ChunkRange(TauG1) = (%d,%d), want (0,%d)", start, end, p.PowersG1())
	}
}
