// Copyright 2025 Certen Protocol

package phase1

import (
	"bytes"
	"testing"

	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

func TestSplitCombineRoundTrips(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pool := workpool.New(4)
	p := smallParams()

	full, err := Initialize(eng, pool, p, false)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	files, err := Split(eng, full, p, 3, false)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("Split() produced no chunk files")
	}

	recombined, err := Combine(eng, files, p, 3, false)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if !bytes.Equal(full, recombined) {
		t.Fatalf("Combine(Split(full)) != full")
	}
}

func TestCombineRejectsMissingChunk(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pool := workpool.New(4)
	p := smallParams()

	full, err := Initialize(eng, pool, p, false)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	files, err := Split(eng, full, p, 3, false)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	truncated := files[:len(files)-1]
	if _, err := Combine(eng, truncated, p, 3, false); err == nil {
		t.Fatalf("Combine() error = nil, want CombineError for a missing chunk file")
	}
}
