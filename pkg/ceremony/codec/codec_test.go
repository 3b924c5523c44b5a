// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"
	"testing"

	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

func TestReadWriteG1RoundTrip(t *testing.T) {
	for _, kind := range []curve.CurveKind{curve.BLS12_377, curve.BLS12_381, curve.BW6_761} {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			eng, err := curve.New(kind)
			if err != nil {
				t.Fatalf("curve.New(%s) error = %v", kind, err)
			}
			for _, compressed := range []bool{true, false} {
				p := eng.ScalarMulG1(eng.G1Generator(), big.NewInt(7))
				buf := make([]byte, eng.G1Size(compressed))
				if _, err := WriteG1(eng, buf, 0, p, compressed); err != nil {
					t.Fatalf("WriteG1() error = %v", err)
				}
				got, _, err := ReadG1(eng, buf, 0, compressed, curve.CheckFull)
				if err != nil {
					t.Fatalf("ReadG1() error = %v", err)
				}
				if !eng.EqualG1(got, p) {
					t.Fatalf("round trip mismatch for compressed=%v", compressed)
				}
			}
		})
	}
}

func TestReadBatchG1FailsWholeOnOneBadElement(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	n := 3
	size := eng.G1Size(true)
	buf := make([]byte, n*size)
	for i := 0; i < n; i++ {
		p := eng.ScalarMulG1(eng.G1Generator(), big.NewInt(int64(i+1)))
		if _, err := WriteG1(eng, buf, i*size, p, true); err != nil {
			t.Fatalf("WriteG1(%d) error = %v", i, err)
		}
	}
	// Corrupt the last element's encoding.
	buf[len(buf)-1] ^= 0xFF

	pool := workpool.New(2)
	if _, err := ReadBatchG1(pool, eng, buf, 0, n, true, curve.CheckFull); err == nil {
		t.Fatalf("ReadBatchG1() error = nil, want failure on corrupted element")
	}
}

func TestIsZeroG1(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	if !IsZeroG1(eng, eng.G1Identity()) {
		t.Fatalf("IsZeroG1(identity) = false, want true")
	}
	if IsZeroG1(eng, eng.G1Generator()) {
		t.Fatalf("IsZeroG1(generator) = true, want false")
	}
}
