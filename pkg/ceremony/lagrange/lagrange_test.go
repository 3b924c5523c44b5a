// Copyright 2025 Certen Protocol

package lagrange

import (
	"testing"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/curve"
)

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1023: 1024, 1024: 1024}
	for in, want := range cases {
		if got := NextPowerOfTwo(in); got != want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestConvertProducesExpectedShapes(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}

	n := 4
	p := params.Params{Curve: curve.BLS12_377, System: params.Groth16, K: 2, Mode: params.Full()}
	buf := make([]byte, p.BufferSize(eng, false))

	fillGeneratorG1 := func(tag params.VectorTag) {
		off := p.Offset(eng, tag, false)
		size := eng.G1Size(false)
		for i := 0; i < p.Len(tag); i++ {
			if _, err := codec.WriteG1(eng, buf, off+i*size, eng.G1Generator(), false); err != nil {
				t.Fatalf("WriteG1: %v", err)
			}
		}
	}
	fillGeneratorG2 := func(tag params.VectorTag) {
		off := p.Offset(eng, tag, false)
		size := eng.G2Size(false)
		for i := 0; i < p.Len(tag); i++ {
			if _, err := codec.WriteG2(eng, buf, off+i*size, eng.G2Generator(), false); err != nil {
				t.Fatalf("WriteG2: %v", err)
			}
		}
	}
	fillGeneratorG1(params.TauG1)
	fillGeneratorG2(params.TauG2)
	fillGeneratorG1(params.AlphaG1)
	fillGeneratorG1(params.BetaG1)
	fillGeneratorG2(params.BetaG2)

	out, err := Convert(eng, p, buf, false, curve.CheckNone, n)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(out.CoeffsTauG1) != n {
		t.Errorf("len(CoeffsTauG1) = %d, want %d", len(out.CoeffsTauG1), n)
	}
	if len(out.CoeffsTauG2) != n {
		t.Errorf("len(CoeffsTauG2) = %d, want %d", len(out.CoeffsTauG2), n)
	}
	if len(out.HQuery) != n-1 {
		t.Errorf("len(HQuery) = %d, want %d", len(out.HQuery), n-1)
	}
	if !eng.EqualG2(out.BetaG2, eng.G2Generator()) {
		t.Errorf("BetaG2 was not passed through unchanged")
	}
	if !eng.EqualG1(out.AlphaG1, eng.G1Generator()) {
		t.Errorf("AlphaG1 was not the raw alpha_g1[0] value")
	}
	if !eng.EqualG1(out.BetaG1, eng.G1Generator()) {
		t.Errorf("BetaG1 was not the raw beta_g1[0] value")
	}
}
