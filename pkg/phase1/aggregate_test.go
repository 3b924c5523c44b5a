// Copyright 2025 Certen Protocol

package phase1

import (
	"crypto/rand"
	"testing"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/publickey"
	"github.com/certen/trusted-setup/pkg/ceremony/scalarmul"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/curve"
)

func TestVerifyAggregateAcceptsAContribution(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pool := workpool.New(4)
	p := smallParams()

	base, err := Initialize(eng, pool, p, false)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	d := digest.Sum(base)
	_, sk, err := publickey.KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}
	out, err := Contribute(eng, pool, p, base, false, curve.CheckNone, false, sk, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}

	if err := VerifyAggregate(eng, pool, p, out, AggregateOptions{Compressed: false, Check: curve.CheckNone}); err != nil {
		t.Fatalf("VerifyAggregate() error = %v, want nil", err)
	}
}

func TestVerifyAggregateRejectsTamperedVector(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pool := workpool.New(4)
	p := smallParams()

	base, err := Initialize(eng, pool, p, false)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	d := digest.Sum(base)
	_, sk, err := publickey.KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}
	out, err := Contribute(eng, pool, p, base, false, curve.CheckNone, false, sk, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}

	off := p.Offset(eng, params.TauG1, false)
	size := eng.G1Size(false)
	for i := off; i < off+size; i++ {
		out[i] ^= 0xFF
	}

	if err := VerifyAggregate(eng, pool, p, out, AggregateOptions{Compressed: false, Check: curve.CheckNone}); err == nil {
		t.Fatalf("VerifyAggregate() error = nil, want a failure for a tampered tau_g1 vector")
	}
}
