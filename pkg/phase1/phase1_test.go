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

func smallParams() params.Params {
	return params.Params{
		Curve:      curve.BLS12_377,
		System:     params.Groth16,
		K:          3,
		BatchSize:  256,
		Mode:       params.Full(),
		Compressed: false,
	}
}

func TestInitializeProducesIdentityAccumulator(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pool := workpool.New(4)
	p := smallParams()

	buf, err := Initialize(eng, pool, p, false)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if len(buf) != p.ActiveBufferSize(eng, false) {
		t.Fatalf("len(buf) = %d, want %d", len(buf), p.ActiveBufferSize(eng, false))
	}

	tau0, err := readG1Indexed(eng, buf, p, params.TauG1, 0, false, curve.CheckNone)
	if err != nil {
		t.Fatalf("read tau_g1[0]: %v", err)
	}
	if !eng.EqualG1(tau0, eng.G1Generator()) {
		t.Fatalf("tau_g1[0] != G1 generator after Initialize")
	}
}

func TestContributeThenVerifySucceeds(t *testing.T) {
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
	pk, sk, err := publickey.KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}

	out, err := Contribute(eng, pool, p, base, false, curve.CheckNone, false, sk, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}

	opt := VerifyOptions{
		InCompressed:  false,
		OutCompressed: false,
		CheckIn:       curve.CheckNone,
		CheckOut:      curve.CheckNone,
		RatioCheck:    true,
	}
	if err := Verify(eng, pool, p, base, out, pk, d, opt, true, nil); err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}
}

func TestVerifyProducesNewChallenge(t *testing.T) {
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
	pk, sk, err := publickey.KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}

	out, err := Contribute(eng, pool, p, base, false, curve.CheckNone, false, sk, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}

	opt := VerifyOptions{RatioCheck: true}
	nc := make([]byte, p.ActiveBufferSize(eng, false))
	if err := Verify(eng, pool, p, base, out, pk, d, opt, true, nc); err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}

	tau0, err := readG1Indexed(eng, nc, p, params.TauG1, 0, false, curve.CheckNone)
	if err != nil {
		t.Fatalf("read new_challenge tau_g1[0]: %v", err)
	}
	if !eng.EqualG1(tau0, eng.G1Generator()) {
		t.Fatalf("new_challenge tau_g1[0] != G1 generator")
	}

	wantSize := p.ActiveBufferSize(eng, false)
	bad := make([]byte, wantSize-1)
	if err := Verify(eng, pool, p, base, out, pk, d, opt, true, bad); err == nil {
		t.Fatalf("Verify() with mis-sized new_challenge buffer error = nil, want error")
	}
}

func TestVerifyRejectsWrongDigest(t *testing.T) {
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
	pk, sk, err := publickey.KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}
	out, err := Contribute(eng, pool, p, base, false, curve.CheckNone, false, sk, scalarmul.ModeAuto)
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}

	var wrong publickey.Digest64
	for i := range wrong {
		wrong[i] = 0xCD
	}
	opt := VerifyOptions{RatioCheck: true}
	if err := Verify(eng, pool, p, base, out, pk, wrong, opt, true, nil); err == nil {
		t.Fatalf("Verify() error = nil, want a proof-of-knowledge failure for a mismatched digest")
	}
}
