// Copyright 2025 Certen Protocol

package publickey

import (
	"crypto/rand"
	"testing"

	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/curve"
)

func TestKeyGenerateProducesValidPoK(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	d := digest.BlankHash()
	pk, sk, err := KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}
	defer sk.Zeroize()

	ok, err := VerifyPoK(eng, pk, d)
	if err != nil {
		t.Fatalf("VerifyPoK() error = %v", err)
	}
	if !ok {
		t.Fatalf("VerifyPoK() = false, want true for a freshly generated key")
	}
}

func TestVerifyPoKRejectsWrongDigest(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pk, sk, err := KeyGenerate(eng, rand.Reader, digest.BlankHash())
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}
	defer sk.Zeroize()

	var other Digest64
	for i := range other {
		other[i] = 0xAB
	}
	ok, err := VerifyPoK(eng, pk, other)
	if err != nil {
		t.Fatalf("VerifyPoK() error = %v", err)
	}
	if ok {
		t.Fatalf("VerifyPoK() = true, want false when checked against a different digest")
	}
}

func TestNoPublicKeyComponentIsIdentity(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	pk, sk, err := KeyGenerate(eng, rand.Reader, digest.BlankHash())
	if err != nil {
		t.Fatalf("KeyGenerate() error = %v", err)
	}
	defer sk.Zeroize()

	pairs := []Pair{pk.TauG1, pk.AlphaG1, pk.BetaG1}
	for i, p := range pairs {
		if eng.IsIdentityG1(p.S) || eng.IsIdentityG1(p.SX) {
			t.Fatalf("pair %d has an identity component", i)
		}
	}
	for i, g2 := range []curve.PointG2{pk.TauG2, pk.AlphaG2, pk.BetaG2} {
		if eng.IsIdentityG2(g2) {
			t.Fatalf("g2 component %d is identity", i)
		}
	}
}
