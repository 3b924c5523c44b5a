// Copyright 2025 Certen Protocol

package attestation

import (
	"bytes"
	"testing"
)

func TestGenerateKeyPair(t *testing.T) {
	sk, pk, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	if len(sk.Bytes()) != PrivateKeySize {
		t.Errorf("private key size: got %d, want %d", len(sk.Bytes()), PrivateKeySize)
	}
	if len(pk.Bytes()) != PublicKeySize {
		t.Errorf("public key size: got %d, want %d", len(pk.Bytes()), PublicKeySize)
	}
}

func TestSignAndVerify(t *testing.T) {
	sk, pk, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	digest := bytes.Repeat([]byte{0xAB}, 64)
	sig := sk.Sign(DomainFinal, digest)
	if !pk.Verify(sig, DomainFinal, digest) {
		t.Fatal("valid signature failed to verify")
	}
	if pk.Verify(sig, DomainContribution, digest) {
		t.Fatal("signature verified under the wrong domain tag")
	}
	other := bytes.Repeat([]byte{0xCD}, 64)
	if pk.Verify(sig, DomainFinal, other) {
		t.Fatal("signature verified against a different digest")
	}
}

func TestAggregateVerify(t *testing.T) {
	digest := bytes.Repeat([]byte{0x11}, 64)
	var sigs []*Signature
	var pks []*PublicKey
	for i := 0; i < 5; i++ {
		sk, pk, err := GenerateKeyPair()
		if err != nil {
			t.Fatalf("generate key pair %d: %v", i, err)
		}
		sigs = append(sigs, sk.Sign(DomainFinal, digest))
		pks = append(pks, pk)
	}
	agg, err := AggregateSignatures(sigs)
	if err != nil {
		t.Fatalf("aggregate signatures: %v", err)
	}
	if !VerifyAggregate(agg, pks, DomainFinal, digest) {
		t.Fatal("aggregate signature failed to verify")
	}

	skOutside, pkOutside, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	wrongSigs := append(append([]*Signature{}, sigs[:4]...), skOutside.Sign(DomainFinal, digest))
	wrongPks := append(append([]*PublicKey{}, pks...), pkOutside)
	wrongAgg, err := AggregateSignatures(wrongSigs)
	if err != nil {
		t.Fatalf("aggregate signatures: %v", err)
	}
	if VerifyAggregate(wrongAgg, wrongPks, DomainFinal, digest) {
		t.Fatal("aggregate signature verified with a missing signer's key swapped in")
	}
}

func TestValidatePublicKeySubgroup(t *testing.T) {
	_, pk, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	if err := ValidatePublicKeySubgroup(pk.Bytes()); err != nil {
		t.Fatalf("valid public key rejected: %v", err)
	}
	if err := ValidatePublicKeySubgroup(make([]byte, PublicKeySize-1)); err == nil {
		t.Fatal("wrong-size key accepted")
	}
}

func TestKeyManagerLoadOrGenerate(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/attest.key"

	km1 := NewKeyManager(path)
	if err := km1.LoadOrGenerate(); err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := km1.PublicKeyHex()

	km2 := NewKeyManager(path)
	if err := km2.LoadOrGenerate(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := km2.PublicKeyHex(); got != want {
		t.Fatalf("reloaded key manager has a different public key: got %s, want %s", got, want)
	}
}
