// Copyright 2025 Certen Protocol

// Package attestation provides BLS12-381 signatures operators use to
// co-sign a ceremony digest out of band from the ceremony's own
// pairing curve: a contributor or auditor signs the BLAKE2b digest of
// an accumulator or Phase-2 params file, and any number of such
// signatures over the same digest aggregate into one compact
// attestation. This is independent of whichever curve (BLS12-377,
// BLS12-381, BW6-761, ...) the ceremony itself runs over.
package attestation

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var (
	initOnce sync.Once

	g1Gen bls12381.G1Affine
	g2Gen bls12381.G2Affine
)

// Domain separation tags for the two kinds of message an attestation
// key signs over.
const (
	DomainContribution = "CERTEN_SETUP_CONTRIBUTION_V1"
	DomainFinal        = "CERTEN_SETUP_FINAL_V1"
)

const (
	PrivateKeySize = 32
	PublicKeySize  = 96
	SignatureSize  = 48
)

func initialize() {
	initOnce.Do(func() {
		_, _, g1GenPoint, g2GenPoint := bls12381.Generators()
		g1Gen = g1GenPoint
		g2Gen = g2GenPoint
	})
}

// PrivateKey is an attestation signing key: a scalar in Fr.
type PrivateKey struct {
	scalar fr.Element
}

// PublicKey is a point on G2.
type PublicKey struct {
	point bls12381.G2Affine
}

// Signature is a point on G1.
type Signature struct {
	point bls12381.G1Affine
}

// GenerateKeyPair generates a new attestation key pair.
func GenerateKeyPair() (*PrivateKey, *PublicKey, error) {
	initialize()
	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		return nil, nil, fmt.Errorf("attestation: generate random scalar: %w", err)
	}
	priv := &PrivateKey{scalar: sk}
	return priv, priv.PublicKey(), nil
}

func PrivateKeyFromBytes(data []byte) (*PrivateKey, error) {
	initialize()
	if len(data) != PrivateKeySize {
		return nil, fmt.Errorf("attestation: invalid private key size: got %d, want %d", len(data), PrivateKeySize)
	}
	var sk fr.Element
	sk.SetBytes(data)
	return &PrivateKey{scalar: sk}, nil
}

func PublicKeyFromBytes(data []byte) (*PublicKey, error) {
	initialize()
	var pk bls12381.G2Affine
	if _, err := pk.SetBytes(data); err != nil {
		return nil, fmt.Errorf("attestation: deserialize public key: %w", err)
	}
	return &PublicKey{point: pk}, nil
}

func SignatureFromBytes(data []byte) (*Signature, error) {
	initialize()
	var sig bls12381.G1Affine
	if _, err := sig.SetBytes(data); err != nil {
		return nil, fmt.Errorf("attestation: deserialize signature: %w", err)
	}
	return &Signature{point: sig}, nil
}

func (sk *PrivateKey) Bytes() []byte {
	b := sk.scalar.Bytes()
	return b[:]
}

func (sk *PrivateKey) Hex() string { return hex.EncodeToString(sk.Bytes()) }

// PublicKey derives pk = sk * G2.
func (sk *PrivateKey) PublicKey() *PublicKey {
	var pk bls12381.G2Affine
	var skBig big.Int
	sk.scalar.BigInt(&skBig)
	pk.ScalarMultiplication(&g2Gen, &skBig)
	return &PublicKey{point: pk}
}

// Sign computes sig = sk * H(domain || message).
func (sk *PrivateKey) Sign(domain string, message []byte) *Signature {
	h := hashToG1(computeDomainMessage(domain, message))
	var sig bls12381.G1Affine
	var skBig big.Int
	sk.scalar.BigInt(&skBig)
	sig.ScalarMultiplication(&h, &skBig)
	return &Signature{point: sig}
}

func (pk *PublicKey) Bytes() []byte {
	b := pk.point.Bytes()
	return b[:]
}

func (pk *PublicKey) Hex() string { return hex.EncodeToString(pk.Bytes()) }

// Verify checks e(sig, G2) == e(H(domain||message), pk) via
// e(sig, G2) * e(H(domain||message), -pk) == 1.
func (pk *PublicKey) Verify(sig *Signature, domain string, message []byte) bool {
	h := hashToG1(computeDomainMessage(domain, message))
	var negPk bls12381.G2Affine
	negPk.Neg(&pk.point)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{sig.point, h},
		[]bls12381.G2Affine{g2Gen, negPk},
	)
	return err == nil && ok
}

func (pk *PublicKey) Equal(other *PublicKey) bool { return pk.point.Equal(&other.point) }

func (sig *Signature) Bytes() []byte {
	b := sig.point.Bytes()
	return b[:]
}

func (sig *Signature) Hex() string { return hex.EncodeToString(sig.Bytes()) }

// AggregateSignatures sums a set of signatures over the SAME message
// into one compact attestation (point addition on G1), so N
// independent co-signers of one ceremony digest produce one signature
// of fixed size instead of N.
func AggregateSignatures(signatures []*Signature) (*Signature, error) {
	if len(signatures) == 0 {
		return nil, errors.New("attestation: no signatures to aggregate")
	}
	var agg bls12381.G1Jac
	agg.FromAffine(&signatures[0].point)
	for _, s := range signatures[1:] {
		var jac bls12381.G1Jac
		jac.FromAffine(&s.point)
		agg.AddAssign(&jac)
	}
	var result bls12381.G1Affine
	result.FromJacobian(&agg)
	return &Signature{point: result}, nil
}

// AggregatePublicKeys sums a set of public keys (point addition on G2).
func AggregatePublicKeys(publicKeys []*PublicKey) (*PublicKey, error) {
	if len(publicKeys) == 0 {
		return nil, errors.New("attestation: no public keys to aggregate")
	}
	var agg bls12381.G2Jac
	agg.FromAffine(&publicKeys[0].point)
	for _, p := range publicKeys[1:] {
		var jac bls12381.G2Jac
		jac.FromAffine(&p.point)
		agg.AddAssign(&jac)
	}
	var result bls12381.G2Affine
	result.FromJacobian(&agg)
	return &PublicKey{point: result}, nil
}

// VerifyAggregate checks an aggregated signature against the
// aggregate of the signers' public keys, all over the same message.
func VerifyAggregate(aggSig *Signature, publicKeys []*PublicKey, domain string, message []byte) bool {
	if len(publicKeys) == 0 {
		return false
	}
	aggPk, err := AggregatePublicKeys(publicKeys)
	if err != nil {
		return false
	}
	return aggPk.Verify(aggSig, domain, message)
}

// ValidatePublicKeySubgroup rejects public keys off-curve, at
// infinity, or outside the prime-order subgroup, defending against
// rogue-key attacks on aggregate verification.
func ValidatePublicKeySubgroup(data []byte) error {
	if len(data) != PublicKeySize {
		return fmt.Errorf("attestation: invalid public key size: got %d, want %d", len(data), PublicKeySize)
	}
	var pk bls12381.G2Affine
	if _, err := pk.SetBytes(data); err != nil {
		return fmt.Errorf("attestation: invalid public key encoding: %w", err)
	}
	if !pk.IsOnCurve() {
		return errors.New("attestation: public key not on curve")
	}
	if pk.IsInfinity() {
		return errors.New("attestation: public key is the identity point")
	}
	if !pk.IsInSubGroup() {
		return errors.New("attestation: public key not in the prime-order subgroup")
	}
	return nil
}

func hashToG1(message []byte) bls12381.G1Affine {
	h := sha256.New()
	h.Write([]byte("CERTEN_SETUP_BLS12381G1_XMD:SHA-256_SSWU_RO_"))
	h.Write(message)
	var counter uint64
	for {
		h2 := sha256.New()
		h2.Write(h.Sum(nil))
		binary.Write(h2, binary.BigEndian, counter)
		hash := h2.Sum(nil)

		var point bls12381.G1Affine
		if _, err := point.SetBytes(hash); err == nil && !point.IsInfinity() {
			return point
		}

		var scalar fr.Element
		scalar.SetBytes(hash)
		var scalarBig big.Int
		scalar.BigInt(&scalarBig)
		var result bls12381.G1Affine
		result.ScalarMultiplication(&g1Gen, &scalarBig)
		if !result.IsInfinity() {
			return result
		}
		counter++
		if counter > 1000 {
			return g1Gen
		}
	}
}

func computeDomainMessage(domain string, message []byte) []byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write(message)
	return h.Sum(nil)
}
