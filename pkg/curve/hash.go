// Copyright 2025 Certen Protocol

package curve

import (
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// hashToG2Scalar implements the C5 HashToG2 construction: a BLAKE2b-512
// digest of msg seeds a ChaCha20 stream (first 32 bytes as key, zero
// nonce); 64-byte draws from that stream are reduced into the scalar
// field via reduce, and resampled until non-zero. Multiplying the
// target group's generator by this scalar always lands in the correct
// prime-order subgroup, side-stepping the need for a curve-specific
// cofactor-clearing constant while keeping the digest/stream-cipher
// construction the spec calls for.
func hashToG2Scalar(msg []byte, reduce func([]byte) *big.Int) *big.Int {
	digest := blake2b.Sum512(msg)
	var key [32]byte
	copy(key[:], digest[:32])
	var nonce [12]byte
	stream, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		// Only fails for a malformed key/nonce size, which are fixed
		// constants above; this is unreachable in practice.
		panic("curve: chacha20 stream init: " + err.Error())
	}
	zero := make([]byte, 64)
	buf := make([]byte, 64)
	for {
		stream.XORKeyStream(buf, zero)
		s := reduce(buf)
		if s.Sign() != 0 {
			return s
		}
	}
}

// randomScalarFromReader draws Engine.RandomScalar's scalar straight
// out of rng instead of an implicit global source, so a caller that
// hands in a seeded/streaming RNG (publickey.KeyGenerate,
// phase2.Contribute, the spec's §8 scenario 1 deterministic seed test)
// actually controls the contribution's randomness. 64-byte draws are
// reduced into the scalar field via reduce and resampled on a zero
// result, mirroring hashToG2Scalar's rejection loop.
func randomScalarFromReader(rng io.Reader, reduce func([]byte) *big.Int) (*big.Int, error) {
	buf := make([]byte, 64)
	for {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, fmt.Errorf("curve: random scalar: read rng: %w", err)
		}
		s := reduce(buf)
		if s.Sign() != 0 {
			return s, nil
		}
	}
}
