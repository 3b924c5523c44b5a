// Copyright 2025 Certen Protocol

// Package digest computes the 64-byte BLAKE2b transcript/accumulator
// hashes used as domain separators between successive contributions
// (spec §6 "Hash outputs"), grounded on setup-utils/src/helpers.rs's
// HashWriter and blank_hash().
package digest

import (
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Size is the fixed digest length used throughout the ceremony.
const Size = 64

// Digest64 is the fixed-size digest array type shared by every
// package that stores or compares a whole transcript/accumulator hash.
type Digest64 = [Size]byte

// Sum returns the BLAKE2b-512 digest of buf.
func Sum(buf []byte) [Size]byte {
	return blake2b.Sum512(buf)
}

// BlankHash is the digest of the empty byte string, used as the first
// contributor's domain separator before any accumulator exists
// (scenario 3 in the spec's test suite).
func BlankHash() [Size]byte {
	return Sum(nil)
}

// HashWriter accumulates a running BLAKE2b-512 hash over everything
// written to it, mirroring the Rust HashWriter<W> that wraps an
// io.Writer while it hashes serialized accumulator/public-key bytes.
type HashWriter struct {
	w io.Writer
	h hash.Hash
}

// NewHashWriter wraps w; every Write also feeds the running hash. w
// may be nil if the caller only wants the hash, not the passthrough.
func NewHashWriter(w io.Writer) *HashWriter {
	h, err := blake2b.New512(nil)
	if err != nil {
		// blake2b.New512 only fails for a bad key argument; we pass nil.
		panic("digest: blake2b.New512: " + err.Error())
	}
	return &HashWriter{w: w, h: h}
}

func (hw *HashWriter) Write(p []byte) (int, error) {
	hw.h.Write(p)
	if hw.w == nil {
		return len(p), nil
	}
	return hw.w.Write(p)
}

// Sum512 returns the 64-byte digest of everything written so far.
func (hw *HashWriter) Sum512() [Size]byte {
	var out [Size]byte
	copy(out[:], hw.h.Sum(nil))
	return out
}
