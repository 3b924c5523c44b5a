// Copyright 2025 Certen Protocol

package main

import (
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/publickey"
	"github.com/certen/trusted-setup/pkg/curve"
	"github.com/certen/trusted-setup/pkg/phase2"
)

// writePublicKey serializes a Phase-1 PublicKey (3 G1 pairs, 3 G2
// points, all uncompressed) to a flat buffer. There is no on-disk
// PublicKey format in §3/§4 to follow since the original ceremony
// keeps it in-process; this is CLI-level persistence plumbing so
// -response can be handed from one contributor's invocation to the
// next verifier's.
func writePublicKey(eng curve.Engine, pk *publickey.PublicKey) []byte {
	g1 := eng.G1Size(false)
	g2 := eng.G2Size(false)
	buf := make([]byte, 6*g1+3*g2)
	off := 0
	write1 := func(p curve.PointG1) { codec.WriteG1(eng, buf, off, p, false); off += g1 }
	write2 := func(p curve.PointG2) { codec.WriteG2(eng, buf, off, p, false); off += g2 }
	write1(pk.TauG1.S)
	write1(pk.TauG1.SX)
	write1(pk.AlphaG1.S)
	write1(pk.AlphaG1.SX)
	write1(pk.BetaG1.S)
	write1(pk.BetaG1.SX)
	write2(pk.TauG2)
	write2(pk.AlphaG2)
	write2(pk.BetaG2)
	return buf
}

func readPublicKey(eng curve.Engine, buf []byte, check curve.CheckLevel) (*publickey.PublicKey, error) {
	g1 := eng.G1Size(false)
	g2 := eng.G2Size(false)
	if len(buf) != 6*g1+3*g2 {
		return nil, fmt.Errorf("pubkey: expected %d bytes, got %d", 6*g1+3*g2, len(buf))
	}
	off := 0
	read1 := func() (curve.PointG1, error) {
		p, n, err := codec.ReadG1(eng, buf, off, false, check)
		off += n
		return p, err
	}
	read2 := func() (curve.PointG2, error) {
		p, n, err := codec.ReadG2(eng, buf, off, false, check)
		off += n
		return p, err
	}
	var pk publickey.PublicKey
	var err error
	if pk.TauG1.S, err = read1(); err != nil {
		return nil, err
	}
	if pk.TauG1.SX, err = read1(); err != nil {
		return nil, err
	}
	if pk.AlphaG1.S, err = read1(); err != nil {
		return nil, err
	}
	if pk.AlphaG1.SX, err = read1(); err != nil {
		return nil, err
	}
	if pk.BetaG1.S, err = read1(); err != nil {
		return nil, err
	}
	if pk.BetaG1.SX, err = read1(); err != nil {
		return nil, err
	}
	if pk.TauG2, err = read2(); err != nil {
		return nil, err
	}
	if pk.AlphaG2, err = read2(); err != nil {
		return nil, err
	}
	if pk.BetaG2, err = read2(); err != nil {
		return nil, err
	}
	return &pk, nil
}

// writePublicKey2 is writePublicKey's Phase-2 analogue for PublicKey2
// (S, SDelta in G1; R, RDelta in G2; a 64-byte transcript; and the
// post-contribution delta_after point).
func writePublicKey2(eng curve.Engine, pk phase2.PublicKey2) []byte {
	g1 := eng.G1Size(false)
	g2 := eng.G2Size(false)
	buf := make([]byte, 3*g1+2*g2+len(pk.Transcript))
	off := 0
	codec.WriteG1(eng, buf, off, pk.S, false)
	off += g1
	codec.WriteG1(eng, buf, off, pk.SDelta, false)
	off += g1
	codec.WriteG2(eng, buf, off, pk.R, false)
	off += g2
	codec.WriteG2(eng, buf, off, pk.RDelta, false)
	off += g2
	codec.WriteG1(eng, buf, off, pk.DeltaAfterG1, false)
	off += g1
	copy(buf[off:], pk.Transcript[:])
	return buf
}

func readPublicKey2(eng curve.Engine, buf []byte, check curve.CheckLevel) (phase2.PublicKey2, error) {
	g1 := eng.G1Size(false)
	g2 := eng.G2Size(false)
	want := 3*g1 + 2*g2 + 64
	if len(buf) != want {
		return phase2.PublicKey2{}, fmt.Errorf("pubkey2: expected %d bytes, got %d", want, len(buf))
	}
	var pk phase2.PublicKey2
	var err error
	off := 0
	readG1 := func() (curve.PointG1, error) {
		p, n, err := codec.ReadG1(eng, buf, off, false, check)
		off += n
		return p, err
	}
	readG2 := func() (curve.PointG2, error) {
		p, n, err := codec.ReadG2(eng, buf, off, false, check)
		off += n
		return p, err
	}
	if pk.S, err = readG1(); err != nil {
		return pk, err
	}
	if pk.SDelta, err = readG1(); err != nil {
		return pk, err
	}
	if pk.R, err = readG2(); err != nil {
		return pk, err
	}
	if pk.RDelta, err = readG2(); err != nil {
		return pk, err
	}
	if pk.DeltaAfterG1, err = readG1(); err != nil {
		return pk, err
	}
	copy(pk.Transcript[:], buf[off:])
	return pk, nil
}
