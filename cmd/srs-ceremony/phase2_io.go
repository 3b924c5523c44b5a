// Copyright 2025 Certen Protocol

package main

import (
	"encoding/binary"
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/codec"
	"github.com/certen/trusted-setup/pkg/ceremony/digest"
	"github.com/certen/trusted-setup/pkg/curve"
	"github.com/certen/trusted-setup/pkg/phase2"
)

// savePhase2Params/loadPhase2Params give Π an on-disk form, following
// §6's framing rule verbatim: variable-length vectors are prefixed
// with a little-endian 64-bit count, the contributor list with a
// big-endian 32-bit count. All points are written uncompressed.
func savePhase2Params(eng curve.Engine, path string, p *phase2.Params) error {
	g1 := eng.G1Size(false)
	g2 := eng.G2Size(false)

	writeVecG1 := func(buf []byte, v []curve.PointG1) []byte {
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(v)))
		buf = append(buf, lenBuf[:]...)
		for _, pt := range v {
			buf = append(buf, eng.EncodeG1(pt, false)...)
		}
		return buf
	}
	writeVecG2 := func(buf []byte, v []curve.PointG2) []byte {
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(v)))
		buf = append(buf, lenBuf[:]...)
		for _, pt := range v {
			buf = append(buf, eng.EncodeG2(pt, false)...)
		}
		return buf
	}

	buf := make([]byte, 0, 8*(g1+g2)+len(p.CsHash))
	buf = append(buf, eng.EncodeG1(p.VK.AlphaG1, false)...)
	buf = append(buf, eng.EncodeG1(p.VK.BetaG1, false)...)
	buf = append(buf, eng.EncodeG2(p.VK.BetaG2, false)...)
	buf = append(buf, eng.EncodeG2(p.VK.GammaG2, false)...)
	buf = append(buf, eng.EncodeG1(p.DeltaG1, false)...)
	buf = append(buf, eng.EncodeG2(p.DeltaG2, false)...)
	buf = append(buf, p.CsHash[:]...)
	buf = writeVecG1(buf, p.VK.GammaABCG1)
	buf = writeVecG1(buf, p.AQuery)
	buf = writeVecG1(buf, p.BG1Query)
	buf = writeVecG2(buf, p.BG2Query)
	buf = writeVecG1(buf, p.HQuery)
	buf = writeVecG1(buf, p.LQuery)

	var contribCount [4]byte
	binary.BigEndian.PutUint32(contribCount[:], uint32(len(p.Contributors)))
	buf = append(buf, contribCount[:]...)
	for _, pk := range p.Contributors {
		buf = append(buf, writePublicKey2(eng, pk)...)
	}

	return writeFile(path, buf)
}

func loadPhase2Params(eng curve.Engine, path string, check curve.CheckLevel) (*phase2.Params, error) {
	buf, err := readFile(path)
	if err != nil {
		return nil, err
	}
	g1 := eng.G1Size(false)
	g2 := eng.G2Size(false)
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
	need := func(n int) error {
		if off+n > len(buf) {
			return fmt.Errorf("%s: truncated at offset %d, need %d more bytes", path, off, n)
		}
		return nil
	}
	readVecG1 := func() ([]curve.PointG1, error) {
		if err := need(8); err != nil {
			return nil, err
		}
		n := binary.LittleEndian.Uint64(buf[off : off+8])
		off += 8
		out := make([]curve.PointG1, n)
		for i := range out {
			out[i], err = readG1()
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	readVecG2 := func() ([]curve.PointG2, error) {
		if err := need(8); err != nil {
			return nil, err
		}
		n := binary.LittleEndian.Uint64(buf[off : off+8])
		off += 8
		out := make([]curve.PointG2, n)
		for i := range out {
			out[i], err = readG2()
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var p phase2.Params
	if p.VK.AlphaG1, err = readG1(); err != nil {
		return nil, err
	}
	if p.VK.BetaG1, err = readG1(); err != nil {
		return nil, err
	}
	if p.VK.BetaG2, err = readG2(); err != nil {
		return nil, err
	}
	if p.VK.GammaG2, err = readG2(); err != nil {
		return nil, err
	}
	if p.DeltaG1, err = readG1(); err != nil {
		return nil, err
	}
	if p.DeltaG2, err = readG2(); err != nil {
		return nil, err
	}
	if err := need(digest.Size); err != nil {
		return nil, err
	}
	copy(p.CsHash[:], buf[off:off+digest.Size])
	off += digest.Size

	if p.VK.GammaABCG1, err = readVecG1(); err != nil {
		return nil, err
	}
	if p.AQuery, err = readVecG1(); err != nil {
		return nil, err
	}
	if p.BG1Query, err = readVecG1(); err != nil {
		return nil, err
	}
	if p.BG2Query, err = readVecG2(); err != nil {
		return nil, err
	}
	if p.HQuery, err = readVecG1(); err != nil {
		return nil, err
	}
	if p.LQuery, err = readVecG1(); err != nil {
		return nil, err
	}

	if err := need(4); err != nil {
		return nil, err
	}
	count := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	pkSize := 3*g1 + 2*g2 + digest.Size
	p.Contributors = make([]phase2.PublicKey2, count)
	for i := range p.Contributors {
		if err := need(pkSize); err != nil {
			return nil, err
		}
		pk, err := readPublicKey2(eng, buf[off:off+pkSize], check)
		if err != nil {
			return nil, err
		}
		p.Contributors[i] = pk
		off += pkSize
	}

	return &p, nil
}
