// Copyright 2025 Certen Protocol

package phase1

import (
	"fmt"

	"github.com/certen/trusted-setup/pkg/ceremony/errs"
	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/curve"
)

// ChunkFile is one file produced by Split: the bytes of a single
// vector's slice for a single chunk, plus the identifying key C15's
// combine step re-sorts by.
type ChunkFile struct {
	Tag        params.VectorTag
	ChunkIndex int
	Data       []byte
}

// Name returns the deterministic (chunk_prefix, vector_tag, chunk_index)
// file name C10 and C15 use to address a chunk file on disk.
func (c ChunkFile) Name(chunkPrefix string) string {
	return fmt.Sprintf("%s.%s.%06d", chunkPrefix, c.Tag, c.ChunkIndex)
}

// Split implements C10's split(chunk_prefix, full_buffer, P): slices a
// full accumulator buffer into per-vector per-chunk files named
// deterministically. chunkSize is the element count per chunk for
// every vector's own chunking (a vector shorter than one chunk
// produces a single file covering its whole length).
func Split(eng curve.Engine, full []byte, p params.Params, chunkSize int, compressed bool) ([]ChunkFile, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("phase1: split: %w", errs.New(errs.KindInvalidLength, "chunk size must be positive"))
	}
	var out []ChunkFile
	for _, tag := range vectorTags() {
		n := p.Len(tag)
		if n == 0 {
			continue
		}
		size := elementSizeFor(eng, tag, compressed)
		base := p.Offset(eng, tag, compressed)
		chunkIdx := 0
		for start := 0; start < n; start += chunkSize {
			end := start + chunkSize
			if end > n {
				end = n
			}
			lo := base + start*size
			hi := base + end*size
			if hi > len(full) {
				return nil, fmt.Errorf("phase1: split: %w", errs.New(errs.KindCombineError, fmt.Sprintf("%s chunk %d exceeds buffer", tag, chunkIdx)))
			}
			data := make([]byte, hi-lo)
			copy(data, full[lo:hi])
			out = append(out, ChunkFile{Tag: tag, ChunkIndex: chunkIdx, Data: data})
			chunkIdx++
		}
	}
	return out, nil
}

// Combine implements C10's combine(list_file, out_buffer, P): the
// inverse of Split. files need not be pre-sorted; Combine validates
// that every chunk's length matches what P expects at its offset and
// that the full vector is covered with no gaps or overlaps before
// writing into a freshly allocated output buffer.
func Combine(eng curve.Engine, files []ChunkFile, p params.Params, chunkSize int, compressed bool) ([]byte, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("phase1: combine: %w", errs.New(errs.KindInvalidLength, "chunk size must be positive"))
	}
	out := make([]byte, p.BufferSize(eng, compressed))

	byTag := make(map[params.VectorTag][]ChunkFile)
	for _, f := range files {
		byTag[f.Tag] = append(byTag[f.Tag], f)
	}

	for _, tag := range vectorTags() {
		n := p.Len(tag)
		if n == 0 {
			continue
		}
		size := elementSizeFor(eng, tag, compressed)
		base := p.Offset(eng, tag, compressed)
		chunks := byTag[tag]
		wantChunks := (n + chunkSize - 1) / chunkSize
		if len(chunks) != wantChunks {
			return nil, fmt.Errorf("phase1: combine: %w", errs.New(errs.KindCombineError, fmt.Sprintf("%s: expected %d chunk files, got %d", tag, wantChunks, len(chunks))))
		}
		seen := make(map[int]bool, len(chunks))
		for _, c := range chunks {
			if seen[c.ChunkIndex] {
				return nil, fmt.Errorf("phase1: combine: %w", errs.New(errs.KindCombineError, fmt.Sprintf("%s: duplicate chunk index %d", tag, c.ChunkIndex)))
			}
			seen[c.ChunkIndex] = true

			start := c.ChunkIndex * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			wantLen := (end - start) * size
			if len(c.Data) != wantLen {
				return nil, fmt.Errorf("phase1: combine: %w", errs.New(errs.KindCombineError, fmt.Sprintf("%s chunk %d: expected %d bytes, got %d", tag, c.ChunkIndex, wantLen, len(c.Data))))
			}
			lo := base + start*size
			copy(out[lo:lo+wantLen], c.Data)
		}
	}
	return out, nil
}

func vectorTags() []params.VectorTag {
	return []params.VectorTag{params.TauG1, params.TauG2, params.AlphaG1, params.BetaG1, params.BetaG2}
}

func elementSizeFor(eng curve.Engine, tag params.VectorTag, compressed bool) int {
	if tag == params.TauG2 || tag == params.BetaG2 {
		return eng.G2Size(compressed)
	}
	return eng.G1Size(compressed)
}
