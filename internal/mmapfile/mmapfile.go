// Copyright 2025 Certen Protocol

// Package mmapfile memory-maps accumulator/parameter files so a
// ceremony run can operate on multi-gigabyte buffers without copying
// them into process memory, per the persisted-state layout a real
// deployment needs even though the core (pkg/ceremony/*, pkg/phase1,
// pkg/phase2) only ever sees a plain []byte.
package mmapfile

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// File is an open memory-mapped accumulator or parameter file. Data()
// returns the mapped bytes directly; every pkg/phase1 and pkg/phase2
// operation accepts a plain []byte, so File.Data() slots in wherever
// those packages expect an in-memory buffer.
type File struct {
	f  *os.File
	mm mmap.MMap
}

// OpenReadWrite opens path and maps it read-write. The file must
// already exist at the desired size (use Create for a fresh file).
func OpenReadWrite(path string) (*File, error) {
	return open(path, os.O_RDWR, mmap.RDWR)
}

// OpenReadOnly opens path and maps it read-only.
func OpenReadOnly(path string) (*File, error) {
	return open(path, os.O_RDONLY, mmap.RDONLY)
}

func open(path string, flag int, prot int) (*File, error) {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}
	mm, err := mmap.Map(f, prot, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: map %s: %w", path, err)
	}
	return &File{f: f, mm: mm}, nil
}

// Create allocates a fresh file of exactly size bytes and maps it
// read-write, for a Phase-1/Phase-2 Initialize call to write into.
func Create(path string, size int64) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: create %s: %w", path, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: truncate %s to %d: %w", path, size, err)
	}
	mm, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: map %s: %w", path, err)
	}
	return &File{f: f, mm: mm}, nil
}

// Data returns the mapped bytes. Valid until Close is called.
func (mf *File) Data() []byte { return mf.mm }

// Flush writes any modified pages back to disk without unmapping.
func (mf *File) Flush() error {
	if err := mf.mm.Flush(); err != nil {
		return fmt.Errorf("mmapfile: flush: %w", err)
	}
	return nil
}

// Close flushes, unmaps, and closes the underlying file.
func (mf *File) Close() error {
	if err := mf.mm.Flush(); err != nil {
		mf.f.Close()
		return fmt.Errorf("mmapfile: flush on close: %w", err)
	}
	if err := mf.mm.Unmap(); err != nil {
		mf.f.Close()
		return fmt.Errorf("mmapfile: unmap: %w", err)
	}
	if err := mf.f.Close(); err != nil {
		return fmt.Errorf("mmapfile: close: %w", err)
	}
	return nil
}
