// Copyright 2025 Certen Protocol

package mmapfile

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestCreateWriteCloseReopenRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accumulator.bin")

	mf, err := Create(path, 64)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	data := mf.Data()
	if len(data) != 64 {
		t.Fatalf("len(Data()) = %d, want 64", len(data))
	}
	for i := range data {
		data[i] = byte(i)
	}
	if err := mf.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	mf2, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	defer mf2.Close()

	want := make([]byte, 64)
	for i := range want {
		want[i] = byte(i)
	}
	if !bytes.Equal(mf2.Data(), want) {
		t.Fatalf("reopened data mismatch")
	}
}
