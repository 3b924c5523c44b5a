// Copyright 2025 Certen Protocol

package digest

import (
	"bytes"
	"testing"
)

func TestBlankHashIsDigestOfEmptyString(t *testing.T) {
	want := Sum(nil)
	got := BlankHash()
	if got != want {
		t.Fatalf("BlankHash() = %x, want %x", got, want)
	}
}

func TestHashWriterMatchesSum(t *testing.T) {
	msg := []byte("test_verify_transformation 1")

	var buf bytes.Buffer
	hw := NewHashWriter(&buf)
	if _, err := hw.Write(msg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !bytes.Equal(buf.Bytes(), msg) {
		t.Fatalf("passthrough write = %q, want %q", buf.Bytes(), msg)
	}
	if got, want := hw.Sum512(), Sum(msg); got != want {
		t.Fatalf("Sum512() = %x, want %x", got, want)
	}
}

func TestHashWriterNilPassthrough(t *testing.T) {
	hw := NewHashWriter(nil)
	if _, err := hw.Write([]byte("abc")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got, want := hw.Sum512(), Sum([]byte("abc")); got != want {
		t.Fatalf("Sum512() = %x, want %x", got, want)
	}
}
