// Copyright 2025 Certen Protocol

package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestScopeRunsAllJobs(t *testing.T) {
	p := New(4)
	scope, _ := p.Run(context.Background())

	var n int64
	for i := 0; i < 10; i++ {
		scope.Go(func() error {
			atomic.AddInt64(&n, 1)
			return nil
		})
	}
	if err := scope.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if n != 10 {
		t.Fatalf("ran %d jobs, want 10", n)
	}
}

func TestScopePropagatesFirstError(t *testing.T) {
	p := New(2)
	scope, _ := p.Run(context.Background())

	boom := errors.New("boom")
	scope.Go(func() error { return nil })
	scope.Go(func() error { return boom })

	if err := scope.Wait(); !errors.Is(err, boom) {
		t.Fatalf("Wait() error = %v, want %v", err, boom)
	}
}
