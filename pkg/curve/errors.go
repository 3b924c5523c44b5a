// Copyright 2025 Certen Protocol

package curve

import (
	"errors"
	"fmt"
)

// Decode-time errors from C1, shared across all curve implementations.
var (
	ErrPointAtInfinity = errors.New("point is the group identity")
	ErrNotInSubgroup   = errors.New("point is not in the prime-order subgroup")
)

func checkBatchLen(bases, scalars int) error {
	if scalars != 1 && scalars != bases {
		return fmt.Errorf("curve: batch scalar mul needs 1 or %d scalars, got %d", bases, scalars)
	}
	if bases == 0 {
		return fmt.Errorf("curve: batch scalar mul called with zero bases")
	}
	return nil
}
