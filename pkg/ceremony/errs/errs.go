// Copyright 2025 Certen Protocol

// Package errs defines the ceremony's error kinds. Every exported
// ceremony operation returns one of these wrapped with fmt.Errorf so
// that callers can still errors.Is/errors.As to the specific kind
// while getting a readable chain, the same convention bls.go and
// prover.go use for their own errors.New/fmt.Errorf calls.
package errs

import (
	"errors"
	"fmt"
)

// Kind names one of the error categories from the ceremony's error
// handling design. Orchestrators attribute faults by matching Kind,
// not by parsing message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindPointAtInfinity
	KindNotInSubgroup
	KindInvalidGenerator
	KindInvalidRatio
	KindInvalidPublicKey
	KindInvalidLength
	KindBatchTooSmall
	KindInvariantBroken
	KindNoContributions
	KindInconsistentDelta
	KindIoError
	KindCombineError
	KindInconsistentChunks
)

func (k Kind) String() string {
	switch k {
	case KindPointAtInfinity:
		return "PointAtInfinity"
	case KindNotInSubgroup:
		return "NotInSubgroup"
	case KindInvalidGenerator:
		return "InvalidGenerator"
	case KindInvalidRatio:
		return "InvalidRatio"
	case KindInvalidPublicKey:
		return "InvalidPublicKey"
	case KindInvalidLength:
		return "InvalidLength"
	case KindBatchTooSmall:
		return "BatchTooSmall"
	case KindInvariantBroken:
		return "InvariantBroken"
	case KindNoContributions:
		return "NoContributions"
	case KindInconsistentDelta:
		return "InconsistentDelta"
	case KindIoError:
		return "IoError"
	case KindCombineError:
		return "CombineError"
	case KindInconsistentChunks:
		return "InconsistentChunks"
	default:
		return "Unknown"
	}
}

// Error is the concrete error value every ceremony package returns.
// Context carries whatever the specific kind names (an element tag, a
// ratio-check label, an expected/got length pair) as free-form text so
// a CLI caller can print one coherent line.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Context == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, KindX) work by comparing Kind values wrapped
// as sentinels below, matched against e.Kind.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	if te.Context != "" {
		return false
	}
	return e.Kind == te.Kind
}

func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context}
}

func Wrap(kind Kind, context string, cause error) *Error {
	return &Error{Kind: kind, Context: context, Err: cause}
}

// Sentinels for errors.Is(err, errs.PointAtInfinity) style matching
// against a bare Kind with no context.
var (
	PointAtInfinity      = &Error{Kind: KindPointAtInfinity}
	NotInSubgroup        = &Error{Kind: KindNotInSubgroup}
	InvalidGenerator     = &Error{Kind: KindInvalidGenerator}
	InvalidRatio         = &Error{Kind: KindInvalidRatio}
	InvalidPublicKey     = &Error{Kind: KindInvalidPublicKey}
	InvalidLength        = &Error{Kind: KindInvalidLength}
	BatchTooSmall        = &Error{Kind: KindBatchTooSmall}
	InvariantBroken      = &Error{Kind: KindInvariantBroken}
	NoContributions      = &Error{Kind: KindNoContributions}
	InconsistentDelta    = &Error{Kind: KindInconsistentDelta}
	IoError              = &Error{Kind: KindIoError}
	CombineError         = &Error{Kind: KindCombineError}
	InconsistentChunks   = &Error{Kind: KindInconsistentChunks}
)

// KindOf reports the Kind of err if it (or something it wraps) is an
// *Error, and KindUnknown otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
