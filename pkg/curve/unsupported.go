// Copyright 2025 Certen Protocol

package curve

import "errors"

// ErrUnsupportedCurve marks a CurveKind named by the spec's enum that
// gnark-crypto does not implement. See DESIGN.md for the open-question
// resolution: MNT4_753 and MNT6_753 are accepted by ParseCurveKind and
// the CurveKind enum but New() refuses to construct an Engine for them.
var ErrUnsupportedCurve = errors.New("curve: unsupported curve")
