// Package ir provides the clock-level vocabulary shared by every other package:
// clock identities, clock constraints, clock operations, script steps and
// zone specs.
//
// This package contains type definitions, their textual form and canonical
// hashing only. All other internal packages import ir; ir imports nothing
// internal. This keeps IR the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - NO float types anywhere - all bounds are int64 constants
//   - Constraint, Op and Step are sealed sum types; consumers dispatch with
//     exhaustive type switches
//   - Clock names are NFC-normalized on construction so that identity does not
//     depend on the Unicode form a front end happened to produce
package ir
