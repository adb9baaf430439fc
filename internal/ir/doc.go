// Package ir provides the canonical message, request and response types for msgboard.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - All JSON tags use snake_case
//   - Identifiers are uint64 and travel as decimal strings on the wire
//   - Request enums carry exactly one non-nil variant
package ir
