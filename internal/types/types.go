// Package types provides domain models shared across chancekeeper components.
//
// Zero-dependency design: types.go and errors.go use only the standard library
// so internal/rules can be embedded without pulling in storage or transport
// dependencies. ID utilities in ids.go import uuid but are isolated.
package types

// ChanceID represents a UUIDv7 identifier of a stored chance definition.
// String alias enables type safety while maintaining JSON string serialization.
type ChanceID string

// Context maps condition names to the values a condition tree is evaluated
// against. Values are booleans or numbers (any Go numeric type or json.Number);
// comparison conditions also accept numeric strings.
// The engine never mutates a Context.
type Context map[string]any

// Resource limits enforced when decoding condition trees.
const (
	// MaxTreeDepth bounds container nesting below a modifier root.
	// 16 levels covers any hand-authored tree; deeper input is rejected
	// before evaluation rather than recursing without bound.
	MaxTreeDepth = 16

	// MaxModifiers limits modifiers per chance to keep Factor linear and cheap.
	MaxModifiers = 256
)
