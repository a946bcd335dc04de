package types

import "errors"

// Sentinel errors for chancekeeper operations.
var (
	// ErrStructural indicates JSON whose shape does not match the condition
	// grammar (wrong nesting, property count or value type).
	ErrStructural = errors.New("malformed condition structure")

	// ErrUnsupportedCondition indicates a property with no keyed or
	// shape-based factory registered for it.
	ErrUnsupportedCondition = errors.New("unsupported condition")

	// ErrCoercionFailed indicates a context value could not be converted to
	// the type a condition compares against.
	ErrCoercionFailed = errors.New("type coercion failed")

	// ErrSerialization indicates a node or chance could not be encoded.
	ErrSerialization = errors.New("serialization failed")

	// ErrTreeTooDeep indicates a condition tree exceeds MaxTreeDepth.
	ErrTreeTooDeep = errors.New("condition tree exceeds maximum depth")

	// ErrTooManyModifiers indicates a chance exceeds MaxModifiers.
	ErrTooManyModifiers = errors.New("chance has too many modifiers")

	// ErrChanceNotFound indicates no stored chance has the requested name.
	ErrChanceNotFound = errors.New("chance not found")

	// ErrInvalidChanceName indicates a chance name that normalizes to empty.
	ErrInvalidChanceName = errors.New("invalid chance name")
)
