// internal/rules/leaf.go
package rules

import (
	"fmt"
	"math"

	"github.com/solatis/chancekeeper/internal/naming"
	"github.com/solatis/chancekeeper/internal/types"
)

// approxEpsilon is the absolute floor of the ApproxEquals tolerance.
const approxEpsilon = 1e-14

// BoolEquals holds when the context value for Name is a bool equal to
// Expected. Encoded bare: {"name": true}.
type BoolEquals struct {
	Name     string
	Expected bool
}

// NewBoolEquals returns a BoolEquals with a normalized name.
func NewBoolEquals(name string, expected bool) *BoolEquals {
	return &BoolEquals{Name: naming.Key(name), Expected: expected}
}

func (b *BoolEquals) ConditionName() string { return b.Name }

// Evaluate returns false for missing and non-bool values.
func (b *BoolEquals) Evaluate(ctx types.Context) (bool, error) {
	v, ok := lookup(ctx, b.Name)
	if !ok {
		return false, nil
	}
	actual, ok := v.(bool)
	if !ok {
		return false, nil
	}
	return actual == b.Expected, nil
}

func (b *BoolEquals) Encode() (Property, error) {
	if b.Name == "" {
		return Property{}, fmt.Errorf("%w: bool condition has empty name", types.ErrSerialization)
	}
	return Property{Name: b.Name, Value: b.Expected}, nil
}

// ApproxEquals holds when the context value for Name is numerically equal to
// Expected within a scale-relative tolerance. Encoded bare: {"name": 5}.
type ApproxEquals struct {
	Name     string
	Expected float64
}

// NewApproxEquals returns an ApproxEquals with a normalized name.
func NewApproxEquals(name string, expected float64) *ApproxEquals {
	return &ApproxEquals{Name: naming.Key(name), Expected: expected}
}

func (a *ApproxEquals) ConditionName() string { return a.Name }

// Evaluate returns false for missing and non-numeric values.
func (a *ApproxEquals) Evaluate(ctx types.Context) (bool, error) {
	v, ok := lookup(ctx, a.Name)
	if !ok {
		return false, nil
	}
	actual, ok := toFloat64(v)
	if !ok {
		return false, nil
	}
	return approxEqual(actual, a.Expected), nil
}

func (a *ApproxEquals) Encode() (Property, error) {
	if a.Name == "" {
		return Property{}, fmt.Errorf("%w: numeric condition has empty name", types.ErrSerialization)
	}
	if err := checkFinite(a.Name, a.Expected); err != nil {
		return Property{}, err
	}
	return Property{Name: a.Name, Value: a.Expected}, nil
}

// approxEqual compares with tolerance max(1e-14, 1e-14*|actual|).
func approxEqual(actual, expected float64) bool {
	if actual == expected {
		return true
	}
	tolerance := math.Max(approxEpsilon, approxEpsilon*math.Abs(actual))
	return math.Abs(actual-expected) < tolerance
}

// MoreThan holds when the context value for Name is strictly greater than
// Threshold. Encoded wrapped: {"more_than": {"name": 10}}.
type MoreThan struct {
	Name      string
	Threshold float64
}

// NewMoreThan returns a MoreThan with a normalized name.
func NewMoreThan(name string, threshold float64) *MoreThan {
	return &MoreThan{Name: naming.Key(name), Threshold: threshold}
}

func (m *MoreThan) ConditionName() string { return m.Name }

// Evaluate returns false for missing or null values and an error wrapping
// ErrCoercionFailed for values that are not numeric.
func (m *MoreThan) Evaluate(ctx types.Context) (bool, error) {
	actual, ok, err := compareOperand(ctx, m.Name)
	if !ok || err != nil {
		return false, err
	}
	return actual > m.Threshold, nil
}

func (m *MoreThan) Encode() (Property, error) {
	return encodeComparison(KeyMoreThan, m.Name, m.Threshold)
}

// LessThan holds when the context value for Name is strictly less than
// Threshold. Encoded wrapped: {"less_than": {"name": 10}}.
type LessThan struct {
	Name      string
	Threshold float64
}

// NewLessThan returns a LessThan with a normalized name.
func NewLessThan(name string, threshold float64) *LessThan {
	return &LessThan{Name: naming.Key(name), Threshold: threshold}
}

func (l *LessThan) ConditionName() string { return l.Name }

// Evaluate returns false for missing or null values and an error wrapping
// ErrCoercionFailed for values that are not numeric.
func (l *LessThan) Evaluate(ctx types.Context) (bool, error) {
	actual, ok, err := compareOperand(ctx, l.Name)
	if !ok || err != nil {
		return false, err
	}
	return actual < l.Threshold, nil
}

func (l *LessThan) Encode() (Property, error) {
	return encodeComparison(KeyLessThan, l.Name, l.Threshold)
}

// compareOperand resolves and coerces the left side of a comparison.
// ok is false when the value is missing.
func compareOperand(ctx types.Context, name string) (float64, bool, error) {
	v, ok := lookup(ctx, name)
	if !ok {
		return 0, false, nil
	}
	actual, err := coerceNumeric(v)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s: cannot compare %T value %v", err, name, v, v)
	}
	return actual, true, nil
}

func encodeComparison(key, name string, threshold float64) (Property, error) {
	if name == "" {
		return Property{}, fmt.Errorf("%w: %s condition has empty name", types.ErrSerialization, key)
	}
	if err := checkFinite(key+"."+name, threshold); err != nil {
		return Property{}, err
	}
	return Property{Name: key, Value: Object{{Name: name, Value: threshold}}}, nil
}
