// internal/rules/modifier.go
package rules

import (
	"fmt"

	"github.com/solatis/chancekeeper/internal/types"
)

// Modifier scales a chance by Factor when Condition holds.
//
// In JSON a modifier is a flat object: "factor" plus one property per root
// condition, all of which must hold. When two root conditions share a key
// (or one is named "factor") the conditions are written under a single
// "and" property instead.
type Modifier struct {
	Factor    float64
	Condition *And
}

// NewModifier returns a modifier whose root And holds conditions.
func NewModifier(factor float64, conditions ...Node) *Modifier {
	return &Modifier{Factor: factor, Condition: NewAnd(conditions...)}
}

// Evaluate reports whether the modifier applies to ctx. A modifier with no
// conditions always applies.
func (m *Modifier) Evaluate(ctx types.Context) (bool, error) {
	if m.Condition == nil {
		return true, nil
	}
	return m.Condition.Evaluate(ctx)
}

// Encode returns the modifier's JSON object.
func (m *Modifier) Encode() (Object, error) {
	if err := checkFinite(KeyFactor, m.Factor); err != nil {
		return nil, err
	}
	out := Object{{Name: KeyFactor, Value: m.Factor}}
	if m.Condition == nil {
		return out, nil
	}

	seen := map[string]struct{}{KeyFactor: {}}
	for _, child := range m.Condition.Children {
		if child == nil {
			continue
		}
		p, err := child.Encode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return m.encodeWrapped()
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// encodeWrapped writes the root conditions under one "and" property.
func (m *Modifier) encodeWrapped() (Object, error) {
	root, err := m.Condition.Encode()
	if err != nil {
		return nil, err
	}
	return Object{{Name: KeyFactor, Value: m.Factor}, root}, nil
}

// MarshalJSON implements json.Marshaler.
func (m *Modifier) MarshalJSON() ([]byte, error) {
	obj, err := m.Encode()
	if err != nil {
		return nil, err
	}
	return encodeJSON(obj)
}

// UnmarshalJSON implements json.Unmarshaler using the default registry.
func (m *Modifier) UnmarshalJSON(data []byte) error {
	parsed, err := ParseModifier(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// ParseModifier decodes a modifier from JSON text with the default registry.
func ParseModifier(data []byte) (*Modifier, error) {
	obj, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	return DecodeModifier(Default(), obj)
}

// DecodeModifier builds a modifier from its JSON object. "factor" defaults
// to 1; every other property is decoded through r as a root condition.
func DecodeModifier(r *Registry, obj Object) (*Modifier, error) {
	m := &Modifier{Factor: 1, Condition: NewAnd()}
	hasFactor := false

	for _, p := range obj {
		if p.Name == KeyFactor {
			if hasFactor {
				return nil, fmt.Errorf("%w: duplicate %q", types.ErrStructural, KeyFactor)
			}
			f, ok := numberOf(p.Value)
			if !ok {
				return nil, fmt.Errorf("%w: %s: expected number, got %s", types.ErrStructural, KeyFactor, kindOf(p.Value))
			}
			m.Factor = f
			hasFactor = true
			continue
		}

		n, err := r.Decode(p)
		if err != nil {
			return nil, err
		}
		m.Condition.Add(n)
	}

	if d := Depth(m.Condition); d > types.MaxTreeDepth {
		return nil, fmt.Errorf("%w: depth %d, limit %d", types.ErrTreeTooDeep, d, types.MaxTreeDepth)
	}
	return m, nil
}
