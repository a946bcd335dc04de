// internal/rules/chance.go
package rules

import (
	"fmt"

	"github.com/solatis/chancekeeper/internal/types"
)

/*
 * Chance evaluation.
 *
 * effective = Base * product(m.Factor for each modifier m that applies)
 *
 * Modifiers are evaluated in list order and every modifier is evaluated (no
 * short-circuit), so Result.Applied reports one entry per modifier. The first
 * modifier error aborts evaluation.
 *
 * JSON form:
 *   {"factor": <base>, "modifiers": [<modifier>, ...]}
 * Both keys are optional on input ("factor" defaults to 1). Unknown top-level
 * keys are ignored so definitions can carry annotations.
 */

// Chance is a base factor adjusted by conditional modifiers.
type Chance struct {
	Base      float64
	Modifiers []*Modifier
}

// New returns a chance with the given base factor and modifiers.
func New(base float64, modifiers ...*Modifier) *Chance {
	return &Chance{Base: base, Modifiers: modifiers}
}

// Result is the outcome of evaluating a chance.
type Result struct {
	Factor  float64
	Applied []bool // per modifier, in order
}

// AppliedCount returns how many modifiers applied.
func (r Result) AppliedCount() int {
	n := 0
	for _, ok := range r.Applied {
		if ok {
			n++
		}
	}
	return n
}

// Evaluate computes the effective factor for ctx.
func (c *Chance) Evaluate(ctx types.Context) (Result, error) {
	result := Result{
		Factor:  c.Base,
		Applied: make([]bool, len(c.Modifiers)),
	}

	for i, m := range c.Modifiers {
		if m == nil {
			continue
		}
		ok, err := m.Evaluate(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("modifier %d: %w", i, err)
		}
		if ok {
			result.Factor *= m.Factor
			result.Applied[i] = true
		}
	}
	return result, nil
}

// Factor returns the effective factor for ctx.
func (c *Chance) Factor(ctx types.Context) (float64, error) {
	result, err := c.Evaluate(ctx)
	if err != nil {
		return 0, err
	}
	return result.Factor, nil
}

// Encode returns the chance's JSON object.
func (c *Chance) Encode() (Object, error) {
	if err := checkFinite(KeyFactor, c.Base); err != nil {
		return nil, err
	}
	modifiers := make(Array, 0, len(c.Modifiers))
	for i, m := range c.Modifiers {
		if m == nil {
			continue
		}
		obj, err := m.Encode()
		if err != nil {
			return nil, fmt.Errorf("modifier %d: %w", i, err)
		}
		modifiers = append(modifiers, obj)
	}
	return Object{
		{Name: KeyFactor, Value: c.Base},
		{Name: KeyModifiers, Value: modifiers},
	}, nil
}

// MarshalJSON implements json.Marshaler.
func (c *Chance) MarshalJSON() ([]byte, error) {
	obj, err := c.Encode()
	if err != nil {
		return nil, err
	}
	return encodeJSON(obj)
}

// UnmarshalJSON implements json.Unmarshaler using the default registry.
func (c *Chance) UnmarshalJSON(data []byte) error {
	parsed, err := ParseChance(data)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// ParseChance decodes a chance from JSON text with the default registry.
func ParseChance(data []byte) (*Chance, error) {
	return Default().ParseChance(data)
}

// ParseChance decodes a chance from JSON text.
func (r *Registry) ParseChance(data []byte) (*Chance, error) {
	obj, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	return DecodeChance(r, obj)
}

// ParseChanceYAML decodes a chance from YAML text with the default registry.
func ParseChanceYAML(data []byte) (*Chance, error) {
	v, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: expected a mapping, got %s", types.ErrStructural, kindOf(v))
	}
	return DecodeChance(Default(), obj)
}

// DecodeChance builds a chance from its JSON object.
func DecodeChance(r *Registry, obj Object) (*Chance, error) {
	c := &Chance{Base: 1}
	hasFactor, hasModifiers := false, false

	for _, p := range obj {
		switch p.Name {
		case KeyFactor:
			if hasFactor {
				return nil, fmt.Errorf("%w: duplicate %q", types.ErrStructural, KeyFactor)
			}
			f, ok := numberOf(p.Value)
			if !ok {
				return nil, fmt.Errorf("%w: %s: expected number, got %s", types.ErrStructural, KeyFactor, kindOf(p.Value))
			}
			c.Base = f
			hasFactor = true

		case KeyModifiers:
			if hasModifiers {
				return nil, fmt.Errorf("%w: duplicate %q", types.ErrStructural, KeyModifiers)
			}
			mods, err := decodeModifiers(r, p.Value)
			if err != nil {
				return nil, err
			}
			c.Modifiers = mods
			hasModifiers = true
		}
	}
	return c, nil
}

func decodeModifiers(r *Registry, v any) ([]*Modifier, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected array, got %s", types.ErrStructural, KeyModifiers, kindOf(v))
	}
	if len(arr) > types.MaxModifiers {
		return nil, fmt.Errorf("%w: %d modifiers, limit %d", types.ErrTooManyModifiers, len(arr), types.MaxModifiers)
	}

	mods := make([]*Modifier, 0, len(arr))
	for i, elem := range arr {
		obj, ok := elem.(Object)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d]: expected object, got %s", types.ErrStructural, KeyModifiers, i, kindOf(elem))
		}
		m, err := DecodeModifier(r, obj)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", KeyModifiers, i, err)
		}
		mods = append(mods, m)
	}
	return mods, nil
}
