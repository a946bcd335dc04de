// internal/rules/decode.go
package rules

import (
	"fmt"
	"math"

	"github.com/solatis/chancekeeper/internal/naming"
	"github.com/solatis/chancekeeper/internal/types"
)

/*
 * Built-in factories and the decode helpers extensions reuse.
 *
 * Accepted shapes:
 *   - container: {"and": {<prop>...}} or {"and": [{<prop>...}, ...]}
 *     Each array element is an object with exactly one property.
 *   - comparison: {"more_than": {"id": n}} or {"more_than": [{"id": n}]}
 *     Exactly one nested property with a numeric value.
 *   - plain leaf: {"id": true} or {"id": n}
 *
 * Any other shape is ErrStructural. Errors carry the property path and abort
 * the whole parse; no partial trees are returned.
 */

// DecodeChildren decodes the children of a container property.
func DecodeChildren(r *Registry, p Property) ([]Node, error) {
	switch v := p.Value.(type) {
	case Object:
		children := make([]Node, 0, len(v))
		for _, cp := range v {
			n, err := r.Decode(cp)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, err)
			}
			children = append(children, n)
		}
		return children, nil

	case Array:
		children := make([]Node, 0, len(v))
		for i, elem := range v {
			obj, ok := elem.(Object)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d]: expected object, got %s",
					types.ErrStructural, p.Name, i, kindOf(elem))
			}
			if len(obj) != 1 {
				return nil, fmt.Errorf("%w: %s[%d]: expected exactly one property, got %d",
					types.ErrStructural, p.Name, i, len(obj))
			}
			n, err := r.Decode(obj[0])
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", p.Name, i, err)
			}
			children = append(children, n)
		}
		return children, nil

	default:
		return nil, fmt.Errorf("%w: %s: expected object or array, got %s",
			types.ErrStructural, p.Name, kindOf(p.Value))
	}
}

// DecodeComparison extracts the condition name and numeric operand of an
// operator-wrapped comparison property.
func DecodeComparison(p Property) (string, float64, error) {
	var inner Object
	switch v := p.Value.(type) {
	case Object:
		inner = v
	case Array:
		if len(v) == 1 {
			inner, _ = v[0].(Object)
		}
	default:
		return "", 0, fmt.Errorf("%w: %s: expected object or array, got %s",
			types.ErrStructural, p.Name, kindOf(p.Value))
	}

	if len(inner) != 1 {
		return "", 0, fmt.Errorf("%w: %s: expected exactly one condition", types.ErrStructural, p.Name)
	}

	cond := inner[0]
	name := naming.Key(cond.Name)
	if name == "" {
		return "", 0, fmt.Errorf("%w: %s: empty condition name", types.ErrStructural, p.Name)
	}
	value, ok := numberOf(cond.Value)
	if !ok {
		return "", 0, fmt.Errorf("%w: %s.%s: expected number, got %s",
			types.ErrStructural, p.Name, cond.Name, kindOf(cond.Value))
	}
	return name, value, nil
}

// numberOf returns the value of a decoded JSON number. Non-finite values,
// which YAML can express, are rejected.
func numberOf(v any) (float64, bool) {
	f, ok := toFloat64(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decodeLeafName normalizes and validates a plain leaf's property name.
func decodeLeafName(p Property) (string, error) {
	name := naming.Key(p.Name)
	if name == "" {
		return "", fmt.Errorf("%w: empty condition name", types.ErrStructural)
	}
	return name, nil
}

func decodeAnd(r *Registry, p Property) (Node, error) {
	children, err := DecodeChildren(r, p)
	if err != nil {
		return nil, err
	}
	return NewAnd(children...), nil
}

func decodeOr(r *Registry, p Property) (Node, error) {
	children, err := DecodeChildren(r, p)
	if err != nil {
		return nil, err
	}
	return NewOr(children...), nil
}

func decodeNot(r *Registry, p Property) (Node, error) {
	children, err := DecodeChildren(r, p)
	if err != nil {
		return nil, err
	}
	return NewNot(children...), nil
}

func decodeMoreThan(_ *Registry, p Property) (Node, error) {
	name, threshold, err := DecodeComparison(p)
	if err != nil {
		return nil, err
	}
	return &MoreThan{Name: name, Threshold: threshold}, nil
}

func decodeLessThan(_ *Registry, p Property) (Node, error) {
	name, threshold, err := DecodeComparison(p)
	if err != nil {
		return nil, err
	}
	return &LessThan{Name: name, Threshold: threshold}, nil
}

func decodeBoolEquals(_ *Registry, p Property) (Node, error) {
	expected, ok := p.Value.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected bool, got %s", types.ErrStructural, p.Name, kindOf(p.Value))
	}
	name, err := decodeLeafName(p)
	if err != nil {
		return nil, err
	}
	return &BoolEquals{Name: name, Expected: expected}, nil
}

func decodeApproxEquals(_ *Registry, p Property) (Node, error) {
	expected, ok := numberOf(p.Value)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected number, got %s", types.ErrStructural, p.Name, kindOf(p.Value))
	}
	name, err := decodeLeafName(p)
	if err != nil {
		return nil, err
	}
	return &ApproxEquals{Name: name, Expected: expected}, nil
}
