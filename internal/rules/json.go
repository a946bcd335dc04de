// internal/rules/json.go
package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/solatis/chancekeeper/internal/types"
)

/*
 * Order-preserving JSON model for the condition codec.
 *
 * Condition trees are authored as JSON objects whose property order is
 * meaningful to humans and to the collision-aware encoder, and whose property
 * names may legitimately repeat (two "more_than" siblings). map[string]any
 * loses both, so decoding walks the document with gjson, which yields object
 * members in document order including duplicates.
 *
 * Value domain:
 *   - Object: ordered []Property
 *   - Array:  []any
 *   - bool, string, nil
 *   - json.Number for numbers read from text (keeps integer vs float shape)
 *   - float64 and other Go numerics for values produced by Encode
 *
 * Encoding goes the other way through Object.MarshalJSON, delegating scalars
 * to encoding/json so NaN and Inf surface as marshal errors.
 */

// Property is one name/value member of a JSON object.
type Property struct {
	Name  string
	Value any
}

// Object is a JSON object whose members keep document order.
type Object []Property

// Array is a JSON array.
type Array []any

// Get returns the value of the first member named name.
func (o Object) Get(name string) (any, bool) {
	for _, p := range o {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes members in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes "[]" for an empty array instead of null.
func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// ParseJSON decodes JSON text into the ordered model.
func ParseJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", types.ErrStructural)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseObject decodes JSON text that must be an object.
func ParseObject(data []byte) (Object, error) {
	v, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", types.ErrStructural, kindOf(v))
	}
	return obj, nil
}

// fromResult converts a gjson result recursively.
func fromResult(r gjson.Result) any {
	switch {
	case r.IsObject():
		obj := Object{}
		r.ForEach(func(key, value gjson.Result) bool {
			obj = append(obj, Property{Name: key.String(), Value: fromResult(value)})
			return true
		})
		return obj
	case r.IsArray():
		arr := Array{}
		r.ForEach(func(_, value gjson.Result) bool {
			arr = append(arr, fromResult(value))
			return true
		})
		return arr
	}

	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return json.Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return r.Str
	default:
		return nil
	}
}

// encodeJSON marshals v, wrapping failures in ErrSerialization.
func encodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return data, nil
}

// Shape classifies a JSON scalar for shape-based dispatch.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeBool
	ShapeInt
	ShapeFloat
)

func (s Shape) String() string {
	switch s {
	case ShapeBool:
		return "bool"
	case ShapeInt:
		return "integer"
	case ShapeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// ShapeOf returns the dispatch shape of a model value.
// Returns ShapeUnknown for strings, null, objects and arrays.
func ShapeOf(v any) Shape {
	switch n := v.(type) {
	case bool:
		return ShapeBool
	case json.Number:
		if strings.ContainsAny(string(n), ".eE") {
			return ShapeFloat
		}
		return ShapeInt
	case float64, float32:
		return ShapeFloat
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ShapeInt
	default:
		return ShapeUnknown
	}
}

// checkFinite rejects values JSON cannot represent.
func checkFinite(what string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %s is %v", types.ErrSerialization, what, f)
	}
	return nil
}

// kindOf names the JSON kind of a model value for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case Object:
		return "object"
	case Array:
		return "array"
	case nil:
		return "null"
	case string:
		return "string"
	}
	if s := ShapeOf(v); s != ShapeUnknown {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}
