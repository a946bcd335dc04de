// internal/rules/coercion.go
package rules

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/solatis/chancekeeper/internal/types"
)

/*
 * Type coercion for condition evaluation.
 *
 * Context values arrive from several producers: Go callers pass native
 * numerics, JSON decoders pass float64 or json.Number, and the control API
 * can carry numeric strings. Each leaf picks how strict it is:
 *
 *   - BoolEquals: bool only. Anything else is "not met".
 *   - ApproxEquals: numbers only (native or json.Number). Anything else is
 *     "not met".
 *   - MoreThan / LessThan: strict numeric coercion. Numbers and trimmed
 *     numeric strings convert; booleans and other strings are a coercion
 *     failure and surface as ErrCoercionFailed.
 *
 * Null and missing values are never coercion failures; they are "not met".
 */

// lookup fetches a context value, treating explicit nil as missing.
func lookup(ctx types.Context, name string) (any, bool) {
	v, ok := ctx[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// coerceNumeric converts value to float64 for numeric comparison.
// Accepts Go numerics, json.Number and numeric strings. Rejects booleans.
// Whitespace-only strings return ErrCoercionFailed.
func coerceNumeric(value any) (float64, error) {
	if f, ok := toFloat64(value); ok {
		return f, nil
	}

	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, types.ErrCoercionFailed
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, types.ErrCoercionFailed
		}
		return f, nil
	default:
		return 0, types.ErrCoercionFailed
	}
}

// toFloat64 converts Go numeric types and json.Number to float64.
// Booleans and strings are not numbers.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
