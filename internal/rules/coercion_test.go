package rules

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/solatis/chancekeeper/internal/types"
)

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantValue float64
		wantErr   error
	}{
		{name: "float64 passthrough", value: 42.5, wantValue: 42.5},
		{name: "int to float64", value: 100, wantValue: 100},
		{name: "int64 to float64", value: int64(999), wantValue: 999},
		{name: "uint8 to float64", value: uint8(7), wantValue: 7},
		{name: "float32 to float64", value: float32(0.5), wantValue: 0.5},
		{name: "json.Number integer", value: json.Number("12"), wantValue: 12},
		{name: "json.Number decimal", value: json.Number("1.25"), wantValue: 1.25},
		{name: "numeric string", value: "25", wantValue: 25},
		{name: "string with whitespace", value: "  42  ", wantValue: 42},
		{name: "negative string", value: "-100", wantValue: -100},
		{name: "scientific notation", value: "1e10", wantValue: 1e10},
		{name: "bool rejected", value: true, wantErr: types.ErrCoercionFailed},
		{name: "empty string", value: "", wantErr: types.ErrCoercionFailed},
		{name: "whitespace only", value: "   ", wantErr: types.ErrCoercionFailed},
		{name: "invalid mixed string", value: "123abc", wantErr: types.ErrCoercionFailed},
		{name: "multiple decimals", value: "1.2.3", wantErr: types.ErrCoercionFailed},
		{name: "slice rejected", value: []any{1}, wantErr: types.ErrCoercionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceNumeric(tt.value)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("coerceNumeric() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerceNumeric() unexpected error = %v", err)
			}
			if got != tt.wantValue {
				t.Errorf("coerceNumeric() = %v, want %v", got, tt.wantValue)
			}
		})
	}
}

func TestCoerceNumeric_SpecialStrings(t *testing.T) {
	got, err := coerceNumeric("NaN")
	if err != nil || !math.IsNaN(got) {
		t.Errorf("coerceNumeric(NaN) = %v, %v, want NaN", got, err)
	}
	got, err = coerceNumeric("-Inf")
	if err != nil || !math.IsInf(got, -1) {
		t.Errorf("coerceNumeric(-Inf) = %v, %v, want -Inf", got, err)
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"int32", int32(-3), -3, true},
		{"uint64", uint64(10), 10, true},
		{"json.Number", json.Number("2.5"), 2.5, true},
		{"bad json.Number", json.Number("x"), 0, false},
		{"bool", false, 0, false},
		{"string", "1", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toFloat64(tt.value)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("toFloat64(%v) = %v, %v, want %v, %v", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLookup_NilIsMissing(t *testing.T) {
	ctx := types.Context{"present": 1, "null": nil}
	if _, ok := lookup(ctx, "present"); !ok {
		t.Error("lookup(present) ok = false, want true")
	}
	if _, ok := lookup(ctx, "null"); ok {
		t.Error("lookup(null) ok = true, want false")
	}
	if _, ok := lookup(ctx, "absent"); ok {
		t.Error("lookup(absent) ok = true, want false")
	}
	if _, ok := lookup(nil, "absent"); ok {
		t.Error("lookup on nil context ok = true, want false")
	}
}
