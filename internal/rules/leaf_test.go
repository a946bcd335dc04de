package rules

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/chancekeeper/internal/types"
)

func TestBoolEquals_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
		ctx      types.Context
		want     bool
	}{
		{"match true", true, types.Context{"is_night": true}, true},
		{"match false", false, types.Context{"is_night": false}, true},
		{"mismatch", true, types.Context{"is_night": false}, false},
		{"missing key", true, types.Context{}, false},
		{"null value", false, types.Context{"is_night": nil}, false},
		{"non-bool value", true, types.Context{"is_night": 1}, false},
		{"string value", true, types.Context{"is_night": "true"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBoolEquals("is_night", tt.expected).Evaluate(tt.ctx)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApproxEquals_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		expected float64
		value    any
		want     bool
	}{
		{"int equals float", 100.0, 100, true},
		{"float equals float", 100.0, 100.0, true},
		{"int64", 100.0, int64(100), true},
		{"json.Number", 100.0, json.Number("100"), true},
		{"within tolerance", 1.0, 1.0 + 1e-15, true},
		{"large magnitude relative tolerance", 1e20, 1e20 + 1e5, true},
		{"outside tolerance", 1.0, 1.0001, false},
		{"different", 100.0, 99, false},
		{"bool not numeric", 1.0, true, false},
		{"string not numeric", 5.0, "5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewApproxEquals("hp", tt.expected).Evaluate(types.Context{"hp": tt.value})
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}

	got, err := NewApproxEquals("hp", 1).Evaluate(types.Context{})
	if err != nil || got {
		t.Errorf("Evaluate() on missing key = %v, %v, want false, nil", got, err)
	}
}

func TestComparison_Evaluate(t *testing.T) {
	tests := []struct {
		name  string
		node  Node
		value any
		want  bool
	}{
		{"more_than above", NewMoreThan("level", 10), 11, true},
		{"more_than equal", NewMoreThan("level", 10), 10, false},
		{"more_than below", NewMoreThan("level", 10), 9, false},
		{"less_than below", NewLessThan("level", 10), 9, true},
		{"less_than equal", NewLessThan("level", 10), 10, false},
		{"less_than above", NewLessThan("level", 10), 11, false},
		{"more_than float", NewMoreThan("level", 10), 10.5, true},
		{"more_than numeric string", NewMoreThan("level", 10), " 12 ", true},
		{"less_than json.Number", NewLessThan("level", 10), json.Number("9.99"), true},
		{"null is not met", NewMoreThan("level", -1), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.Evaluate(types.Context{"level": tt.value})
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparison_MissingKeyNotMet(t *testing.T) {
	for _, n := range []Node{NewMoreThan("level", 0), NewLessThan("level", 0)} {
		got, err := n.Evaluate(types.Context{"other": 1})
		if err != nil || got {
			t.Errorf("%T.Evaluate() = %v, %v, want false, nil", n, got, err)
		}
	}
}

func TestComparison_CoercionFailure(t *testing.T) {
	for _, value := range []any{true, "abc", ""} {
		_, err := NewMoreThan("level", 1).Evaluate(types.Context{"level": value})
		if !errors.Is(err, types.ErrCoercionFailed) {
			t.Errorf("Evaluate(%v) error = %v, want ErrCoercionFailed", value, err)
		}
		_, err = NewLessThan("level", 1).Evaluate(types.Context{"level": value})
		if !errors.Is(err, types.ErrCoercionFailed) {
			t.Errorf("LessThan.Evaluate(%v) error = %v, want ErrCoercionFailed", value, err)
		}
	}
}

func TestLeaf_NamesNormalized(t *testing.T) {
	leaves := []Leaf{
		NewBoolEquals("IsNight", true),
		NewApproxEquals("IsNight", 1),
		NewMoreThan("IsNight", 1),
		NewLessThan("IsNight", 1),
	}
	for _, l := range leaves {
		if l.ConditionName() != "is_night" {
			t.Errorf("%T.ConditionName() = %q, want is_night", l, l.ConditionName())
		}
	}
}

func TestLeaf_Encode(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"bool", NewBoolEquals("a", true), `{"a":true}`},
		{"approx", NewApproxEquals("b", 5), `{"b":5}`},
		{"approx fraction", NewApproxEquals("b", 0.25), `{"b":0.25}`},
		{"more_than", NewMoreThan("level", 10), `{"more_than":{"level":10}}`},
		{"less_than", NewLessThan("level", -2.5), `{"less_than":{"level":-2.5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalNode(tt.node)
			if err != nil {
				t.Fatalf("MarshalNode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalNode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLeaf_EncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		node Node
	}{
		{"empty bool name", &BoolEquals{}},
		{"empty approx name", &ApproxEquals{Expected: 1}},
		{"empty comparison name", &MoreThan{Threshold: 1}},
		{"NaN expected", &ApproxEquals{Name: "x", Expected: nan()}},
		{"Inf threshold", &LessThan{Name: "x", Threshold: inf()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.node.Encode(); !errors.Is(err, types.ErrSerialization) {
				t.Errorf("Encode() error = %v, want ErrSerialization", err)
			}
		})
	}
}

// Property-based test: comparisons agree with float ordering
func TestComparison_PropertyOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("more_than and less_than match native ordering", prop.ForAll(
		func(actual, threshold int) bool {
			ctx := types.Context{"x": actual}
			more, err1 := NewMoreThan("x", float64(threshold)).Evaluate(ctx)
			less, err2 := NewLessThan("x", float64(threshold)).Evaluate(ctx)
			if err1 != nil || err2 != nil {
				return false
			}
			return more == (actual > threshold) && less == (actual < threshold)
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.Property("approx equals is reflexive across int and float", prop.ForAll(
		func(v int) bool {
			ok, err := NewApproxEquals("x", float64(v)).Evaluate(types.Context{"x": v})
			return err == nil && ok
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func nan() float64 { return math.NaN() }

func inf() float64 { return math.Inf(1) }
