package rules

import (
	"fmt"
	"testing"
)

func sampleTree() Node {
	return NewAnd(
		NewBoolEquals("is_night", true),
		NewOr(
			NewMoreThan("level", 10),
			NewNot(NewApproxEquals("hp", 0), NewLessThan("level", 2)),
		),
	)
}

func TestWalk_PreOrder(t *testing.T) {
	var visited []string
	Walk(sampleTree(), func(n Node) bool {
		visited = append(visited, fmt.Sprintf("%T", n))
		return true
	})

	want := "[*rules.And *rules.BoolEquals *rules.Or *rules.MoreThan *rules.Not *rules.ApproxEquals *rules.LessThan]"
	if got := fmt.Sprint(visited); got != want {
		t.Errorf("Walk() order = %s, want %s", got, want)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	count := 0
	Walk(sampleTree(), func(n Node) bool {
		count++
		_, isOr := n.(*Or)
		return !isOr
	})
	if count != 3 {
		t.Errorf("Walk() visited %d nodes, want 3", count)
	}

	Walk(nil, func(Node) bool {
		t.Error("Walk(nil) called fn")
		return true
	})
}

func TestDepth(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"nil", nil, 0},
		{"leaf", NewBoolEquals("a", true), 1},
		{"empty container", NewAnd(), 1},
		{"sample", sampleTree(), 4},
	}

	for _, tt := range tests {
		if got := Depth(tt.node); got != tt.want {
			t.Errorf("Depth(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestConditionNames(t *testing.T) {
	got := ConditionNames(sampleTree())
	if want := "[hp is_night level]"; fmt.Sprint(got) != want {
		t.Errorf("ConditionNames() = %v, want %v", got, want)
	}
	if got := ConditionNames(NewOr()); len(got) != 0 {
		t.Errorf("ConditionNames(empty) = %v, want empty", got)
	}
}

func TestChance_Introspection(t *testing.T) {
	c := New(1,
		&Modifier{Factor: 2, Condition: sampleTree().(*And)},
		NewModifier(3, NewBoolEquals("is_raining", false)),
		nil,
	)

	if got := fmt.Sprint(c.ConditionNames()); got != "[hp is_night is_raining level]" {
		t.Errorf("ConditionNames() = %s", got)
	}
	if got := c.Depth(); got != 4 {
		t.Errorf("Depth() = %d, want 4", got)
	}
}

func TestNodeCost(t *testing.T) {
	boolCost := CostLookup + CostBoolEquals*MultiplierBool
	approxCost := CostLookup + CostApproxEquals*MultiplierFloat
	compareCost := CostLookup + CostCompare*MultiplierFloat

	tests := []struct {
		name string
		node Node
		want int
	}{
		{"nil", nil, 0},
		{"bool", NewBoolEquals("a", true), boolCost},
		{"approx", NewApproxEquals("a", 1), approxCost},
		{"more_than", NewMoreThan("a", 1), compareCost},
		{"less_than", NewLessThan("a", 1), compareCost},
		{"empty and", NewAnd(), CostContainer},
		{"sample", sampleTree(), 3*CostContainer + boolCost + 2*compareCost + approxCost},
	}

	for _, tt := range tests {
		if got := NodeCost(tt.node); got != tt.want {
			t.Errorf("NodeCost(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestChance_Cost(t *testing.T) {
	c := New(1,
		NewModifier(2, NewBoolEquals("a", true)),
		NewModifier(2, NewMoreThan("b", 1)),
	)
	want := 2*CostContainer + (CostLookup + CostBoolEquals*MultiplierBool) + (CostLookup + CostCompare*MultiplierFloat)
	if got := c.Cost(); got != want {
		t.Errorf("Cost() = %d, want %d", got, want)
	}
	if got := New(1).Cost(); got != 0 {
		t.Errorf("Cost() of chance without modifiers = %d, want 0", got)
	}
}
