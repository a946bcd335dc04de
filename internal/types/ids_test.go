package types

import (
	"testing"
	"time"
)

func TestNewChanceID(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewChanceID()

	if len(id) != 36 {
		t.Fatalf("NewChanceID() = %q, want canonical UUID", id)
	}
	if ts := ChanceIDTime(id); ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("ChanceIDTime() = %v, want about now", ts)
	}
	if NewChanceID() == id {
		t.Error("NewChanceID() returned a duplicate")
	}
}

func TestChanceIDTime_Invalid(t *testing.T) {
	if ts := ChanceIDTime("not-a-uuid"); !ts.IsZero() {
		t.Errorf("ChanceIDTime(invalid) = %v, want zero", ts)
	}
}
