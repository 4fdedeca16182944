package object

import "testing"

func TestTruthyTreatsIntegerZeroOneAsBooleans(t *testing.T) {
	// true/false are compiled to the integers 1/0, so every predicate must
	// treat both representations as interchangeable.
	if !NewInt(1).Truthy() {
		t.Error("NewInt(1) should be truthy")
	}
	if NewInt(0).Truthy() {
		t.Error("NewInt(0) should be falsy")
	}
	if !NewBool(true).Truthy() {
		t.Error("NewBool(true) should be truthy")
	}
}

func TestPrintStringTuple(t *testing.T) {
	tup := NewTuple([]Object{NewInt(1), NewInt(2), NewInt(3)})
	got := tup.PrintString()
	want := "(1, 2, 3)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintStringEmptyTuple(t *testing.T) {
	got := NewTuple(nil).PrintString()
	if got != "()" {
		t.Errorf("got %q, want %q", got, "()")
	}
}

func TestEqComparesPrintedValueNotKind(t *testing.T) {
	// Int 1 eq Bool true evaluates to false: "1" != "true".
	a := NewInt(1).PrintString()
	b := NewBool(true).PrintString()
	if a == b {
		t.Errorf("printed forms unexpectedly equal: %q == %q", a, b)
	}
}

func TestAccessorsPanicOnWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Int() to panic on a non-integer Object")
		}
	}()
	NewStr("x").Int()
}
