package cse_test

import (
	"bytes"
	"testing"

	"github.com/rpalvm/rpal/internal/control"
	"github.com/rpalvm/rpal/internal/cse"
	"github.com/rpalvm/rpal/internal/parser"
	"github.com/rpalvm/rpal/internal/standardize"
)

// runProgram runs a full RPAL source program through every stage and
// returns captured stdout (whatever Print wrote).
func runProgram(t *testing.T, src string) string {
	t.Helper()
	ast, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	st, err := standardize.Standardize(ast)
	if err != nil {
		t.Fatalf("standardize %q: %v", src, err)
	}
	family, err := control.Compile(st)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	var buf bytes.Buffer
	machine := cse.New(family, &buf)
	if _, err := machine.Run(); err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return buf.String()
}

func TestEndToEndArithmetic(t *testing.T) {
	got := runProgram(t, "let x = 3 + 4 * 2 in Print x")
	if got != "11" {
		t.Errorf("got %q, want %q", got, "11")
	}
}

func TestEndToEndRecursion(t *testing.T) {
	got := runProgram(t, "let rec f n = n eq 0 -> 1 | n * f (n-1) in Print (f 5)")
	if got != "120" {
		t.Errorf("got %q, want %q", got, "120")
	}
}

func TestEndToEndTupleIndexing(t *testing.T) {
	got := runProgram(t, "let t = (10, 20, 30) in Print (t 2)")
	if got != "20" {
		t.Errorf("got %q, want %q", got, "20")
	}
}

func TestEndToEndHigherOrder(t *testing.T) {
	got := runProgram(t, "let twice f x = f (f x) in Print (twice (fn x. x+1) 5)")
	if got != "7" {
		t.Errorf("got %q, want %q", got, "7")
	}
}

func TestEndToEndConditional(t *testing.T) {
	got := runProgram(t, "Print ((5 gr 3) -> 'yes' | 'no')")
	if got != "yes" {
		t.Errorf("got %q, want %q", got, "yes")
	}
}

func TestEndToEndSimultaneousDefinitions(t *testing.T) {
	got := runProgram(t, "let a = 1 and b = 2 in Print (a + b)")
	if got != "3" {
		t.Errorf("got %q, want %q", got, "3")
	}
}

func TestOrderAndIsemptyAndIstupleLaws(t *testing.T) {
	if got := runProgram(t, "Print (Order nil)"); got != "0" {
		t.Errorf("Order nil: got %q, want %q", got, "0")
	}
	if got := runProgram(t, "Print (Isempty nil)"); got != "true" {
		t.Errorf("Isempty nil: got %q, want %q", got, "true")
	}
	if got := runProgram(t, "Print (Istuple (1, 2))"); got != "true" {
		t.Errorf("Istuple (1,2): got %q, want %q", got, "true")
	}
}

func TestStemSternConcLaw(t *testing.T) {
	// Stem s ^ Stern s = s for non-empty strings s, with ^ being Conc.
	got := runProgram(t, "let s = 'hello' in Print (Conc (Stem s) (Stern s))")
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestEqComparesByPrintedValue(t *testing.T) {
	// Int 1 eq Bool true compares "1" against "true" textually: false.
	// The literal true compiles to Int 1, so the Bool comes from (1 eq 1).
	got := runProgram(t, "Print (1 eq (1 eq 1))")
	if got != "false" {
		t.Errorf("got %q, want %q", got, "false")
	}
}

func TestTupleIndexZeroIsRejected(t *testing.T) {
	_, err := func() (string, error) {
		ast, err := parser.Parse("let t = (10, 20) in t 0")
		if err != nil {
			return "", err
		}
		st, err := standardize.Standardize(ast)
		if err != nil {
			return "", err
		}
		family, err := control.Compile(st)
		if err != nil {
			return "", err
		}
		machine := cse.New(family, &bytes.Buffer{})
		_, err = machine.Run()
		return "", err
	}()
	if err == nil {
		t.Fatal("expected a domain error rejecting tuple index 0")
	}
}

func TestAugLengthensTupleByOne(t *testing.T) {
	got := runProgram(t, "Print ((1, 2) aug 3)")
	if got != "(1, 2, 3)" {
		t.Errorf("got %q, want %q", got, "(1, 2, 3)")
	}
}
