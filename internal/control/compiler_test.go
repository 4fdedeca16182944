package control

import (
	"testing"

	"github.com/rpalvm/rpal/internal/parser"
	"github.com/rpalvm/rpal/internal/standardize"
)

func compileSource(t *testing.T, src string) *Family {
	t.Helper()
	ast, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st, err := standardize.Standardize(ast)
	if err != nil {
		t.Fatalf("standardize: %v", err)
	}
	family, err := Compile(st)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return family
}

func TestCompileSimpleArithmetic(t *testing.T) {
	family := compileSource(t, "3 + 4")
	cs0 := family.Get(0)
	if len(cs0) != 3 {
		t.Fatalf("CS[0] = %v, want 3 instructions (two leaves + an op)", cs0)
	}
	if cs0[0].Op != OpBinOp || cs0[0].Name != "+" {
		t.Fatalf("first instruction = %v, want a '+' OpBinOp", cs0[0])
	}
}

func TestCompileLambdaAllocatesNewControlStructure(t *testing.T) {
	family := compileSource(t, "let x = 1 in x")
	if family.Len() < 2 {
		t.Fatalf("expected at least 2 control structures for a let-binding, got %d", family.Len())
	}
	var foundLambda bool
	for _, in := range family.Get(0) {
		if in.Op == OpLambda {
			foundLambda = true
			if in.CSIndex <= 0 || in.CSIndex >= family.Len() {
				t.Fatalf("lambda body index %d out of range [1,%d)", in.CSIndex, family.Len())
			}
		}
	}
	if !foundLambda {
		t.Fatalf("CS[0] = %v, want a Lambda instruction", family.Get(0))
	}
}

func TestCompileConditionalEmitsTwoDeltasAndBeta(t *testing.T) {
	family := compileSource(t, "(1 gr 0) -> 1 | 2")
	cs0 := family.Get(0)

	var deltas, betas int
	for _, in := range cs0 {
		switch in.Op {
		case OpDelta:
			deltas++
		case OpBeta:
			betas++
		}
	}
	if deltas != 2 || betas != 1 {
		t.Fatalf("CS[0] = %v, want exactly 2 Delta and 1 Beta", cs0)
	}
}

func TestCompileNiladicParam(t *testing.T) {
	family := compileSource(t, "let f () = 1 in f")
	var found bool
	for _, in := range family.Get(0) {
		if in.Op == OpLambda && len(in.Params) == 1 && in.Params[0] == "()" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a niladic-marker Lambda instruction, got %v", family.Get(0))
	}
}
