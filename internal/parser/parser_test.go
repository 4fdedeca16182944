package parser

import "testing"

func TestParseArithmeticPrecedence(t *testing.T) {
	ast, err := Parse("3 + 4 * 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// '*' binds tighter than '+', so the root operator must be '+'.
	if ast.Label != "+" {
		t.Fatalf("got root label %q, want %q (%s)", ast.Label, "+", ast.String())
	}
}

func TestParseLetIn(t *testing.T) {
	ast, err := Parse("let x = 1 in x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.Label != "let" || ast.Arity() != 2 {
		t.Fatalf("got %s, want a 2-child let node", ast.String())
	}
}

func TestParseTuple(t *testing.T) {
	ast, err := Parse("(1, 2, 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.Label != "tau" || ast.Arity() != 3 {
		t.Fatalf("got %s, want a 3-element tau node", ast.String())
	}
}

func TestParseConditional(t *testing.T) {
	ast, err := Parse("(5 gr 3) -> 1 | 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.Label != "->" || ast.Arity() != 3 {
		t.Fatalf("got %s, want a 3-child -> node", ast.String())
	}
}

func TestParseApplicationLeftAssociative(t *testing.T) {
	ast, err := Parse("f a b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// f a b == gamma(gamma(f, a), b)
	if ast.Label != "gamma" || ast.Arity() != 2 {
		t.Fatalf("got %s, want outer gamma(gamma(f,a),b)", ast.String())
	}
	inner := ast.Children[0]
	if inner.Label != "gamma" {
		t.Fatalf("got %s, want inner gamma node as left child", inner.String())
	}
}

func TestParseAtInfix(t *testing.T) {
	ast, err := Parse("a @f b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.Label != "@" || ast.Arity() != 3 {
		t.Fatalf("got %s, want a 3-child @ node", ast.String())
	}
}

func TestParseRecDefinition(t *testing.T) {
	ast, err := Parse("let rec f n = n in f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.Label != "let" {
		t.Fatalf("got %s, want let node", ast.String())
	}
	def := ast.Children[0]
	if def.Label != "rec" {
		t.Fatalf("got %s, want rec node as the binding", def.String())
	}
}

func TestParseAndSimultaneousDefinitions(t *testing.T) {
	ast, err := Parse("let a = 1 and b = 2 in a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := ast.Children[0]
	if def.Label != "and" || def.Arity() != 2 {
		t.Fatalf("got %s, want a 2-child and node", def.String())
	}
}

func TestParseNiladicParam(t *testing.T) {
	ast, err := Parse("let f () = 1 in f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := ast.Children[0]
	if def.Label != "fcn_form" {
		t.Fatalf("got %s, want fcn_form node", def.String())
	}
	var foundNiladic bool
	for _, c := range def.Children {
		if c.IsLeaf && c.Label == "()" {
			foundNiladic = true
		}
	}
	if !foundNiladic {
		t.Fatalf("expected a '()' leaf parameter in %s", def.String())
	}
}

func TestParseInvalidSyntax(t *testing.T) {
	if _, err := Parse("let x = in x"); err == nil {
		t.Fatal("expected a parse error for malformed let binding")
	}
}

func TestParseTrueFalseNilDummy(t *testing.T) {
	for _, lit := range []string{"true", "false", "nil", "dummy"} {
		ast, err := Parse(lit)
		if err != nil {
			t.Fatalf("parsing %q: unexpected error: %v", lit, err)
		}
		if ast.Label != lit {
			t.Errorf("parsing %q: got label %q", lit, ast.Label)
		}
	}
}
