package standardize

import (
	"strings"
	"testing"

	"github.com/rpalvm/rpal/internal/parser"
)

func standardizeSource(t *testing.T, src string) string {
	t.Helper()
	ast, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	st, err := Standardize(ast)
	if err != nil {
		t.Fatalf("standardizing %q: %v", src, err)
	}
	return st.String()
}

func TestStandardizeLet(t *testing.T) {
	got := standardizeSource(t, "let x = 1 in x")
	// let x = e in body  =>  gamma(lambda(x, body), e)
	if !containsAll(got, "gamma", "lambda") {
		t.Fatalf("got %s, want a gamma(lambda(...), ...) shape", got)
	}
}

func TestStandardizeRec(t *testing.T) {
	got := standardizeSource(t, "let rec f n = n in f")
	if !containsAll(got, "gamma", "Y*", "lambda") {
		t.Fatalf("got %s, want the rec rewrite to mention Y* and lambda", got)
	}
}

func TestStandardizeAnd(t *testing.T) {
	got := standardizeSource(t, "let a = 1 and b = 2 in a")
	if !containsAll(got, "tau") {
		t.Fatalf("got %s, want the and rewrite to produce a tau of values", got)
	}
}

func TestStandardizeWithin(t *testing.T) {
	got := standardizeSource(t, "let a = 1 within b = a in b")
	if !containsAll(got, "gamma", "lambda") {
		t.Fatalf("got %s, want the within rewrite to produce gamma(lambda(...), ...)", got)
	}
}

func TestStandardizeFcnForm(t *testing.T) {
	got := standardizeSource(t, "let f x y = x + y in f")
	if !containsAll(got, "lambda") {
		t.Fatalf("got %s, want curried lambdas from the fcn_form rewrite", got)
	}
}

func TestStandardizeIsIdempotent(t *testing.T) {
	ast, err := parser.Parse("let rec f n = n eq 0 -> 1 | n * f (n-1) in f 5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	once, err := Standardize(ast)
	if err != nil {
		t.Fatalf("first standardize: %v", err)
	}
	twice, err := Standardize(once.Clone())
	if err != nil {
		t.Fatalf("second standardize: %v", err)
	}
	if once.String() != twice.String() {
		t.Fatalf("standardization was not idempotent:\nfirst:  %s\nsecond: %s", once.String(), twice.String())
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
