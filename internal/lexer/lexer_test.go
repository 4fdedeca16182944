package lexer

import "testing"

func TestTokenizeBasic(t *testing.T) {
	toks, err := New("let x = 3 + 4 in Print x").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"let", "x", "=", "3", "+", "4", "in", "Print", "x"}
	if len(toks) != len(want)+1 { // +1 for the trailing EOF token
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want)+1, toks)
	}
	for i, lit := range want {
		if toks[i].Literal != lit {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Literal, lit)
		}
	}
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	toks, err := New("a ** b >= c <= d != e").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := []string{"**", ">=", "<="}
	var got []string
	for _, tok := range toks {
		if tok.Type == Op {
			got = append(got, tok.Literal)
		}
	}
	if len(got) < 3 {
		t.Fatalf("expected at least 3 operators, got %v", got)
	}
	for i, op := range ops {
		if got[i] != op {
			t.Errorf("operator %d: got %q, want %q", i, got[i], op)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := New(`'hello\n\tworld'`).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) < 1 || toks[0].Type != Str {
		t.Fatalf("expected a single string token, got %+v", toks)
	}
	want := "hello\n\tworld"
	if toks[0].Literal != want {
		t.Errorf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := New(`'unterminated`).Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestTokenizeStripsShebang(t *testing.T) {
	toks, err := New("#!/usr/bin/env rpal\nPrint 1").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) == 0 || toks[0].Literal != "Print" {
		t.Fatalf("expected shebang line to be stripped, got %+v", toks)
	}
}

func TestTokenizeLineComment(t *testing.T) {
	toks, err := New("Print 1 // trailing comment\n").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Type == Ident && tok.Literal == "trailing" {
			t.Fatalf("comment was not skipped: %+v", toks)
		}
	}
}
