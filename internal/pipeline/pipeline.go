// Package pipeline wires the four core stages — parse, standardize,
// compile, evaluate — into the single entry point the CLI and REPL both
// call, mirroring the teacher's run command doing lex->parse->analyze->
// interpret inline rather than exposing each stage as its own public API.
package pipeline

import (
	"io"

	"github.com/rpalvm/rpal/internal/control"
	"github.com/rpalvm/rpal/internal/cse"
	"github.com/rpalvm/rpal/internal/object"
	"github.com/rpalvm/rpal/internal/parser"
	"github.com/rpalvm/rpal/internal/standardize"
	"github.com/rpalvm/rpal/internal/tree"
)

// Result carries the intermediate artifacts of a run, so callers that
// want -dump-ast / -dump-st / disassembly can inspect them without
// re-running earlier stages.
type Result struct {
	AST    *tree.Node
	ST     *tree.Node
	Family *control.Family
	Value  object.Object
}

// Options controls which stages actually execute.
type Options struct {
	// Evaluate, when false, stops after compilation (used by `rpal disasm`).
	Evaluate bool
	Out      io.Writer
	Tracer   cse.Tracer
}

// Run parses, standardizes, compiles, and (unless opts.Evaluate is false)
// evaluates source, returning every intermediate artifact produced.
func Run(source string, opts Options) (*Result, error) {
	ast, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	st, err := standardize.Standardize(ast)
	if err != nil {
		return &Result{AST: ast}, err
	}

	family, err := control.Compile(st)
	if err != nil {
		return &Result{AST: ast, ST: st}, err
	}

	result := &Result{AST: ast, ST: st, Family: family}
	if !opts.Evaluate {
		return result, nil
	}

	machine := cse.New(family, opts.Out)
	machine.SetTracer(opts.Tracer)
	val, err := machine.Run()
	if err != nil {
		return result, err
	}
	result.Value = val
	io.WriteString(opts.Out, "\n")
	return result, nil
}
