// Package replshell implements the interactive REPL started by `rpal
// repl`. It follows the teacher pack's readline-driven REPL shape (the
// launix-de-memcp scm package's Repl function): a persistent prompt loop,
// a recover-to-diagnostic wrapper around each evaluated line so one bad
// line never kills the session, and a distinct prompt glyph for the
// printed result.
//
// RPAL's grammar has no top-level statement form — every program is a
// single 'E' expression — so "persistent bindings across lines" is a REPL
// convenience layered on top of the grammar, not a grammar feature: a line
// of the form "name := expr" stores expr's AST under name and evaluates it
// once; later lines see every such binding nested as an enclosing 'let'
// around their own expression, so normal RPAL scoping (not some REPL-only
// backdoor) is what makes earlier bindings visible.
package replshell

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/rpalvm/rpal/internal/control"
	"github.com/rpalvm/rpal/internal/cse"
	"github.com/rpalvm/rpal/internal/parser"
	"github.com/rpalvm/rpal/internal/standardize"
	"github.com/rpalvm/rpal/internal/tree"
)

const (
	prompt       = "\033[32mrpal> \033[0m"
	resultPrefix = "\033[31m= \033[0m"
)

// binding is one persisted "name := expr" definition.
type binding struct {
	name string
	expr *tree.Node
}

// Run starts the interactive loop, reading from stdin and writing prompts
// and results to out.
func Run(out io.Writer) error {
	sessionID := uuid.NewString()[:8]

	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("replshell: %w", err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	fmt.Fprintf(out, "rpal repl [session %s] — Ctrl-D to exit\n", sessionID)

	var bindings []binding
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		evalLine(out, &bindings, line)
	}
}

func evalLine(out io.Writer, bindings *[]binding, line string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(out, "panic: %v\n%s\n", r, debug.Stack())
		}
	}()

	name, rhsSrc, isDef := strings.Cut(line, ":=")
	var exprSrc string
	var bindName string
	if isDef {
		bindName = strings.TrimSpace(name)
		exprSrc = strings.TrimSpace(rhsSrc)
	} else {
		exprSrc = line
	}

	exprAST, err := parser.Parse(exprSrc)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return
	}

	program := wrap(*bindings, exprAST)

	val, ok := run(out, program)
	if !ok {
		return
	}

	fmt.Fprint(out, resultPrefix)
	fmt.Fprintln(out, val)

	if isDef {
		*bindings = append(*bindings, binding{name: bindName, expr: exprAST})
	}
}

// wrap nests expr inside a 'let name = expr in ...' for every persisted
// binding, outermost-first, so expr is evaluated in a scope where every
// earlier binding is visible exactly as ordinary RPAL lexical scoping
// would make it visible.
func wrap(bindings []binding, expr *tree.Node) *tree.Node {
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		eq := tree.NewInternal("=", tree.NewLeaf("identifier", b.name), b.expr.Clone())
		expr = tree.NewInternal("let", eq, expr)
	}
	return expr
}

func run(out io.Writer, ast *tree.Node) (string, bool) {
	st, err := standardize.Standardize(ast)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return "", false
	}
	family, err := control.Compile(st)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return "", false
	}
	machine := cse.New(family, out)
	val, err := machine.Run()
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return "", false
	}
	return val.PrintString(), true
}
