package control

import (
	"github.com/rpalvm/rpal/internal/rpalerr"
	"github.com/rpalvm/rpal/internal/tree"
)

// Compiler walks a standardized tree and emits a Family, following the
// emission rules of spec.md §4.3. It is grounded on the teacher's
// Compiler/Compile shape (a small struct holding compile-time state plus a
// Compile entry point), but a standardized RPAL tree needs no local-slot
// bookkeeping — the only state is the family being built.
type Compiler struct {
	family *Family
}

// NewCompiler creates a compiler with a fresh, empty Family (CS[0]
// allocated).
func NewCompiler() *Compiler {
	return &Compiler{family: NewFamily()}
}

// Compile compiles the ST rooted at root into CS[0..k] and returns the
// resulting Family; CS[0] is the program entry.
func Compile(root *tree.Node) (*Family, error) {
	c := NewCompiler()
	if err := c.compileInto(0, root); err != nil {
		return nil, err
	}
	return c.family, nil
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "**": true, "aug": true,
	"eq": true, "ne": true, "gr": true, "ge": true, "ls": true, "le": true,
	"or": true, "&": true,
}

var unaryOps = map[string]bool{"neg": true, "not": true}

func (c *Compiler) compileInto(csIndex int, n *tree.Node) error {
	if n == nil {
		return rpalerr.New(rpalerr.Compile, "nil node while compiling CS[%d]", csIndex)
	}

	if n.IsLeaf {
		switch n.Label {
		case "integer":
			var v int64
			if _, err := parseInt(n.Value, &v); err != nil {
				return rpalerr.New(rpalerr.Compile, "malformed integer literal %q", n.Value)
			}
			c.family.Emit(csIndex, Int(v))
		case "string":
			c.family.Emit(csIndex, Str(n.Value))
		case "identifier":
			c.family.Emit(csIndex, Ident(n.Value))
		case "true":
			c.family.Emit(csIndex, Int(1))
		case "false":
			c.family.Emit(csIndex, Int(0))
		case "nil":
			c.family.Emit(csIndex, Tau(0))
		case "dummy":
			c.family.Emit(csIndex, Ident("dummy"))
		default:
			return rpalerr.New(rpalerr.Compile, "unknown leaf label %q", n.Label)
		}
		return nil
	}

	switch n.Label {
	case "lambda":
		return c.compileLambda(csIndex, n)
	case "tau":
		c.family.Emit(csIndex, Tau(len(n.Children)))
		for _, child := range n.Children {
			if err := c.compileInto(csIndex, child); err != nil {
				return err
			}
		}
		return nil
	case "->":
		return c.compileConditional(csIndex, n)
	case "gamma":
		if len(n.Children) != 2 {
			return rpalerr.New(rpalerr.Compile, "gamma requires 2 children, got %d", len(n.Children))
		}
		c.family.Emit(csIndex, Gamma())
		if err := c.compileInto(csIndex, n.Children[0]); err != nil {
			return err
		}
		return c.compileInto(csIndex, n.Children[1])
	default:
		if binaryOps[n.Label] || unaryOps[n.Label] {
			c.family.Emit(csIndex, BinOp(n.Label))
			for _, child := range n.Children {
				if err := c.compileInto(csIndex, child); err != nil {
					return err
				}
			}
			return nil
		}
		return rpalerr.New(rpalerr.Compile, "unknown node label %q encountered while compiling", n.Label)
	}
}

// compileLambda handles both single-identifier and tuple-destructuring
// parameter lists — a ","-list of identifiers is left as-is by the
// standardizer and is a single lambda of arity > 1, not a curried chain.
func (c *Compiler) compileLambda(csIndex int, n *tree.Node) error {
	if len(n.Children) != 2 {
		return rpalerr.New(rpalerr.Compile, "lambda requires 2 children, got %d", len(n.Children))
	}
	params, err := paramNames(n.Children[0])
	if err != nil {
		return err
	}
	body := n.Children[1]

	bodyIndex := c.family.Alloc()
	c.family.Emit(csIndex, Lambda(bodyIndex, params))
	return c.compileInto(bodyIndex, body)
}

func paramNames(p *tree.Node) ([]string, error) {
	if p.IsLeaf && p.Label == "identifier" {
		return []string{p.Value}, nil
	}
	if p.IsLeaf && p.Label == "()" {
		return []string{"()"}, nil
	}
	if !p.IsLeaf && p.Label == "," {
		names := make([]string, len(p.Children))
		for i, c := range p.Children {
			if !c.IsLeaf || c.Label != "identifier" {
				return nil, rpalerr.New(rpalerr.Compile, "lambda tuple parameter must be an identifier, got %q", c.Label)
			}
			names[i] = c.Value
		}
		return names, nil
	}
	return nil, rpalerr.New(rpalerr.Compile, "lambda parameter must be an identifier or identifier tuple, got %q", p.Label)
}

// compileConditional implements the §4.3 rule for "->(cond, then, else)":
// allocate two fresh indices t, e; emit Delta(t), Delta(e), Beta (in that
// textual order) into c; compile then into CS[t], else into CS[e]; finally
// compile cond into c.
func (c *Compiler) compileConditional(csIndex int, n *tree.Node) error {
	if len(n.Children) != 3 {
		return rpalerr.New(rpalerr.Compile, "-> requires 3 children, got %d", len(n.Children))
	}
	cond, then, els := n.Children[0], n.Children[1], n.Children[2]

	t := c.family.Alloc()
	e := c.family.Alloc()
	c.family.Emit(csIndex, Delta(t))
	c.family.Emit(csIndex, Delta(e))
	c.family.Emit(csIndex, Beta())

	if err := c.compileInto(t, then); err != nil {
		return err
	}
	if err := c.compileInto(e, els); err != nil {
		return err
	}
	return c.compileInto(csIndex, cond)
}

// parseInt is a tiny local wrapper so compiler.go doesn't need to import
// strconv just for one call site in a hot path; kept as a named helper for
// symmetry with the lexer's own number scanning.
func parseInt(s string, out *int64) (int, error) {
	var v int64
	neg := false
	i := 0
	if len(s) > 0 && s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, rpalerr.New(rpalerr.Compile, "empty integer literal")
	}
	for ; i < len(s); i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return 0, rpalerr.New(rpalerr.Compile, "invalid digit in integer literal %q", s)
		}
		v = v*10 + int64(d-'0')
	}
	if neg {
		v = -v
	}
	*out = v
	return len(s), nil
}
