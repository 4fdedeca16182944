// Package parser implements the recursive-descent parser for the RPAL
// grammar of spec §6. It builds AST nodes directly via the recursive call
// chain, which already yields children in left-to-right order without
// needing the scratch-stack-then-reverse trick a token-driven, iterative
// parser would use to restore ordering — recursive descent's call stack
// plays that role implicitly. Grounded in shape (a Parser struct wrapping
// a token cursor, one method per grammar production) on the teacher's
// internal/parser package.
package parser

import (
	"github.com/rpalvm/rpal/internal/lexer"
	"github.com/rpalvm/rpal/internal/rpalerr"
	"github.com/rpalvm/rpal/internal/tree"
)

// Parser consumes a token stream and builds an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source string
}

// Parse tokenizes source and parses a complete RPAL program, returning its
// AST root.
func Parse(source string) (*tree.Node, error) {
	toks, err := lexer.New(source).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: toks, source: source}
	root, err := p.parseE()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input after expression")
	}
	return root, nil
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *Parser) atEOF() bool       { return p.cur().Type == lexer.EOF }
func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(format string, args ...any) *rpalerr.Error {
	t := p.cur()
	return rpalerr.At(rpalerr.Parse, rpalerr.Position{Line: t.Line, Column: t.Column}, p.source, "", format, args...)
}

func (p *Parser) isKeyword(name string) bool {
	t := p.cur()
	return t.Type == lexer.Ident && t.Literal == name
}

func (p *Parser) isOp(lit string) bool {
	t := p.cur()
	return t.Type == lexer.Op && t.Literal == lit
}

func (p *Parser) expectOp(lit string) error {
	if !p.isOp(lit) {
		return p.errorf("expected %q, got %q", lit, p.cur().Literal)
	}
	p.advance()
	return nil
}

func (p *Parser) expectKeyword(name string) error {
	if !p.isKeyword(name) {
		return p.errorf("expected %q, got %q", name, p.cur().Literal)
	}
	p.advance()
	return nil
}

var reservedWords = map[string]bool{
	"let": true, "in": true, "fn": true, "where": true, "within": true,
	"and": true, "rec": true, "true": true, "false": true, "nil": true,
	"dummy": true, "or": true, "aug": true, "eq": true, "ne": true,
	"gr": true, "ge": true, "ls": true, "le": true, "not": true,
}

func (p *Parser) isIdentifier() bool {
	t := p.cur()
	return t.Type == lexer.Ident && !reservedWords[t.Literal]
}

// ---- E level ----

func (p *Parser) parseE() (*tree.Node, error) {
	switch {
	case p.isKeyword("let"):
		p.advance()
		d, err := p.parseD()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		e, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("let", d, e), nil

	case p.isKeyword("fn"):
		p.advance()
		var params []*tree.Node
		for !p.isOp(".") {
			v, err := p.parseVb()
			if err != nil {
				return nil, err
			}
			params = append(params, v)
		}
		if len(params) == 0 {
			return nil, p.errorf("'fn' requires at least one parameter")
		}
		if err := p.expectOp("."); err != nil {
			return nil, err
		}
		body, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("lambda", append(params, body)...), nil

	default:
		return p.parseEw()
	}
}

func (p *Parser) parseEw() (*tree.Node, error) {
	t, err := p.parseT()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("where") {
		p.advance()
		dr, err := p.parseDr()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("where", t, dr), nil
	}
	return t, nil
}

func (p *Parser) parseT() (*tree.Node, error) {
	first, err := p.parseTa()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		return first, nil
	}
	elems := []*tree.Node{first}
	for p.isOp(",") {
		p.advance()
		next, err := p.parseTa()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	return tree.NewInternal("tau", elems...), nil
}

func (p *Parser) parseTa() (*tree.Node, error) {
	left, err := p.parseTc()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("aug") {
		p.advance()
		right, err := p.parseTc()
		if err != nil {
			return nil, err
		}
		left = tree.NewInternal("aug", left, right)
	}
	return left, nil
}

func (p *Parser) parseTc() (*tree.Node, error) {
	cond, err := p.parseB()
	if err != nil {
		return nil, err
	}
	if !p.isOp("->") {
		return cond, nil
	}
	p.advance()
	then, err := p.parseTc()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("|"); err != nil {
		return nil, err
	}
	els, err := p.parseTc()
	if err != nil {
		return nil, err
	}
	return tree.NewInternal("->", cond, then, els), nil
}

func (p *Parser) parseB() (*tree.Node, error) {
	left, err := p.parseBt()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.advance()
		right, err := p.parseBt()
		if err != nil {
			return nil, err
		}
		left = tree.NewInternal("or", left, right)
	}
	return left, nil
}

func (p *Parser) parseBt() (*tree.Node, error) {
	left, err := p.parseBs()
	if err != nil {
		return nil, err
	}
	for p.isOp("&") {
		p.advance()
		right, err := p.parseBs()
		if err != nil {
			return nil, err
		}
		left = tree.NewInternal("&", left, right)
	}
	return left, nil
}

func (p *Parser) parseBs() (*tree.Node, error) {
	if p.isKeyword("not") {
		p.advance()
		operand, err := p.parseBp()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("not", operand), nil
	}
	return p.parseBp()
}

var relOps = map[string]string{
	"gr": "gr", ">": "gr", "ge": "ge", ">=": "ge",
	"ls": "ls", "<": "ls", "le": "le", "<=": "le",
	"eq": "eq", "=": "eq", "ne": "ne", "!=": "ne",
}

func (p *Parser) relOp() (string, bool) {
	t := p.cur()
	var lit string
	switch t.Type {
	case lexer.Ident:
		lit = t.Literal
	case lexer.Op:
		lit = t.Literal
	default:
		return "", false
	}
	canon, ok := relOps[lit]
	return canon, ok
}

func (p *Parser) parseBp() (*tree.Node, error) {
	left, err := p.parseA()
	if err != nil {
		return nil, err
	}
	if canon, ok := p.relOp(); ok {
		p.advance()
		right, err := p.parseA()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal(canon, left, right), nil
	}
	return left, nil
}

func (p *Parser) parseA() (*tree.Node, error) {
	var left *tree.Node
	var err error
	switch {
	case p.isOp("+"):
		p.advance()
		left, err = p.parseAt()
	case p.isOp("-"):
		p.advance()
		left, err = p.parseAt()
		if err == nil {
			left = tree.NewInternal("neg", left)
		}
	default:
		left, err = p.parseAt()
	}
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.advance().Literal
		right, err := p.parseAt()
		if err != nil {
			return nil, err
		}
		left = tree.NewInternal(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseAt() (*tree.Node, error) {
	left, err := p.parseAf()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.advance().Literal
		right, err := p.parseAf()
		if err != nil {
			return nil, err
		}
		left = tree.NewInternal(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseAf() (*tree.Node, error) {
	left, err := p.parseAp()
	if err != nil {
		return nil, err
	}
	if p.isOp("**") {
		p.advance()
		right, err := p.parseAf()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("**", left, right), nil
	}
	return left, nil
}

func (p *Parser) parseAp() (*tree.Node, error) {
	left, err := p.parseR()
	if err != nil {
		return nil, err
	}
	for p.isOp("@") {
		p.advance()
		if !p.isIdentifier() {
			return nil, p.errorf("expected identifier after '@'")
		}
		name := p.advance()
		right, err := p.parseR()
		if err != nil {
			return nil, err
		}
		left = tree.NewInternal("@", left, tree.NewLeaf("identifier", name.Literal), right)
	}
	return left, nil
}

func (p *Parser) startsRn() bool {
	t := p.cur()
	switch t.Type {
	case lexer.Int, lexer.Str:
		return true
	case lexer.Ident:
		switch t.Literal {
		case "true", "false", "nil", "dummy":
			return true
		}
		return !reservedWords[t.Literal]
	case lexer.Op:
		return t.Literal == "("
	}
	return false
}

func (p *Parser) parseR() (*tree.Node, error) {
	left, err := p.parseRn()
	if err != nil {
		return nil, err
	}
	for p.startsRn() {
		right, err := p.parseRn()
		if err != nil {
			return nil, err
		}
		left = tree.NewInternal("gamma", left, right)
	}
	return left, nil
}

func (p *Parser) parseRn() (*tree.Node, error) {
	t := p.cur()
	switch {
	case t.Type == lexer.Int:
		p.advance()
		return tree.NewLeaf("integer", t.Literal), nil
	case t.Type == lexer.Str:
		p.advance()
		return tree.NewLeaf("string", t.Literal), nil
	case t.Type == lexer.Ident && t.Literal == "true":
		p.advance()
		return tree.NewLeaf("true", ""), nil
	case t.Type == lexer.Ident && t.Literal == "false":
		p.advance()
		return tree.NewLeaf("false", ""), nil
	case t.Type == lexer.Ident && t.Literal == "nil":
		p.advance()
		return tree.NewLeaf("nil", ""), nil
	case t.Type == lexer.Ident && t.Literal == "dummy":
		p.advance()
		return tree.NewLeaf("dummy", ""), nil
	case t.Type == lexer.Ident:
		p.advance()
		return tree.NewLeaf("identifier", t.Literal), nil
	case t.Type == lexer.Op && t.Literal == "(":
		p.advance()
		e, err := p.parseE()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf("unexpected token %q", t.Literal)
	}
}

// ---- D level ----

func (p *Parser) parseD() (*tree.Node, error) {
	left, err := p.parseDa()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("within") {
		p.advance()
		right, err := p.parseD()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("within", left, right), nil
	}
	return left, nil
}

func (p *Parser) parseDa() (*tree.Node, error) {
	first, err := p.parseDr()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("and") {
		return first, nil
	}
	defs := []*tree.Node{first}
	for p.isKeyword("and") {
		p.advance()
		next, err := p.parseDr()
		if err != nil {
			return nil, err
		}
		defs = append(defs, next)
	}
	return tree.NewInternal("and", defs...), nil
}

func (p *Parser) parseDr() (*tree.Node, error) {
	if p.isKeyword("rec") {
		p.advance()
		db, err := p.parseDb()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("rec", db), nil
	}
	return p.parseDb()
}

func (p *Parser) parseDb() (*tree.Node, error) {
	if p.isOp("(") {
		p.advance()
		d, err := p.parseD()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return d, nil
	}

	if !p.isIdentifier() {
		return nil, p.errorf("expected identifier or '(' in definition")
	}
	name := p.advance().Literal

	if p.isOp(",") {
		names := []*tree.Node{tree.NewLeaf("identifier", name)}
		for p.isOp(",") {
			p.advance()
			if !p.isIdentifier() {
				return nil, p.errorf("expected identifier after ','")
			}
			names = append(names, tree.NewLeaf("identifier", p.advance().Literal))
		}
		if err := p.expectOp("="); err != nil {
			return nil, err
		}
		e, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return tree.NewInternal("=", tree.NewInternal(",", names...), e), nil
	}

	var params []*tree.Node
	for !p.isOp("=") {
		v, err := p.parseVb()
		if err != nil {
			return nil, err
		}
		params = append(params, v)
	}
	p.advance() // consume '='
	e, err := p.parseE()
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return tree.NewInternal("=", tree.NewLeaf("identifier", name), e), nil
	}
	children := append([]*tree.Node{tree.NewLeaf("identifier", name)}, params...)
	children = append(children, e)
	return tree.NewInternal("fcn_form", children...), nil
}

func (p *Parser) parseVb() (*tree.Node, error) {
	if p.isIdentifier() {
		return tree.NewLeaf("identifier", p.advance().Literal), nil
	}
	if p.isOp("(") {
		p.advance()
		if p.isOp(")") {
			p.advance()
			return tree.NewLeaf("()", ""), nil
		}
		if !p.isIdentifier() {
			return nil, p.errorf("expected identifier in parameter tuple")
		}
		names := []*tree.Node{tree.NewLeaf("identifier", p.advance().Literal)}
		for p.isOp(",") {
			p.advance()
			if !p.isIdentifier() {
				return nil, p.errorf("expected identifier after ',' in parameter tuple")
			}
			names = append(names, tree.NewLeaf("identifier", p.advance().Literal))
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return tree.NewInternal(",", names...), nil
	}
	return nil, p.errorf("expected a parameter")
}
