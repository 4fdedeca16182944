// Package object implements the Object kind: the closed sum of values that
// flow across the value stack of the CSE machine. It follows the same
// tagged-struct-plus-accessors idiom the teacher uses for its own runtime
// Value type (Data interface{} + Type tag, with Is*/As* accessors) rather
// than a Go interface-per-kind hierarchy, since the kind set is closed and
// small.
package object

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the payload carried by an Object.
type Kind int

const (
	KindInt Kind = iota
	KindStr
	KindBool
	KindTuple
	KindLambda
	KindIdent
	KindDummy
	KindEnvMarker
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindStr:
		return "string"
	case KindBool:
		return "bool"
	case KindTuple:
		return "tuple"
	case KindLambda:
		return "lambda"
	case KindIdent:
		return "identifier"
	case KindDummy:
		return "dummy"
	case KindEnvMarker:
		return "env-marker"
	default:
		return "unknown"
	}
}

// LambdaKind distinguishes an ordinary closure from its Eta (self-applying)
// form, used by the Y*/Eta trampoline that implements recursion.
type LambdaKind int

const (
	LambdaPlain LambdaKind = iota
	LambdaEta
)

// Closure is the payload of a KindLambda Object.
type Closure struct {
	// Params is either a single name (len==1) or an ordered list of names
	// for tuple-destructuring lambdas (arity > 1).
	Params []string
	CSIndex int
	EnvID   int
	Kind    LambdaKind
}

// Object is a single tagged value. Exactly one field group is meaningful,
// selected by Kind.
type Object struct {
	Kind Kind

	i int64
	s string
	b bool

	tuple []Object

	lambda Closure

	envID int
}

func NewInt(i int64) Object    { return Object{Kind: KindInt, i: i} }
func NewStr(s string) Object   { return Object{Kind: KindStr, s: s} }
func NewBool(b bool) Object    { return Object{Kind: KindBool, b: b} }
func NewDummy() Object         { return Object{Kind: KindDummy} }
func NewIdent(name string) Object { return Object{Kind: KindIdent, s: name} }

func NewTuple(elems []Object) Object {
	if elems == nil {
		elems = []Object{}
	}
	return Object{Kind: KindTuple, tuple: elems}
}

func NewLambda(c Closure) Object {
	return Object{Kind: KindLambda, lambda: c}
}

func NewEnvMarker(id int) Object { return Object{Kind: KindEnvMarker, envID: id} }

func (o Object) IsInt() bool       { return o.Kind == KindInt }
func (o Object) IsStr() bool       { return o.Kind == KindStr }
func (o Object) IsBool() bool      { return o.Kind == KindBool }
func (o Object) IsTuple() bool     { return o.Kind == KindTuple }
func (o Object) IsLambda() bool    { return o.Kind == KindLambda }
func (o Object) IsIdent() bool     { return o.Kind == KindIdent }
func (o Object) IsDummy() bool     { return o.Kind == KindDummy }
func (o Object) IsEnvMarker() bool { return o.Kind == KindEnvMarker }

func (o Object) Int() int64 {
	if o.Kind != KindInt {
		panic("object: not an integer: " + o.Kind.String())
	}
	return o.i
}

func (o Object) Str() string {
	switch o.Kind {
	case KindStr, KindIdent:
		return o.s
	default:
		panic("object: not a string: " + o.Kind.String())
	}
}

func (o Object) Bool() bool {
	if o.Kind != KindBool {
		panic("object: not a bool: " + o.Kind.String())
	}
	return o.b
}

func (o Object) Tuple() []Object {
	if o.Kind != KindTuple {
		panic("object: not a tuple: " + o.Kind.String())
	}
	return o.tuple
}

func (o Object) Closure() Closure {
	if o.Kind != KindLambda {
		panic("object: not a lambda: " + o.Kind.String())
	}
	return o.lambda
}

func (o Object) EnvMarkerID() int {
	if o.Kind != KindEnvMarker {
		panic("object: not an env marker: " + o.Kind.String())
	}
	return o.envID
}

// Truthy implements the spec's truthiness rule: Bool true, or any non-zero
// integer; the literals true/false are themselves compiled to integers 1/0,
// so both representations must compare equal here.
func (o Object) Truthy() bool {
	switch o.Kind {
	case KindBool:
		return o.b
	case KindInt:
		return o.i != 0
	default:
		return false
	}
}

// PrintString renders an Object using the RPAL Print format (§6): literal
// values for Int/Str/Bool/Dummy, a bracketed closure description, and
// recursive tuple printing with no trailing comma. It also backs eq/ne
// comparison, which the spec intentionally defines as "compare printed
// value" rather than structural equality — e.g. Int 1 eq Bool true is
// false because "1" != "true".
func (o Object) PrintString() string {
	switch o.Kind {
	case KindInt:
		return strconv.FormatInt(o.i, 10)
	case KindStr:
		return o.s
	case KindBool:
		if o.b {
			return "true"
		}
		return "false"
	case KindDummy:
		return "dummy"
	case KindIdent:
		return o.s
	case KindTuple:
		parts := make([]string, len(o.tuple))
		for i, e := range o.tuple {
			parts[i] = e.PrintString()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindLambda:
		c := o.lambda
		name := "lambda"
		if len(c.Params) > 0 {
			name = c.Params[0]
		}
		return fmt.Sprintf("[lambda closure: %s: %d]", name, c.CSIndex)
	default:
		return ""
	}
}
