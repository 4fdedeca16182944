// Package cse implements the Control-Stack-Environment machine: the
// fetch-execute loop that consumes a compiled control.Family and produces
// program output. It mirrors the teacher's vm_core/vm_stack split (a
// small Machine struct owning two stacks plus a dispatch loop driven by an
// instruction tag switch) adapted to the CSE machine's three-part state
// (control, stack, environment) instead of a flat bytecode+registers VM.
package cse

import (
	"fmt"
	"io"

	"github.com/rpalvm/rpal/internal/control"
	"github.com/rpalvm/rpal/internal/envstore"
	"github.com/rpalvm/rpal/internal/object"
	"github.com/rpalvm/rpal/internal/rpalerr"
)

// Machine holds the full mutable state of one evaluation: the control
// list C, the value stack S, the environment stack, and the backing
// environment store.
type Machine struct {
	family *control.Family
	store  *envstore.Store

	c []control.Instr
	s []object.Object

	envStack []int

	out    io.Writer
	tracer Tracer
}

// Tracer receives one callback per evaluator step; internal/trace.Tracer
// satisfies this.
type Tracer interface {
	Step(ctrlKind string, stackDepth, envID int)
}

// New creates a machine ready to evaluate family, writing Print output to
// out.
func New(family *control.Family, out io.Writer) *Machine {
	return &Machine{
		family: family,
		store:  envstore.NewStore(),
		out:    out,
	}
}

// SetTracer attaches a step tracer; pass nil to disable tracing.
func (m *Machine) SetTracer(t Tracer) { m.tracer = t }

// Run evaluates CS[0] to completion and returns the final value.
//
// C is modeled as a slice used purely as a stack (append = push, trim-tail
// = pop), and a control structure's instructions are appended to C in
// their emitted order with no reversal: because the compiler always emits
// a node's own instruction before its children's, the last-appended (and
// therefore first-popped) instructions are always the most deeply nested
// ones, which is exactly the order needed for operands to be evaluated
// before the operator that consumes them.
func (m *Machine) Run() (object.Object, error) {
	rootEnv := m.store.RootID()
	m.pushControlMarker(rootEnv)
	m.s = append(m.s, object.NewEnvMarker(rootEnv))
	m.envStack = append(m.envStack, rootEnv)
	m.c = append(m.c, m.family.Get(0)...)

	for {
		top := m.c[len(m.c)-1]
		if top.Op == control.OpEnvMarker && top.EnvID == rootEnv {
			break
		}
		instr := m.pop()
		if m.tracer != nil {
			m.tracer.Step(instr.Op.String(), len(m.s), m.currentEnv())
		}
		if err := m.step(instr); err != nil {
			return object.Object{}, err
		}
	}

	if len(m.s) == 0 {
		return object.Object{}, rpalerr.New(rpalerr.Domain, "evaluation finished with no value on the stack")
	}
	return m.s[len(m.s)-1], nil
}

func (m *Machine) pushControlMarker(id int) {
	m.c = append(m.c, control.EnvMarker(id))
}

func (m *Machine) pop() control.Instr {
	n := len(m.c) - 1
	in := m.c[n]
	m.c = m.c[:n]
	return in
}

func (m *Machine) popVal() (object.Object, error) {
	if len(m.s) == 0 {
		return object.Object{}, rpalerr.New(rpalerr.Domain, "value stack underflow")
	}
	n := len(m.s) - 1
	v := m.s[n]
	m.s = m.s[:n]
	return v, nil
}

func (m *Machine) pushVal(v object.Object) { m.s = append(m.s, v) }

func (m *Machine) currentEnv() int { return m.envStack[len(m.envStack)-1] }

func (m *Machine) step(in control.Instr) error {
	switch in.Op {
	case control.OpInt:
		m.pushVal(object.NewInt(in.IntVal))
	case control.OpStr:
		m.pushVal(object.NewStr(in.StrVal))
	case control.OpIdent:
		return m.stepIdent(in.StrVal)
	case control.OpLambda:
		m.pushVal(object.NewLambda(object.Closure{
			Params:  in.Params,
			CSIndex: in.CSIndex,
			EnvID:   m.currentEnv(),
			Kind:    object.LambdaPlain,
		}))
	case control.OpGamma:
		return m.stepGamma()
	case control.OpEnvMarker:
		return m.stepEnvMarker(in.EnvID)
	case control.OpBinOp:
		return m.stepOp(in.Name)
	case control.OpTau:
		return m.stepTau(in.Arity)
	case control.OpBeta:
		return m.stepBeta()
	case control.OpDelta:
		return rpalerr.New(rpalerr.Compile, "internal error: Delta CS[%d] executed outside of Beta", in.Target)
	default:
		return rpalerr.New(rpalerr.Compile, "internal error: unhandled instruction %v", in)
	}
	return nil
}

func (m *Machine) stepIdent(name string) error {
	switch name {
	case "nil":
		m.pushVal(object.NewTuple(nil))
		return nil
	case "dummy":
		m.pushVal(object.NewDummy())
		return nil
	}
	if isBuiltin(name) {
		m.pushVal(object.NewIdent(name))
		return nil
	}
	v, err := m.store.Lookup(m.currentEnv(), name)
	if err != nil {
		return err
	}
	m.pushVal(v)
	return nil
}

func (m *Machine) stepEnvMarker(id int) error {
	v, err := m.popVal()
	if err != nil {
		return err
	}
	if v.IsEnvMarker() && v.EnvMarkerID() == id {
		// The scope left no value of its own (e.g. its body ended in Print).
		m.envStack = m.envStack[:len(m.envStack)-1]
		return nil
	}
	for {
		if len(m.s) == 0 {
			return rpalerr.New(rpalerr.Domain, "internal error: environment marker e%d not found on stack", id)
		}
		top, _ := m.popVal()
		if top.IsEnvMarker() && top.EnvMarkerID() == id {
			break
		}
	}
	m.pushVal(v)
	m.envStack = m.envStack[:len(m.envStack)-1]
	return nil
}

func (m *Machine) stepGamma() error {
	rator, err := m.popVal()
	if err != nil {
		return err
	}

	switch {
	case rator.IsLambda():
		return m.applyLambda(rator)
	case rator.IsIdent() && isBuiltin(rator.Str()):
		return m.applyBuiltin(rator.Str())
	case rator.IsTuple():
		return m.applyTupleIndex(rator)
	default:
		return rpalerr.New(rpalerr.Type, "attempt to apply a non-callable value of kind %s", rator.Kind)
	}
}

func (m *Machine) applyLambda(rator object.Object) error {
	clo := rator.Closure()

	if clo.Kind == object.LambdaEta {
		m.pushVal(rator)
		m.pushVal(object.NewLambda(object.Closure{
			Params:  clo.Params,
			CSIndex: clo.CSIndex,
			EnvID:   clo.EnvID,
			Kind:    object.LambdaPlain,
		}))
		m.c = append(m.c, control.Gamma(), control.Gamma())
		return nil
	}

	arg, err := m.popVal()
	if err != nil {
		return err
	}

	newEnv := m.store.Child(clo.EnvID)
	if len(clo.Params) == 1 {
		if err := m.store.Bind(newEnv, clo.Params[0], arg); err != nil {
			return err
		}
	} else {
		if !arg.IsTuple() {
			return rpalerr.New(rpalerr.Type, "multi-parameter lambda requires a tuple argument, got %s", arg.Kind)
		}
		elems := arg.Tuple()
		if len(elems) != len(clo.Params) {
			return rpalerr.New(rpalerr.Type, "lambda expects %d arguments, got %d", len(clo.Params), len(elems))
		}
		for i, p := range clo.Params {
			if err := m.store.Bind(newEnv, p, elems[i]); err != nil {
				return err
			}
		}
	}

	m.pushControlMarker(newEnv)
	m.pushVal(object.NewEnvMarker(newEnv))
	m.c = append(m.c, m.family.Get(clo.CSIndex)...)
	m.envStack = append(m.envStack, newEnv)
	return nil
}

// applyTupleIndex implements §4.4 rule 4's "rator is Tuple" branch:
// 1-based indexing. The source's permissive lower bound (index 0 treated
// as in-range) is intentionally not reproduced — this implementation
// rejects index < 1 as a domain error rather than reading out of bounds.
func (m *Machine) applyTupleIndex(rator object.Object) error {
	idxObj, err := m.popVal()
	if err != nil {
		return err
	}
	if !idxObj.IsInt() {
		return rpalerr.New(rpalerr.Domain, "tuple index must be an integer")
	}
	idx := idxObj.Int()
	elems := rator.Tuple()
	if idx < 1 || idx > int64(len(elems)) {
		return rpalerr.New(rpalerr.Domain, "tuple index %d out of range (size %d)", idx, len(elems))
	}
	m.pushVal(elems[idx-1])
	return nil
}

func (m *Machine) stepTau(n int) error {
	elems := make([]object.Object, n)
	for i := 0; i < n; i++ {
		v, err := m.popVal()
		if err != nil {
			return err
		}
		elems[i] = v
	}
	m.pushVal(object.NewTuple(elems))
	return nil
}

// stepBeta implements §4.4 rule 8. The compiler always emits Delta(t),
// Delta(e), Beta in that textual order into the same control structure, so
// once Beta is executed (the rightmost/first-popped of the three), the
// next item popped off C is Delta(e) and the one after that is Delta(t) —
// the reverse of emission order, a consequence of C's append/pop-from-end
// stack discipline.
func (m *Machine) stepBeta() error {
	cond, err := m.popVal()
	if err != nil {
		return err
	}
	if len(m.c) < 2 {
		return rpalerr.New(rpalerr.Compile, "internal error: Beta with no preceding Delta pair")
	}
	elseInstr := m.pop()
	thenInstr := m.pop()
	if elseInstr.Op != control.OpDelta || thenInstr.Op != control.OpDelta {
		return rpalerr.New(rpalerr.Compile, "internal error: Beta not preceded by a Delta pair")
	}
	target := elseInstr.Target
	if cond.Truthy() {
		target = thenInstr.Target
	}
	m.c = append(m.c, m.family.Get(target)...)
	return nil
}

func (m *Machine) stepOp(name string) error {
	switch name {
	case "neg":
		a, err := m.popVal()
		if err != nil {
			return err
		}
		if !a.IsInt() {
			return rpalerr.New(rpalerr.Type, "neg requires an integer operand")
		}
		m.pushVal(object.NewInt(-a.Int()))
		return nil
	case "not":
		a, err := m.popVal()
		if err != nil {
			return err
		}
		m.pushVal(object.NewBool(!a.Truthy()))
		return nil
	}

	a, err := m.popVal()
	if err != nil {
		return err
	}
	b, err := m.popVal()
	if err != nil {
		return err
	}

	switch name {
	case "+", "-", "*", "/", "**":
		return m.stepArith(name, a, b)
	case "aug":
		return m.stepAug(a, b)
	case "eq":
		m.pushVal(object.NewBool(a.PrintString() == b.PrintString()))
		return nil
	case "ne":
		m.pushVal(object.NewBool(a.PrintString() != b.PrintString()))
		return nil
	case "gr", "ge", "ls", "le":
		return m.stepCompare(name, a, b)
	case "or":
		m.pushVal(object.NewBool(a.Truthy() || b.Truthy()))
		return nil
	case "&":
		m.pushVal(object.NewBool(a.Truthy() && b.Truthy()))
		return nil
	default:
		return rpalerr.New(rpalerr.Compile, "unknown operator %q", name)
	}
}

func (m *Machine) stepArith(name string, a, b object.Object) error {
	if !a.IsInt() || !b.IsInt() {
		return rpalerr.New(rpalerr.Type, "operator %q requires integer operands", name)
	}
	x, y := a.Int(), b.Int()
	switch name {
	case "+":
		m.pushVal(object.NewInt(x + y))
	case "-":
		m.pushVal(object.NewInt(x - y))
	case "*":
		m.pushVal(object.NewInt(x * y))
	case "/":
		if y == 0 {
			return rpalerr.New(rpalerr.Domain, "division by zero")
		}
		m.pushVal(object.NewInt(x / y))
	case "**":
		m.pushVal(object.NewInt(intPow(x, y)))
	}
	return nil
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

func (m *Machine) stepCompare(name string, a, b object.Object) error {
	if !a.IsInt() || !b.IsInt() {
		return rpalerr.New(rpalerr.Type, "operator %q requires integer operands", name)
	}
	x, y := a.Int(), b.Int()
	var result bool
	switch name {
	case "gr":
		result = x > y
	case "ge":
		result = x >= y
	case "ls":
		result = x < y
	case "le":
		result = x <= y
	}
	m.pushVal(object.NewBool(result))
	return nil
}

func (m *Machine) stepAug(a, b object.Object) error {
	if !a.IsTuple() {
		return rpalerr.New(rpalerr.Type, "aug requires a tuple as its left operand")
	}
	elems := append(append([]object.Object{}, a.Tuple()...), b)
	m.pushVal(object.NewTuple(elems))
	return nil
}

func (m *Machine) print(v object.Object) {
	fmt.Fprint(m.out, v.PrintString())
}
