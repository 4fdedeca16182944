package cse

import (
	"github.com/rpalvm/rpal/internal/control"
	"github.com/rpalvm/rpal/internal/object"
	"github.com/rpalvm/rpal/internal/rpalerr"
)

var builtinNames = map[string]bool{
	"Print":      true,
	"Isinteger":  true,
	"Isstring":   true,
	"Istuple":    true,
	"Isempty":    true,
	"Isdummy":    true,
	"Isfunction": true,
	"Order":      true,
	"Conc":       true,
	"Stem":       true,
	"Stern":      true,
	"Y*":         true,
}

func isBuiltin(name string) bool { return builtinNames[name] }

// applyBuiltin dispatches the built-in named name per §4.5. It is reached
// only from stepGamma, once Gamma has already popped the operator Ident
// off S.
func (m *Machine) applyBuiltin(name string) error {
	switch name {
	case "Print":
		v, err := m.popVal()
		if err != nil {
			return err
		}
		m.print(v)
		return nil
	case "Isinteger":
		return m.pushPredicate(func(v object.Object) bool { return v.IsInt() })
	case "Isstring":
		return m.pushPredicate(func(v object.Object) bool { return v.IsStr() })
	case "Istuple":
		return m.pushPredicate(func(v object.Object) bool { return v.IsTuple() })
	case "Isdummy":
		return m.pushPredicate(func(v object.Object) bool { return v.IsDummy() })
	case "Isfunction":
		return m.pushPredicate(func(v object.Object) bool { return v.IsLambda() })
	case "Isempty":
		v, err := m.popVal()
		if err != nil {
			return err
		}
		if !v.IsTuple() {
			return rpalerr.New(rpalerr.Type, "Isempty requires a tuple, got %s", v.Kind)
		}
		m.pushVal(object.NewBool(len(v.Tuple()) == 0))
		return nil
	case "Order":
		v, err := m.popVal()
		if err != nil {
			return err
		}
		if !v.IsTuple() {
			return rpalerr.New(rpalerr.Type, "Order requires a tuple, got %s", v.Kind)
		}
		m.pushVal(object.NewInt(int64(len(v.Tuple()))))
		return nil
	case "Conc":
		return m.applyConc()
	case "Stem":
		return m.applyStemStern(true)
	case "Stern":
		return m.applyStemStern(false)
	case "Y*":
		return m.applyYStar()
	default:
		return rpalerr.New(rpalerr.Lookup, "unknown built-in %q", name)
	}
}

func (m *Machine) pushPredicate(pred func(object.Object) bool) error {
	v, err := m.popVal()
	if err != nil {
		return err
	}
	m.pushVal(object.NewBool(pred(v)))
	return nil
}

// applyConc implements the curried-binary quirk of §4.5/§9: both
// arguments are already on the stack by the time the first of Conc's two
// Gamma applications fires, so the dispatch consumes both immediately and
// swallows the second, still-pending Gamma instead of letting it execute
// against the result string.
func (m *Machine) applyConc() error {
	a, err := m.popVal()
	if err != nil {
		return err
	}
	b, err := m.popVal()
	if err != nil {
		return err
	}
	if !a.IsStr() || !b.IsStr() {
		return rpalerr.New(rpalerr.Type, "Conc requires two string operands")
	}
	m.pushVal(object.NewStr(a.Str() + b.Str()))

	if len(m.c) == 0 || m.c[len(m.c)-1].Op != control.OpGamma {
		return rpalerr.New(rpalerr.Compile, "internal error: Conc not followed by its elided Gamma")
	}
	m.pop()
	return nil
}

func (m *Machine) applyStemStern(stem bool) error {
	v, err := m.popVal()
	if err != nil {
		return err
	}
	if !v.IsStr() {
		return rpalerr.New(rpalerr.Type, "Stem/Stern requires a string operand")
	}
	s := v.Str()
	if len(s) == 0 {
		return rpalerr.New(rpalerr.Domain, "Stem/Stern of an empty string")
	}
	if stem {
		m.pushVal(object.NewStr(s[:1]))
	} else {
		m.pushVal(object.NewStr(s[1:]))
	}
	return nil
}

func (m *Machine) applyYStar() error {
	v, err := m.popVal()
	if err != nil {
		return err
	}
	if !v.IsLambda() {
		return rpalerr.New(rpalerr.Type, "Y* requires a lambda operand")
	}
	clo := v.Closure()
	m.pushVal(object.NewLambda(object.Closure{
		Params:  clo.Params,
		CSIndex: clo.CSIndex,
		EnvID:   clo.EnvID,
		Kind:    object.LambdaEta,
	}))
	return nil
}
