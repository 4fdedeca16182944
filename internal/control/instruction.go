// Package control implements the control-structure instruction alphabet and
// the compiler that flattens a standardized tree into an indexed family of
// linear control structures (CS[0..k]). The instruction set mirrors the
// teacher's bytecode.Instruction in spirit (a small tagged set of opcodes
// consumed by a stack machine) but carries structured Go fields instead of
// a byte-packed encoding, since spec.md's alphabet has only 11 kinds and no
// performance requirement that would justify bit-packing.
package control

import "fmt"

// Op names the 11 control-structure node kinds of the evaluator alphabet.
type Op int

const (
	OpLambda Op = iota
	OpEta
	OpGamma
	OpBinOp // arithmetic/relational/boolean operator, by name
	OpBeta
	OpDelta
	OpTau
	OpEnvMarker
	OpInt
	OpStr
	OpIdent
)

func (op Op) String() string {
	switch op {
	case OpLambda:
		return "LAMBDA"
	case OpEta:
		return "ETA"
	case OpGamma:
		return "GAMMA"
	case OpBinOp:
		return "OP"
	case OpBeta:
		return "BETA"
	case OpDelta:
		return "DELTA"
	case OpTau:
		return "TAU"
	case OpEnvMarker:
		return "ENVMARKER"
	case OpInt:
		return "INT"
	case OpStr:
		return "STR"
	case OpIdent:
		return "IDENT"
	default:
		return "???"
	}
}

// Instr is one control-structure node. Only the fields relevant to Op are
// populated; the rest are zero.
type Instr struct {
	Op Op

	// OpLambda / OpEta
	CSIndex int      // index of the lambda's body in the CS family
	Params  []string // parameter name(s); len>1 means tuple destructuring

	// OpBinOp
	Name string // operator name: +, -, *, /, aug, neg, not, eq, ne, gr, ge, ls, le, or, &

	// OpDelta
	Target int // CS index branched to

	// OpTau
	Arity int // number of tuple elements

	// OpEnvMarker
	EnvID int

	// OpInt
	IntVal int64

	// OpStr / OpIdent
	StrVal string
}

func Lambda(csIndex int, params []string) Instr { return Instr{Op: OpLambda, CSIndex: csIndex, Params: params} }
func Eta(csIndex int, params []string) Instr     { return Instr{Op: OpEta, CSIndex: csIndex, Params: params} }
func Gamma() Instr                               { return Instr{Op: OpGamma} }
func BinOp(name string) Instr                    { return Instr{Op: OpBinOp, Name: name} }
func Beta() Instr                                { return Instr{Op: OpBeta} }
func Delta(target int) Instr                     { return Instr{Op: OpDelta, Target: target} }
func Tau(n int) Instr                            { return Instr{Op: OpTau, Arity: n} }
func EnvMarker(id int) Instr                     { return Instr{Op: OpEnvMarker, EnvID: id} }
func Int(v int64) Instr                          { return Instr{Op: OpInt, IntVal: v} }
func Str(v string) Instr                         { return Instr{Op: OpStr, StrVal: v} }
func Ident(name string) Instr                    { return Instr{Op: OpIdent, StrVal: name} }

// String renders a single instruction for disassembly.
func (in Instr) String() string {
	switch in.Op {
	case OpLambda, OpEta:
		return fmt.Sprintf("%s %v -> CS[%d]", in.Op, in.Params, in.CSIndex)
	case OpBinOp:
		return fmt.Sprintf("%s %s", in.Op, in.Name)
	case OpDelta:
		return fmt.Sprintf("%s CS[%d]", in.Op, in.Target)
	case OpTau:
		return fmt.Sprintf("%s %d", in.Op, in.Arity)
	case OpEnvMarker:
		return fmt.Sprintf("%s e%d", in.Op, in.EnvID)
	case OpInt:
		return fmt.Sprintf("%s %d", in.Op, in.IntVal)
	case OpStr:
		return fmt.Sprintf("%s %q", in.Op, in.StrVal)
	case OpIdent:
		return fmt.Sprintf("%s %s", in.Op, in.StrVal)
	default:
		return in.Op.String()
	}
}
