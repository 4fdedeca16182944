package control

// Family is the indexed family CS[0..k] the compiler emits. CS[0] is always
// the program entry. Indices are assigned in the order lambdas and
// conditional arms are discovered during compilation and are stable for the
// lifetime of a run.
type Family struct {
	structures []([]Instr)
}

// NewFamily creates a family with CS[0] already allocated and empty.
func NewFamily() *Family {
	f := &Family{}
	f.Alloc()
	return f
}

// Alloc reserves the next index and returns it with an empty instruction
// sequence ready to be appended to.
func (f *Family) Alloc() int {
	f.structures = append(f.structures, nil)
	return len(f.structures) - 1
}

// Emit appends an instruction to CS[index].
func (f *Family) Emit(index int, in Instr) {
	f.structures[index] = append(f.structures[index], in)
}

// Get returns CS[index]. Panics if index is out of range — every index the
// evaluator ever dereferences was handed out by Alloc, so an out-of-range
// index is an internal compiler bug, not a user-facing error.
func (f *Family) Get(index int) []Instr {
	return f.structures[index]
}

// Len returns the number of control structures in the family (k+1).
func (f *Family) Len() int {
	return len(f.structures)
}
