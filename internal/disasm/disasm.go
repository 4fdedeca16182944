// Package disasm renders a compiled control.Family as readable text,
// grounded on the teacher's internal/bytecode/disasm.go (one line per
// instruction, control-structure boundaries clearly marked) but using
// pterm for the section headings instead of raw fmt.Println, matching the
// pack's use of pterm for structured terminal output.
package disasm

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/rpalvm/rpal/internal/control"
)

// Write dumps every control structure in family to out.
func Write(out io.Writer, family *control.Family) {
	for i := 0; i < family.Len(); i++ {
		fmt.Fprintln(out, pterm.FgCyan.Sprintf("CS[%d]:", i))
		for j, instr := range family.Get(i) {
			fmt.Fprintf(out, "  %3d  %s\n", j, instr.String())
		}
	}
}
