package riscv

import (
	"fmt"
	"io"

	"github.com/iley/lrcc/internal/codegen/asm"
)

// Format writes one instruction per line as "op arg1, arg2[, arg3]".
func Format(out io.Writer, p asm.Program) {
	for _, line := range p.Lines {
		formatLine(out, line)
	}
}

func formatLine(out io.Writer, line asm.Line) {
	if line.Op != "" {
		fmt.Fprintf(out, "%s", line.Op)

		if line.Arity >= 1 {
			fmt.Fprintf(out, " %s", line.Arg1)
		}
		if line.Arity >= 2 {
			fmt.Fprintf(out, ", %s", line.Arg2)
		}
		if line.Arity >= 3 {
			fmt.Fprintf(out, ", %s", line.Arg3)
		}
	}

	if line.Comment != "" {
		if line.Op != "" {
			fmt.Fprintf(out, "  ")
		}
		fmt.Fprintf(out, "# %s", line.Comment)
	}

	fmt.Fprintf(out, "\n")
}
