package common

import (
	"io"

	"github.com/iley/lrcc/internal/codegen/asm"
	"github.com/iley/lrcc/internal/ir"
)

type CodeGenerator interface {
	Generate([]ir.Op) (asm.Program, error)
	Format(io.Writer, asm.Program)
}
