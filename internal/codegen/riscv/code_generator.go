package riscv

import (
	"io"

	"github.com/iley/lrcc/internal/codegen/asm"
	"github.com/iley/lrcc/internal/ir"
)

type CodeGenerator struct {
	Config Config
}

func (cg *CodeGenerator) Generate(ops []ir.Op) (asm.Program, error) {
	return Generate(ops, cg.Config)
}

func (cg *CodeGenerator) Format(out io.Writer, p asm.Program) {
	Format(out, p)
}
