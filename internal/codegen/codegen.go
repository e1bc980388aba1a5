package codegen

import (
	"fmt"
	"io"

	"github.com/iley/lrcc/internal/codegen/common"
	"github.com/iley/lrcc/internal/codegen/llvm"
	"github.com/iley/lrcc/internal/codegen/riscv"
	"github.com/iley/lrcc/internal/ir"
)

type Target int

const (
	TargetRISCV Target = iota
	TargetLLVM  Target = iota
)

func TargetFromName(name string) (Target, error) {
	switch name {
	case "riscv", "riscv32":
		return TargetRISCV, nil
	case "llvm":
		return TargetLLVM, nil
	}
	return 0, fmt.Errorf("unknown target: %s", name)
}

// Generate lowers ops for the target and writes the result to out. The config
// only applies to register-allocating targets.
func Generate(out io.Writer, target Target, ops []ir.Op, config riscv.Config) error {
	var cg common.CodeGenerator
	switch target {
	case TargetRISCV:
		cg = &riscv.CodeGenerator{Config: config}
	case TargetLLVM:
		return llvm.Emit(out, ops)
	default:
		return fmt.Errorf("unknown target: %v", target)
	}

	asmProgram, err := cg.Generate(ops)
	if err != nil {
		return err
	}

	cg.Format(out, asmProgram)
	return nil
}
