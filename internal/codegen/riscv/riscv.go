package riscv

import (
	"fmt"
	"math"
	"slices"

	"github.com/iley/lrcc/internal/codegen/asm"
	"github.com/iley/lrcc/internal/ir"
)

// AllocationError means the pool ran out of registers. There is no spilling.
type AllocationError struct {
	Variable string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("out of registers: cannot allocate a register for %s", e.Variable)
}

type generator struct {
	config   Config
	pool     *registerPool
	assigned map[string]string // variable -> register
	lines    []asm.Line
}

// Generate lowers the ops to RISC-V assembly. Registers are assigned lazily on
// first use and returned to the pool as soon as no later op mentions their
// variable.
func Generate(ops []ir.Op, config Config) (asm.Program, error) {
	if err := config.Validate(); err != nil {
		return asm.Program{}, err
	}

	g := newGenerator(config)
	for i := range ops {
		if err := g.step(ops, i); err != nil {
			return asm.Program{}, fmt.Errorf("error when generating code for op %d %s: %w", i, ops[i], err)
		}
	}
	return asm.Program{Lines: g.lines}, nil
}

func newGenerator(config Config) *generator {
	return &generator{
		config:   config,
		pool:     newRegisterPool(config.Registers),
		assigned: make(map[string]string),
	}
}

// step lowers ops[i] and then reclaims the registers of dead variables.
func (g *generator) step(ops []ir.Op, i int) error {
	op := ops[i]
	if g.config.Comments {
		g.lines = append(g.lines, asm.Comment(fmt.Sprintf("Op %d: %s", i, op)))
	}

	var err error
	switch op := op.(type) {
	case ir.BinaryOp:
		err = g.generateBinaryOp(op)
	case ir.Move:
		err = g.generateMove(op)
	case ir.Return:
		err = g.generateReturn(op)
	default:
		err = fmt.Errorf("unknown op type: %v", op)
	}
	if err != nil {
		return err
	}

	g.reclaim(ops[i+1:])
	return nil
}

// register returns the register holding a variable, assigning one if needed.
func (g *generator) register(name string) (asm.Arg, error) {
	if reg, ok := g.assigned[name]; ok {
		return asm.Reg(reg), nil
	}
	reg, ok := g.pool.take(name)
	if !ok {
		return asm.Arg{}, &AllocationError{Variable: name}
	}
	g.assigned[name] = reg
	return asm.Reg(reg), nil
}

// scratch borrows a register for the duration of a single op and loads an
// immediate into it. The caller must release it once the op is lowered.
func (g *generator) scratch(v ir.Value) (asm.Arg, error) {
	reg, ok := g.pool.take("")
	if !ok {
		return asm.Arg{}, &AllocationError{Variable: v.String()}
	}
	g.lines = append(g.lines, asm.Op2("li", asm.Reg(reg), asm.Imm(*v.LiteralInt)))
	return asm.Reg(reg), nil
}

// operand resolves a value into a register, or leaves immediates as they are.
func (g *generator) operand(v ir.Value) (asm.Arg, error) {
	if v.IsImmediate() {
		return asm.Imm(*v.LiteralInt), nil
	}
	return g.register(v.Variable)
}

func (g *generator) generateBinaryOp(op ir.BinaryOp) error {
	left, right := op.Left, op.Right
	commutative := op.Operation == ir.OpAdd || op.Operation == ir.OpMul
	if commutative && left.IsImmediate() && !right.IsImmediate() {
		left, right = right, left
	}

	rs1, err := g.operand(left)
	if err != nil {
		return err
	}
	rs2, err := g.operand(right)
	if err != nil {
		return err
	}
	rd, err := g.register(op.Result)
	if err != nil {
		return err
	}

	var borrowed []asm.Arg
	defer func() {
		for _, reg := range borrowed {
			g.pool.release(reg.Reg)
		}
	}()
	materialize := func(v ir.Value) (asm.Arg, error) {
		reg, err := g.scratch(v)
		if err == nil {
			borrowed = append(borrowed, reg)
		}
		return reg, err
	}

	switch op.Operation {
	case ir.OpAdd:
		if left.IsImmediate() {
			// Both operands are immediates.
			if rs1, err = materialize(left); err != nil {
				return err
			}
		}
		if right.IsImmediate() {
			g.emit(asm.Op3("addi", rd, rs1, rs2))
		} else {
			g.emit(asm.Op3("add", rd, rs1, rs2))
		}
	case ir.OpSub:
		switch {
		case right.IsImmediate() && *right.LiteralInt == math.MinInt64:
			// The negated immediate does not fit, so subtract a register instead.
			if left.IsImmediate() {
				if rs1, err = materialize(left); err != nil {
					return err
				}
			}
			if rs2, err = materialize(right); err != nil {
				return err
			}
			g.emit(asm.Op3("sub", rd, rs1, rs2))
		case right.IsImmediate():
			if left.IsImmediate() {
				if rs1, err = materialize(left); err != nil {
					return err
				}
			}
			g.emit(asm.Op3("addi", rd, rs1, asm.Imm(-*right.LiteralInt)))
		case left.IsImmediate() && rd.Reg == rs2.Reg:
			// Loading into rd would clobber the subtrahend.
			if rs1, err = materialize(left); err != nil {
				return err
			}
			g.emit(asm.Op3("sub", rd, rs1, rs2))
		case left.IsImmediate():
			g.emit(asm.Op2("li", rd, rs1))
			g.emit(asm.Op3("sub", rd, rd, rs2))
		default:
			g.emit(asm.Op3("sub", rd, rs1, rs2))
		}
	case ir.OpMul:
		if left.IsImmediate() {
			// Both operands are immediates.
			if rs1, err = materialize(left); err != nil {
				return err
			}
		}
		switch {
		case right.IsImmediate() && rd.Reg == rs1.Reg:
			// Loading into rd would clobber the multiplicand.
			if rs2, err = materialize(right); err != nil {
				return err
			}
			g.emit(asm.Op3("mul", rd, rs1, rs2))
		case right.IsImmediate():
			g.emit(asm.Op2("li", rd, rs2))
			g.emit(asm.Op3("mul", rd, rs1, rd))
		default:
			g.emit(asm.Op3("mul", rd, rs1, rs2))
		}
	default:
		return fmt.Errorf("unknown binary operation: %s", op.Operation)
	}
	return nil
}

func (g *generator) generateMove(op ir.Move) error {
	rs, err := g.operand(op.Value)
	if err != nil {
		return err
	}
	rd, err := g.register(op.Target)
	if err != nil {
		return err
	}
	if op.Value.IsImmediate() {
		g.emit(asm.Op2("li", rd, rs))
	} else {
		g.emit(asm.Op2("mv", rd, rs))
	}
	return nil
}

func (g *generator) generateReturn(op ir.Return) error {
	rs, err := g.operand(op.Value)
	if err != nil {
		return err
	}
	ret := asm.Reg(g.config.ReturnRegister)
	if op.Value.IsImmediate() {
		g.emit(asm.Op2("li", ret, rs))
	} else {
		g.emit(asm.Op2("mv", ret, rs))
	}
	return nil
}

func (g *generator) emit(line asm.Line) {
	g.lines = append(g.lines, line)
}

// reclaim frees the register of every variable that none of the remaining ops
// mention. The remaining ops are rescanned on every call.
func (g *generator) reclaim(rest []ir.Op) {
	live := make(map[string]bool)
	for _, op := range rest {
		for _, name := range ir.Names(op) {
			live[name] = true
		}
	}

	names := make([]string, 0, len(g.assigned))
	for name := range g.assigned {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !live[name] {
			g.pool.release(g.assigned[name])
			delete(g.assigned, name)
		}
	}
}
