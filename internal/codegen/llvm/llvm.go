package llvm

import (
	"fmt"
	"io"
	"strings"

	llir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/iley/lrcc/internal/ir"
)

// FunctionName is the name of the function the program is compiled into.
const FunctionName = "main"

type context struct {
	fn    *llir.Func
	block *llir.Block
	// Source variables live in stack slots; temporaries are SSA values.
	slots  map[string]*llir.InstAlloca
	temps  map[string]value.Value
	blocks int
}

// Generate translates the ops into a module with a single i64 function.
// Falling off the end of the program returns 0.
func Generate(ops []ir.Op) (*llir.Module, error) {
	m := llir.NewModule()
	fn := m.NewFunc(FunctionName, types.I64)
	cc := &context{
		fn:    fn,
		block: fn.NewBlock("entry"),
		slots: make(map[string]*llir.InstAlloca),
		temps: make(map[string]value.Value),
	}

	// Allocate every source variable up front, in order of first mention.
	// Slot names carry a suffix no identifier, temporary or block can have.
	for _, op := range ops {
		for _, name := range ir.Names(op) {
			if _, ok := cc.slots[name]; ok || ir.IsTemporary(name) {
				continue
			}
			slot := cc.block.NewAlloca(types.I64)
			slot.SetName(name + ".addr")
			cc.slots[name] = slot
		}
	}

	for i, op := range ops {
		if err := cc.generateOp(op); err != nil {
			return nil, fmt.Errorf("error when generating code for op %d %s: %w", i, op, err)
		}
	}

	if cc.block.Term == nil {
		cc.block.NewRet(constant.NewInt(types.I64, 0))
	}
	return m, nil
}

// Emit writes the textual LLVM IR for ops.
func Emit(out io.Writer, ops []ir.Op) error {
	m, err := Generate(ops)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, m.String())
	return err
}

func (cc *context) generateOp(op ir.Op) error {
	// Code after a return is unreachable but still has to live in a block.
	if cc.block.Term != nil {
		cc.blocks++
		cc.block = cc.fn.NewBlock(fmt.Sprintf("after.ret.%d", cc.blocks))
	}

	switch op := op.(type) {
	case ir.BinaryOp:
		left, err := cc.value(op.Left)
		if err != nil {
			return err
		}
		right, err := cc.value(op.Right)
		if err != nil {
			return err
		}
		var result value.Named
		switch op.Operation {
		case ir.OpAdd:
			result = cc.block.NewAdd(left, right)
		case ir.OpSub:
			result = cc.block.NewSub(left, right)
		case ir.OpMul:
			result = cc.block.NewMul(left, right)
		default:
			return fmt.Errorf("unknown binary operation: %s", op.Operation)
		}
		if ir.IsTemporary(op.Result) {
			result.SetName("tmp" + strings.TrimPrefix(op.Result, "$"))
		}
		return cc.assign(op.Result, result)
	case ir.Move:
		v, err := cc.value(op.Value)
		if err != nil {
			return err
		}
		return cc.assign(op.Target, v)
	case ir.Return:
		v, err := cc.value(op.Value)
		if err != nil {
			return err
		}
		cc.block.NewRet(v)
		return nil
	default:
		return fmt.Errorf("unknown op type: %v", op)
	}
}

func (cc *context) value(v ir.Value) (value.Value, error) {
	if v.IsImmediate() {
		return constant.NewInt(types.I64, *v.LiteralInt), nil
	}
	if ir.IsTemporary(v.Variable) {
		temp, ok := cc.temps[v.Variable]
		if !ok {
			return nil, fmt.Errorf("temporary %s used before it is defined", v.Variable)
		}
		return temp, nil
	}
	return cc.block.NewLoad(types.I64, cc.slots[v.Variable]), nil
}

func (cc *context) assign(target string, v value.Value) error {
	if ir.IsTemporary(target) {
		cc.temps[target] = v
		return nil
	}
	slot, ok := cc.slots[target]
	if !ok {
		return fmt.Errorf("no stack slot for %s", target)
	}
	cc.block.NewStore(v, slot)
	return nil
}
