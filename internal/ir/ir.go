package ir

import (
	"fmt"
	"io"
)

/*
Three-address code produced by the generation pass. Every operation names at
most one target and at most two operands.

 * BinaryOp(Target, Operation, Left, Right) - ADD, SUB or MUL of two values.
 * Move(Target, Value) - copy a value into a variable.
 * Return(Value) - return a value from the program.
*/

type Operation string

const (
	OpAdd Operation = "ADD"
	OpSub Operation = "SUB"
	OpMul Operation = "MUL"
	OpMov Operation = "MOV"
	OpRet Operation = "RET"
)

type Op interface {
	fmt.Stringer
	Kind() Operation
	// Returns the target being modified by the Op or empty string.
	GetTarget() string
	// GetArgs returns all values read by the op, in operand order.
	GetArgs() []Value
}

type BinaryOp struct {
	Result    string
	Operation Operation
	Left      Value
	Right     Value
}

func (o BinaryOp) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", o.Operation, o.Result, o.Left, o.Right)
}

func (o BinaryOp) Kind() Operation {
	return o.Operation
}

func (o BinaryOp) GetTarget() string {
	return o.Result
}

func (o BinaryOp) GetArgs() []Value {
	return []Value{o.Left, o.Right}
}

type Move struct {
	Target string
	Value  Value
}

func (m Move) String() string {
	return fmt.Sprintf("(%s, %s, %s)", OpMov, m.Target, m.Value)
}

func (m Move) Kind() Operation {
	return OpMov
}

func (m Move) GetTarget() string {
	return m.Target
}

func (m Move) GetArgs() []Value {
	return []Value{m.Value}
}

type Return struct {
	Value Value
}

func (r Return) String() string {
	return fmt.Sprintf("(%s, %s)", OpRet, r.Value)
}

func (r Return) Kind() Operation {
	return OpRet
}

func (r Return) GetTarget() string {
	return ""
}

func (r Return) GetArgs() []Value {
	return []Value{r.Value}
}

// Names returns every variable an op mentions, target included.
func Names(op Op) []string {
	var names []string
	if target := op.GetTarget(); target != "" {
		names = append(names, target)
	}
	for _, arg := range op.GetArgs() {
		if !arg.IsImmediate() {
			names = append(names, arg.Variable)
		}
	}
	return names
}

// Print writes one op per line.
func Print(writer io.Writer, ops []Op) {
	for _, op := range ops {
		fmt.Fprintf(writer, "%s\n", op)
	}
}
