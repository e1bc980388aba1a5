package ir

import (
	"fmt"
	"io"
	"strconv"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
)

// Generator builds three-address code while the parser runs. It keeps a stack
// of values parallel to the parser's symbol stack; entries for symbols that
// carry no value are nil.
type Generator struct {
	stack         []*Value
	ops           []Op
	nextTempIndex int
}

func NewGenerator() *Generator {
	return &Generator{}
}

// Ops returns the generated code in emission order.
func (g *Generator) Ops() []Op {
	return g.ops
}

func (g *Generator) Print(writer io.Writer) {
	Print(writer, g.ops)
}

// Depth returns the height of the value stack. It matches the parser's depth
// after every event.
func (g *Generator) Depth() int {
	return len(g.stack)
}

func (g *Generator) OnShift(_ lrtable.Status, tok lexer.Token) {
	switch tok.Kind {
	case lexer.KindIdent:
		v := Variable(tok.Text)
		g.stack = append(g.stack, &v)
	case lexer.KindIntConst:
		v := Immediate(parseInt(tok.Text))
		g.stack = append(g.stack, &v)
	default:
		g.stack = append(g.stack, nil)
	}
}

func (g *Generator) OnReduce(_ lrtable.Status, prod grammar.Production) {
	body := g.pop(len(prod.Body))

	var result *Value
	switch prod.Index {
	case grammar.ProdIntConst, grammar.ProdIdent, grammar.ProdExprTerm, grammar.ProdTermValue:
		result = body[0]
	case grammar.ProdParen:
		result = body[1]
	case grammar.ProdMul:
		result = g.binaryOp(OpMul, mustValue(body[0], prod), mustValue(body[2], prod))
	case grammar.ProdSub:
		result = g.binaryOp(OpSub, mustValue(body[0], prod), mustValue(body[2], prod))
	case grammar.ProdAdd:
		result = g.binaryOp(OpAdd, mustValue(body[0], prod), mustValue(body[2], prod))
	case grammar.ProdAssign:
		g.ops = append(g.ops, Move{Target: mustValue(body[0], prod).Variable, Value: *mustValue(body[2], prod)})
	case grammar.ProdReturn:
		g.ops = append(g.ops, Return{Value: *mustValue(body[1], prod)})
	}

	g.stack = append(g.stack, result)
}

func (g *Generator) OnAccept(lrtable.Status) {}

func (g *Generator) binaryOp(operation Operation, left, right *Value) *Value {
	temp := Variable(g.newTemp())
	g.ops = append(g.ops, BinaryOp{
		Result:    temp.Variable,
		Operation: operation,
		Left:      *left,
		Right:     *right,
	})
	return &temp
}

func (g *Generator) newTemp() string {
	name := fmt.Sprintf("$%d", g.nextTempIndex)
	g.nextTempIndex++
	return name
}

func (g *Generator) pop(n int) []*Value {
	if n > len(g.stack) {
		panic(fmt.Sprintf("popping %d values from a stack of %d", n, len(g.stack)))
	}
	body := make([]*Value, n)
	copy(body, g.stack[len(g.stack)-n:])
	g.stack = g.stack[:len(g.stack)-n]
	return body
}

func mustValue(v *Value, prod grammar.Production) *Value {
	if v == nil {
		panic(fmt.Sprintf("missing operand when reducing %s", prod))
	}
	return v
}

// The scanner only produces digit runs that fit in 64 bits.
func parseInt(text string) int64 {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("invalid integer constant %q: %v", text, err))
	}
	return v
}
