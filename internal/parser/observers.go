package parser

import (
	"fmt"
	"io"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
)

// ProductionCollector records the productions the parser reduces by, in order.
// For a successful parse this is the reverse of a rightmost derivation.
type ProductionCollector struct {
	productions []grammar.Production
}

func NewProductionCollector() *ProductionCollector {
	return &ProductionCollector{}
}

func (c *ProductionCollector) OnShift(lrtable.Status, lexer.Token) {}

func (c *ProductionCollector) OnReduce(_ lrtable.Status, p grammar.Production) {
	c.productions = append(c.productions, p)
}

func (c *ProductionCollector) OnAccept(lrtable.Status) {}

func (c *ProductionCollector) Productions() []grammar.Production {
	return c.productions
}

// Print writes one reduced production per line.
func (c *ProductionCollector) Print(writer io.Writer) {
	PrintProductions(writer, c.productions)
}

func PrintProductions(writer io.Writer, productions []grammar.Production) {
	for _, p := range productions {
		fmt.Fprintf(writer, "%s\n", p)
	}
}

// Tracer writes every automaton action to a writer. Used for debugging tables.
type Tracer struct {
	out io.Writer
}

func NewTracer(out io.Writer) *Tracer {
	return &Tracer{out: out}
}

func (t *Tracer) OnShift(status lrtable.Status, tok lexer.Token) {
	fmt.Fprintf(t.out, "[%d] shift %s\n", status, tok)
}

func (t *Tracer) OnReduce(status lrtable.Status, p grammar.Production) {
	fmt.Fprintf(t.out, "[%d] reduce %d: %s\n", status, p.Index, p)
}

func (t *Tracer) OnAccept(status lrtable.Status) {
	fmt.Fprintf(t.out, "[%d] accept\n", status)
}
