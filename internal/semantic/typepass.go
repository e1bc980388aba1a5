package semantic

import (
	"fmt"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
	"github.com/iley/lrcc/internal/parser"
	"github.com/iley/lrcc/internal/symtab"
)

// TypePass propagates declared types into the symbol table. It is a parser
// observer and keeps its own copy of the symbol stack.
type TypePass struct {
	symbols *symtab.Table
	stack   symbolStack
}

func NewTypePass(symbols *symtab.Table) *TypePass {
	return &TypePass{symbols: symbols}
}

// Depth returns the height of the pass's stack. It matches the parser's depth
// after every event.
func (p *TypePass) Depth() int {
	return p.stack.len()
}

func (p *TypePass) OnShift(_ lrtable.Status, tok lexer.Token) {
	p.stack.push(parser.Terminal(tok))
}

func (p *TypePass) OnReduce(_ lrtable.Status, prod grammar.Production) {
	switch prod.Index {
	case grammar.ProdDeclType:
		p.stack.pop(1)
		p.stack.push(parser.TypedNonterminal(prod.Head, symtab.TypeInt))
	case grammar.ProdDeclare:
		popped := p.stack.pop(2)
		decl, id := popped[0], popped[1]
		name := id.Token().Text
		entry, ok := p.symbols.Get(name)
		if !ok {
			panic(fmt.Sprintf("declared identifier %q is not in the symbol table", name))
		}
		entry.Type = decl.Type
		p.stack.push(parser.Nonterminal(prod.Head))
	default:
		p.stack.pop(len(prod.Body))
		p.stack.push(parser.Nonterminal(prod.Head))
	}
}

func (p *TypePass) OnAccept(lrtable.Status) {}
