package parser

import (
	"errors"
	"fmt"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
)

// ErrTableInconsistent is wrapped by every error caused by a malformed table
// rather than by the program being parsed.
var ErrTableInconsistent = errors.New("parsing table is inconsistent")

// SyntaxError means the table has no action for the next token.
type SyntaxError struct {
	Token  lexer.Token
	Status lrtable.Status
}

func (e *SyntaxError) Error() string {
	if e.Token.Kind == lexer.KindEOF {
		return fmt.Sprintf("%s: unexpected end of input", e.Token.Loc)
	}
	if e.Token.Text != "" {
		return fmt.Sprintf("%s: unexpected token %s %q", e.Token.Loc, e.Token.Kind, e.Token.Text)
	}
	return fmt.Sprintf("%s: unexpected token %s", e.Token.Loc, e.Token.Kind)
}

// Observer receives the automaton's actions. Every callback fires before the
// parser changes its own stacks, so status is the top of the stack as it was
// when the action was chosen.
type Observer interface {
	OnShift(status lrtable.Status, tok lexer.Token)
	OnReduce(status lrtable.Status, p grammar.Production)
	OnAccept(status lrtable.Status)
}

// Parser is the table-driven LR automaton. It produces no translation of its
// own; registered observers do all the work.
type Parser struct {
	table     lrtable.Table
	observers []Observer
	tokens    []lexer.Token
	next      int
	statuses  []lrtable.Status
	symbols   []Symbol
}

func New() *Parser {
	return &Parser{}
}

// Register adds an observer. Observers are notified in registration order.
func (p *Parser) Register(o Observer) {
	p.observers = append(p.observers, o)
}

// LoadTokens buffers the input. An end of input marker is appended unless the
// tokens already end with one.
func (p *Parser) LoadTokens(tokens []lexer.Token) {
	p.tokens = append(p.tokens[:0], tokens...)
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Kind != lexer.KindEOF {
		p.tokens = append(p.tokens, lexer.EOF())
	}
	p.next = 0
}

// LoadTable installs the table and pushes its initial status. The symbol
// stack gets a matching bottom marker so both stacks always have the same height.
func (p *Parser) LoadTable(table lrtable.Table) {
	p.table = table
	p.statuses = []lrtable.Status{table.Initial()}
	p.symbols = []Symbol{Terminal(lexer.EOF())}
}

// Depth returns the number of grammar symbols on the stack, not counting the
// bottom marker. The status stack always has the same height as the symbol stack.
func (p *Parser) Depth() int {
	return len(p.symbols) - 1
}

// Run drives the automaton until the input is accepted. It returns a
// *SyntaxError for input the table has no action for, and an error wrapping
// ErrTableInconsistent if the table itself is broken.
func (p *Parser) Run() error {
	if p.table == nil {
		return fmt.Errorf("%w: no table loaded", ErrTableInconsistent)
	}
	if len(p.tokens) == 0 {
		p.LoadTokens(nil)
	}

	for p.next < len(p.tokens) {
		status := p.top()
		tok := p.tokens[p.next]
		action := p.table.Action(status, tok.Kind)

		switch action.Kind {
		case lrtable.ActionShift:
			p.shift(status, tok, action.Status)
		case lrtable.ActionReduce:
			if err := p.reduce(status, action.Production); err != nil {
				return err
			}
		case lrtable.ActionAccept:
			p.accept(status)
			return nil
		case lrtable.ActionError:
			return &SyntaxError{Token: tok, Status: status}
		default:
			return fmt.Errorf("%w: unexpected action kind %v in status %d on %s", ErrTableInconsistent, action.Kind, status, tok.Kind)
		}
	}

	return fmt.Errorf("%w: input consumed without accepting", ErrTableInconsistent)
}

func (p *Parser) top() lrtable.Status {
	return p.statuses[len(p.statuses)-1]
}

func (p *Parser) shift(status lrtable.Status, tok lexer.Token, next lrtable.Status) {
	for _, o := range p.observers {
		o.OnShift(status, tok)
	}

	p.next++
	p.statuses = append(p.statuses, next)
	p.symbols = append(p.symbols, Terminal(tok))
}

func (p *Parser) reduce(status lrtable.Status, production grammar.Production) error {
	n := len(production.Body)
	// The bottom entries are never popped.
	if n >= len(p.statuses) {
		return fmt.Errorf("%w: reducing %s pops %d entries from a stack of %d", ErrTableInconsistent, production, n, len(p.statuses)-1)
	}

	for _, o := range p.observers {
		o.OnReduce(status, production)
	}

	p.statuses = p.statuses[:len(p.statuses)-n]
	p.symbols = p.symbols[:len(p.symbols)-n]

	head := production.HeadSymbol()
	next, ok := p.table.Goto(p.top(), head)
	if !ok {
		return fmt.Errorf("%w: no goto from status %d on %s", ErrTableInconsistent, p.top(), head)
	}
	p.symbols = append(p.symbols, Nonterminal(production.Head))
	p.statuses = append(p.statuses, next)
	return nil
}

func (p *Parser) accept(status lrtable.Status) {
	for _, o := range p.observers {
		o.OnAccept(status)
	}
	p.next++
}
