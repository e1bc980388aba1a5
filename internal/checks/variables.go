package checks

import (
	"fmt"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
)

// VariableChecker reports variables that are used before their declaration
// and variables that are declared twice. It is a parser observer; the
// problems it finds do not stop compilation.
type VariableChecker struct {
	// Mirrors the parser's stack. Only identifier tokens are kept, other
	// entries are nil.
	stack        []*lexer.Token
	declaredVars map[string]lexer.Location
	errors       []error
}

func NewVariableChecker() *VariableChecker {
	return &VariableChecker{
		declaredVars: make(map[string]lexer.Location),
		errors:       []error{},
	}
}

func (c *VariableChecker) Success() bool {
	return len(c.errors) == 0
}

func (c *VariableChecker) Errors() []error {
	return c.errors
}

func (c *VariableChecker) Depth() int {
	return len(c.stack)
}

func (c *VariableChecker) OnShift(_ lrtable.Status, tok lexer.Token) {
	if tok.Kind == lexer.KindIdent {
		c.stack = append(c.stack, &tok)
	} else {
		c.stack = append(c.stack, nil)
	}
}

func (c *VariableChecker) OnReduce(_ lrtable.Status, prod grammar.Production) {
	n := len(prod.Body)
	body := c.stack[len(c.stack)-n:]

	switch prod.Index {
	case grammar.ProdDeclare:
		c.declare(body[1])
	case grammar.ProdAssign, grammar.ProdIdent:
		c.use(body[0])
	}

	c.stack = append(c.stack[:len(c.stack)-n], nil)
}

func (c *VariableChecker) OnAccept(lrtable.Status) {}

func (c *VariableChecker) declare(id *lexer.Token) {
	if loc, declared := c.declaredVars[id.Text]; declared {
		c.errors = append(c.errors, fmt.Errorf("%s: variable %s is already declared at %s", id.Loc, id.Text, loc))
		return
	}
	c.declaredVars[id.Text] = id.Loc
}

func (c *VariableChecker) use(id *lexer.Token) {
	if _, declared := c.declaredVars[id.Text]; !declared {
		c.errors = append(c.errors, fmt.Errorf("%s: variable %s is not declared before use", id.Loc, id.Text))
	}
}
