package grammar

import (
	"fmt"
	"strings"

	"github.com/iley/lrcc/internal/lexer"
)

// Symbol is an element of a production body: either a terminal (a token kind)
// or a nonterminal (identified by its name). Symbols are comparable and can be
// used as map keys.
type Symbol struct {
	Kind        lexer.Kind // only meaningful for terminals
	Nonterminal string
}

func T(kind lexer.Kind) Symbol {
	return Symbol{Kind: kind}
}

func N(name string) Symbol {
	return Symbol{Nonterminal: name}
}

func (s Symbol) IsTerminal() bool {
	return s.Nonterminal == ""
}

func (s Symbol) String() string {
	if s.IsTerminal() {
		return s.Kind.String()
	}
	return s.Nonterminal
}

type Production struct {
	Index int
	Head  string
	Body  []Symbol
}

func (p Production) HeadSymbol() Symbol {
	return N(p.Head)
}

func (p Production) String() string {
	parts := make([]string, len(p.Body))
	for i, sym := range p.Body {
		parts[i] = sym.String()
	}
	return fmt.Sprintf("%s -> %s", p.Head, strings.Join(parts, " "))
}

type Grammar struct {
	Start       string
	Productions []Production
}

// Production returns the production with the given index.
func (g *Grammar) Production(index int) (Production, bool) {
	for _, p := range g.Productions {
		if p.Index == index {
			return p, true
		}
	}
	return Production{}, false
}

// ProductionsOf returns all productions with the given head, in grammar order.
func (g *Grammar) ProductionsOf(head string) []Production {
	var result []Production
	for _, p := range g.Productions {
		if p.Head == head {
			result = append(result, p)
		}
	}
	return result
}

// Terminals returns every terminal used in the grammar, in order of first appearance.
func (g *Grammar) Terminals() []lexer.Kind {
	seen := make(map[lexer.Kind]bool)
	var result []lexer.Kind
	for _, p := range g.Productions {
		for _, sym := range p.Body {
			if sym.IsTerminal() && !seen[sym.Kind] {
				seen[sym.Kind] = true
				result = append(result, sym.Kind)
			}
		}
	}
	return result
}

// Nonterminals returns every production head, in order of first appearance.
func (g *Grammar) Nonterminals() []string {
	seen := make(map[string]bool)
	var result []string
	for _, p := range g.Productions {
		if !seen[p.Head] {
			seen[p.Head] = true
			result = append(result, p.Head)
		}
	}
	return result
}
