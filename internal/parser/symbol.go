package parser

import (
	"fmt"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/symtab"
)

// Symbol is an element of a parser stack: either a shifted terminal or a
// reduced nonterminal, with an optional semantic type attached.
type Symbol struct {
	token       *lexer.Token
	nonterminal string
	Type        symtab.SourceType
}

func Terminal(tok lexer.Token) Symbol {
	return Symbol{token: &tok}
}

func Nonterminal(head string) Symbol {
	return Symbol{nonterminal: head}
}

// TypedNonterminal is a nonterminal carrying a source type.
func TypedNonterminal(head string, typ symtab.SourceType) Symbol {
	return Symbol{nonterminal: head, Type: typ}
}

func (s Symbol) IsTerminal() bool {
	return s.token != nil
}

// Token returns the wrapped token. Calling it on a nonterminal is a bug.
func (s Symbol) Token() lexer.Token {
	if s.token == nil {
		panic(fmt.Sprintf("symbol %s is not a terminal", s))
	}
	return *s.token
}

// Grammar returns the grammar symbol this stack element stands for.
func (s Symbol) Grammar() grammar.Symbol {
	if s.token != nil {
		return grammar.T(s.token.Kind)
	}
	return grammar.N(s.nonterminal)
}

func (s Symbol) String() string {
	if s.token != nil {
		return s.token.String()
	}
	if s.Type != symtab.TypeNone {
		return fmt.Sprintf("%s:%s", s.nonterminal, s.Type)
	}
	return s.nonterminal
}
