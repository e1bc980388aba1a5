package semantic

import (
	"fmt"

	"github.com/iley/lrcc/internal/parser"
)

// symbolStack mirrors the parser's symbol stack, without the bottom marker.
type symbolStack struct {
	symbols []parser.Symbol
}

func (s *symbolStack) push(sym parser.Symbol) {
	s.symbols = append(s.symbols, sym)
}

// pop removes the top n symbols and returns them in stack order (bottom first).
func (s *symbolStack) pop(n int) []parser.Symbol {
	if n > len(s.symbols) {
		panic(fmt.Sprintf("popping %d symbols from a stack of %d", n, len(s.symbols)))
	}
	top := s.symbols[len(s.symbols)-n:]
	popped := make([]parser.Symbol, n)
	copy(popped, top)
	s.symbols = s.symbols[:len(s.symbols)-n]
	return popped
}

func (s *symbolStack) len() int {
	return len(s.symbols)
}
