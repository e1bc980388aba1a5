package semantic

import (
	"strings"
	"testing"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
	"github.com/iley/lrcc/internal/parser"
	"github.com/iley/lrcc/internal/symtab"
)

func runTypePass(t *testing.T, src string) (*symtab.Table, *TypePass) {
	t.Helper()
	symbols := symtab.New()
	tokens, err := lexer.New(strings.NewReader(src), symbols).Tokenize()
	if err != nil {
		t.Fatalf("tokenizing: %v", err)
	}
	table, err := lrtable.Build(grammar.Toy())
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	pass := NewTypePass(symbols)
	p := parser.New()
	p.LoadTokens(tokens)
	p.LoadTable(table)
	p.Register(pass)
	if err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return symbols, pass
}

func TestTypePass(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected map[string]symtab.SourceType
	}{
		{
			name:     "single declaration",
			src:      "int a;",
			expected: map[string]symtab.SourceType{"a": symtab.TypeInt},
		},
		{
			name: "undeclared variable stays untyped",
			src:  "int a; b = a + 1; return b;",
			expected: map[string]symtab.SourceType{
				"a": symtab.TypeInt,
				"b": symtab.TypeNone,
			},
		},
		{
			name: "declaration after use",
			src:  "x = 2 * (y - 1); int y; int x; return x;",
			expected: map[string]symtab.SourceType{
				"x": symtab.TypeInt,
				"y": symtab.TypeInt,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			symbols, pass := runTypePass(t, tc.src)
			if symbols.Len() != len(tc.expected) {
				t.Errorf("symbol table has %d entries, want %d", symbols.Len(), len(tc.expected))
			}
			for name, want := range tc.expected {
				entry, ok := symbols.Get(name)
				if !ok {
					t.Errorf("%s is missing from the symbol table", name)
					continue
				}
				if entry.Type != want {
					t.Errorf("type of %s = %s, want %s", name, entry.Type, want)
				}
			}
			// Only the start symbol is left after accepting.
			if pass.Depth() != 1 {
				t.Errorf("Depth() = %d after accept, want 1", pass.Depth())
			}
		})
	}
}

func TestTypePassStack(t *testing.T) {
	g := grammar.Toy()
	declType, _ := g.Production(grammar.ProdDeclType)
	declare, _ := g.Production(grammar.ProdDeclare)

	symbols := symtab.New()
	symbols.Add("v")
	pass := NewTypePass(symbols)

	pass.OnShift(0, lexer.Simple(lexer.KindInt))
	pass.OnReduce(0, declType)
	if pass.Depth() != 1 || pass.stack.symbols[0].Type != symtab.TypeInt {
		t.Fatalf("stack after D -> int = %v", pass.stack.symbols)
	}

	pass.OnShift(0, lexer.Normal(lexer.KindIdent, "v"))
	if pass.Depth() != 2 {
		t.Fatalf("Depth() = %d after shifting id, want 2", pass.Depth())
	}
	pass.OnReduce(0, declare)
	if pass.Depth() != 1 || pass.stack.symbols[0].String() != "S" {
		t.Errorf("stack after S -> D id = %v", pass.stack.symbols)
	}
	if entry, _ := symbols.Get("v"); entry.Type != symtab.TypeInt {
		t.Errorf("type of v = %s, want Int", entry.Type)
	}
}

func TestTypePassPanicsOnUnknownIdentifier(t *testing.T) {
	g := grammar.Toy()
	declType, _ := g.Production(grammar.ProdDeclType)
	declare, _ := g.Production(grammar.ProdDeclare)

	pass := NewTypePass(symtab.New())
	pass.OnShift(0, lexer.Simple(lexer.KindInt))
	pass.OnReduce(0, declType)
	pass.OnShift(0, lexer.Normal(lexer.KindIdent, "ghost"))

	defer func() {
		if recover() == nil {
			t.Errorf("declaring an unregistered identifier did not panic")
		}
	}()
	pass.OnReduce(0, declare)
}
