package parser

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
	"github.com/iley/lrcc/internal/symtab"
)

func toyTable(t *testing.T) *lrtable.LRTable {
	t.Helper()
	table, err := lrtable.Build(grammar.Toy())
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return table
}

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.New(strings.NewReader(src), symtab.New()).Tokenize()
	if err != nil {
		t.Fatalf("tokenizing %q: %v", src, err)
	}
	return tokens
}

func newParser(t *testing.T, src string, observers ...Observer) *Parser {
	t.Helper()
	p := New()
	p.LoadTokens(tokenize(t, src))
	p.LoadTable(toyTable(t))
	for _, o := range observers {
		p.Register(o)
	}
	return p
}

func TestParseReductions(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected []int
	}{
		{
			name:     "return a constant",
			src:      "return 1;",
			expected: []int{15, 12, 10, 7, 3, 1},
		},
		{
			name:     "declaration",
			src:      "int a;",
			expected: []int{5, 4, 3, 1},
		},
		{
			name: "precedence",
			src:  "int a; a = 1 + 2 * 3; return a;",
			expected: []int{
				5, 4,
				15, 12, 10, 15, 12, 15, 11, 8, 6,
				14, 12, 10, 7,
				3, 2, 2, 1,
			},
		},
		{
			name:     "parentheses and subtraction",
			src:      "b = (c - 4) * d;",
			expected: []int{14, 12, 10, 15, 12, 9, 13, 12, 14, 11, 10, 6, 3, 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			collector := NewProductionCollector()
			p := newParser(t, tc.src, collector)
			if err := p.Run(); err != nil {
				t.Fatalf("Run: %v", err)
			}

			var indices []int
			for _, prod := range collector.Productions() {
				indices = append(indices, prod.Index)
			}
			if !reflect.DeepEqual(indices, tc.expected) {
				t.Errorf("reductions = %v, want %v", indices, tc.expected)
			}
		})
	}
}

func TestProductionCollectorPrint(t *testing.T) {
	collector := NewProductionCollector()
	if err := newParser(t, "int x;", collector).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var buf bytes.Buffer
	collector.Print(&buf)
	expected := "D -> int\nS -> D id\nS_list -> S Semicolon\nP -> S_list\n"
	if buf.String() != expected {
		t.Errorf("Print() = %q, want %q", buf.String(), expected)
	}
}

// heightChecker keeps its own stack and compares it with the parser's on every event.
type heightChecker struct {
	t       *testing.T
	p       *Parser
	height  int
	shifts  int
	reduces int
	accepts int
}

func (h *heightChecker) check(event string) {
	if h.p.Depth() != h.height {
		h.t.Errorf("%s: parser depth %d, observer height %d", event, h.p.Depth(), h.height)
	}
	if len(h.p.statuses) != len(h.p.symbols) {
		h.t.Errorf("%s: %d statuses but %d symbols", event, len(h.p.statuses), len(h.p.symbols))
	}
}

func (h *heightChecker) OnShift(status lrtable.Status, tok lexer.Token) {
	h.check("shift " + tok.String())
	if status != h.p.top() {
		h.t.Errorf("shift saw status %d, top is %d", status, h.p.top())
	}
	h.height++
	h.shifts++
}

func (h *heightChecker) OnReduce(status lrtable.Status, prod grammar.Production) {
	h.check("reduce " + prod.String())
	if status != h.p.top() {
		h.t.Errorf("reduce saw status %d, top is %d", status, h.p.top())
	}
	if len(prod.Body) > h.height {
		h.t.Errorf("reduce %s pops %d of %d symbols", prod, len(prod.Body), h.height)
	}
	h.height = h.height - len(prod.Body) + 1
	h.reduces++
}

func (h *heightChecker) OnAccept(lrtable.Status) {
	h.check("accept")
	h.accepts++
}

func TestStackHeights(t *testing.T) {
	src := "int a; int b; a = (1 + 2) * 3 - 4; b = a * a + 5; return b - a;"
	checker := &heightChecker{t: t}
	p := newParser(t, src, checker)
	checker.p = p

	if err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if checker.shifts != len(tokenize(t, src))-1 {
		t.Errorf("got %d shifts, want one per token", checker.shifts)
	}
	if checker.accepts != 1 {
		t.Errorf("got %d accepts, want 1", checker.accepts)
	}
	// After accepting only the start symbol is left.
	if p.Depth() != 1 || checker.height != 1 {
		t.Errorf("final depth %d, observer height %d, want 1", p.Depth(), checker.height)
	}
}

type recorder struct {
	name   string
	events *[]string
}

func (r recorder) OnShift(lrtable.Status, lexer.Token) {
	*r.events = append(*r.events, r.name+":shift")
}

func (r recorder) OnReduce(lrtable.Status, grammar.Production) {
	*r.events = append(*r.events, r.name+":reduce")
}

func (r recorder) OnAccept(lrtable.Status) {
	*r.events = append(*r.events, r.name+":accept")
}

func TestObserversNotifiedInRegistrationOrder(t *testing.T) {
	var events []string
	p := newParser(t, "return 1;", recorder{"a", &events}, recorder{"b", &events})
	if err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) == 0 || len(events)%2 != 0 {
		t.Fatalf("unexpected events: %v", events)
	}
	for i := 0; i < len(events); i += 2 {
		if !strings.HasPrefix(events[i], "a:") || !strings.HasPrefix(events[i+1], "b:") ||
			events[i][2:] != events[i+1][2:] {
			t.Errorf("events %d and %d out of order: %s, %s", i, i+1, events[i], events[i+1])
		}
	}
	if last := events[len(events)-1]; last != "b:accept" {
		t.Errorf("last event = %s, want b:accept", last)
	}
}

func TestTracer(t *testing.T) {
	var buf bytes.Buffer
	if err := newParser(t, "return 7;", NewTracer(&buf)).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "[0] shift (return,)" {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[len(lines)-1], "] accept") {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
	if !strings.Contains(buf.String(), "reduce 15: B -> IntConst") {
		t.Errorf("trace does not mention B -> IntConst:\n%s", buf.String())
	}
}

func TestLoadTokensAppendsSingleEOF(t *testing.T) {
	p := New()
	p.LoadTokens([]lexer.Token{lexer.Simple(lexer.KindReturn), lexer.Normal(lexer.KindIntConst, "1"), lexer.Simple(lexer.KindSemicolon)})
	if len(p.tokens) != 4 || p.tokens[3].Kind != lexer.KindEOF {
		t.Errorf("tokens = %v, want an EOF appended", p.tokens)
	}

	p.LoadTokens(tokenize(t, "return 1;"))
	if len(p.tokens) != 4 {
		t.Errorf("tokens = %v, want no second EOF", p.tokens)
	}

	p.LoadTable(toyTable(t))
	if err := p.Run(); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestSyntaxErrors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{"missing identifier", "int ;", "1:5: unexpected token Semicolon"},
		{"missing semicolon", "a = 1", "1:6: unexpected end of input"},
		{"empty program", "", "1:1: unexpected end of input"},
		{"unsupported operator", "a = b / c;", "1:7: unexpected token /"},
		{"identifier in the wrong place", "return a b;", `1:10: unexpected token id "b"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := newParser(t, tc.src).Run()
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Run() = %v, want a *SyntaxError", err)
			}
			if err.Error() != tc.expected {
				t.Errorf("error = %q, want %q", err, tc.expected)
			}
		})
	}
}

// fakeTable returns fixed answers, used to simulate broken tables.
type fakeTable struct {
	action   lrtable.Action
	gotoOK   bool
	gotoNext lrtable.Status
}

func (f fakeTable) Initial() lrtable.Status { return 0 }

func (f fakeTable) Action(lrtable.Status, lexer.Kind) lrtable.Action { return f.action }

func (f fakeTable) Goto(lrtable.Status, grammar.Symbol) (lrtable.Status, bool) {
	return f.gotoNext, f.gotoOK
}

func TestTableInconsistency(t *testing.T) {
	long := grammar.Production{Index: 99, Head: "X", Body: []grammar.Symbol{grammar.N("Y"), grammar.N("Z")}}
	short := grammar.Production{Index: 98, Head: "X", Body: []grammar.Symbol{grammar.T(lexer.KindIdent)}}

	testCases := []struct {
		name  string
		table lrtable.Table
	}{
		{"unknown action kind", fakeTable{action: lrtable.Action{Kind: lrtable.ActionKind(42)}}},
		{"reduce past the bottom", fakeTable{action: lrtable.Reduce(long)}},
		{"missing goto", fakeTable{action: lrtable.Reduce(short)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := New()
			p.LoadTokens([]lexer.Token{lexer.Normal(lexer.KindIdent, "a")})
			p.LoadTable(tc.table)
			if tc.name == "missing goto" {
				// Put one symbol on the stack so the reduction itself is legal.
				p.shift(0, lexer.Normal(lexer.KindIdent, "a"), 1)
			}

			err := p.Run()
			if !errors.Is(err, ErrTableInconsistent) {
				t.Errorf("Run() = %v, want ErrTableInconsistent", err)
			}
		})
	}

	if err := New().Run(); !errors.Is(err, ErrTableInconsistent) {
		t.Errorf("Run() without a table = %v, want ErrTableInconsistent", err)
	}
}

func TestSymbol(t *testing.T) {
	tok := lexer.Normal(lexer.KindIdent, "x")
	term := Terminal(tok)
	if !term.IsTerminal() || term.Token() != tok || term.Grammar() != grammar.T(lexer.KindIdent) {
		t.Errorf("terminal symbol %v is malformed", term)
	}

	typed := TypedNonterminal("D", symtab.TypeInt)
	if typed.IsTerminal() || typed.Grammar() != grammar.N("D") || typed.String() != "D:Int" {
		t.Errorf("typed nonterminal %v is malformed", typed)
	}
	if Nonterminal("S").String() != "S" {
		t.Errorf("nonterminal string = %q", Nonterminal("S").String())
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Token() on a nonterminal did not panic")
		}
	}()
	typed.Token()
}
