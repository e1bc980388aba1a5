package lexer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/iley/lrcc/internal/symtab"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty input",
			input: "",
			expected: []Token{
				{Kind: KindEOF, Loc: Location{Line: 1, Col: 1}},
			},
		},
		{
			name:  "declaration",
			input: "int a;",
			expected: []Token{
				{Kind: KindInt, Loc: Location{Line: 1, Col: 1}},
				{Kind: KindIdent, Text: "a", Loc: Location{Line: 1, Col: 5}},
				{Kind: KindSemicolon, Loc: Location{Line: 1, Col: 6}},
				{Kind: KindEOF, Loc: Location{Line: 1, Col: 7}},
			},
		},
		{
			name:  "assignment with arithmetic",
			input: "a = (1 + b2) * 30 - c;",
			expected: []Token{
				{Kind: KindIdent, Text: "a", Loc: Location{Line: 1, Col: 1}},
				{Kind: KindAssign, Loc: Location{Line: 1, Col: 3}},
				{Kind: KindLParen, Loc: Location{Line: 1, Col: 5}},
				{Kind: KindIntConst, Text: "1", Loc: Location{Line: 1, Col: 6}},
				{Kind: KindPlus, Loc: Location{Line: 1, Col: 8}},
				{Kind: KindIdent, Text: "b2", Loc: Location{Line: 1, Col: 10}},
				{Kind: KindRParen, Loc: Location{Line: 1, Col: 12}},
				{Kind: KindStar, Loc: Location{Line: 1, Col: 14}},
				{Kind: KindIntConst, Text: "30", Loc: Location{Line: 1, Col: 16}},
				{Kind: KindMinus, Loc: Location{Line: 1, Col: 19}},
				{Kind: KindIdent, Text: "c", Loc: Location{Line: 1, Col: 21}},
				{Kind: KindSemicolon, Loc: Location{Line: 1, Col: 22}},
				{Kind: KindEOF, Loc: Location{Line: 1, Col: 23}},
			},
		},
		{
			name:  "keywords on several lines",
			input: "int x;\nreturn x;",
			expected: []Token{
				{Kind: KindInt, Loc: Location{Line: 1, Col: 1}},
				{Kind: KindIdent, Text: "x", Loc: Location{Line: 1, Col: 5}},
				{Kind: KindSemicolon, Loc: Location{Line: 1, Col: 6}},
				{Kind: KindReturn, Loc: Location{Line: 2, Col: 1}},
				{Kind: KindIdent, Text: "x", Loc: Location{Line: 2, Col: 8}},
				{Kind: KindSemicolon, Loc: Location{Line: 2, Col: 9}},
				{Kind: KindEOF, Loc: Location{Line: 2, Col: 10}},
			},
		},
		{
			name:  "keyword prefix is an identifier",
			input: "integer returned",
			expected: []Token{
				{Kind: KindIdent, Text: "integer", Loc: Location{Line: 1, Col: 1}},
				{Kind: KindIdent, Text: "returned", Loc: Location{Line: 1, Col: 9}},
				{Kind: KindEOF, Loc: Location{Line: 1, Col: 17}},
			},
		},
		{
			name:  "comma and slash",
			input: "a,b/c",
			expected: []Token{
				{Kind: KindIdent, Text: "a", Loc: Location{Line: 1, Col: 1}},
				{Kind: KindComma, Loc: Location{Line: 1, Col: 2}},
				{Kind: KindIdent, Text: "b", Loc: Location{Line: 1, Col: 3}},
				{Kind: KindSlash, Loc: Location{Line: 1, Col: 4}},
				{Kind: KindIdent, Text: "c", Loc: Location{Line: 1, Col: 5}},
				{Kind: KindEOF, Loc: Location{Line: 1, Col: 6}},
			},
		},
		{
			name:  "comment",
			input: "a // the rest is ignored ;\n;",
			expected: []Token{
				{Kind: KindIdent, Text: "a", Loc: Location{Line: 1, Col: 1}},
				{Kind: KindSemicolon, Loc: Location{Line: 2, Col: 1}},
				{Kind: KindEOF, Loc: Location{Line: 2, Col: 2}},
			},
		},
		{
			name:  "slash at end of input",
			input: "/",
			expected: []Token{
				{Kind: KindSlash, Loc: Location{Line: 1, Col: 1}},
				{Kind: KindEOF, Loc: Location{Line: 1, Col: 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := New(strings.NewReader(tt.input), symtab.New())
			tokens, err := lex.Tokenize()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tokens, tt.expected) {
				t.Errorf("tokens mismatch\n got: %v\nwant: %v", tokens, tt.expected)
			}
			if len(lex.Errors()) != 0 {
				t.Errorf("unexpected lexical errors: %v", lex.Errors())
			}
		})
	}
}

func TestLexerRegistersIdentifiers(t *testing.T) {
	symbols := symtab.New()
	lex := New(strings.NewReader("int a; int b; a = b + a; return a;"), symbols)
	if _, err := lex.Tokenize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b"}
	if got := symbols.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("symbols = %v, want %v", got, want)
	}
	for _, name := range want {
		entry, _ := symbols.Get(name)
		if entry.Type != symtab.TypeNone {
			t.Errorf("entry %s has type %s before type propagation", name, entry.Type)
		}
	}
}

func TestLexerSkipsBadCharacters(t *testing.T) {
	lex := New(strings.NewReader("a = 1 # 2;\n@b;"), symtab.New())
	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kinds []Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	wantKinds := []Kind{KindIdent, KindAssign, KindIntConst, KindIntConst, KindSemicolon, KindIdent, KindSemicolon, KindEOF}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("kinds = %v, want %v", kinds, wantKinds)
	}

	errs := lex.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}

	var lexErr *Error
	if !errors.As(errs[0], &lexErr) {
		t.Fatalf("error %v is not a *Error", errs[0])
	}
	if lexErr.Char != '#' || lexErr.Loc != (Location{Line: 1, Col: 7}) {
		t.Errorf("first error = %+v", lexErr)
	}
	if got, want := errs[1].Error(), `2:1: unexpected character '@'`; got != want {
		t.Errorf("second error = %q, want %q", got, want)
	}
}

func TestLexerIntegerRange(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"a = 9223372036854775807;", ""},
		{"a = 9223372036854775808;", "1:5: integer constant 9223372036854775808 is out of range"},
		{"return 1;\nreturn 99999999999999999999;", "2:8: integer constant 99999999999999999999 is out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New(strings.NewReader(tt.input), symtab.New()).Tokenize()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var constErr *ConstantError
			if !errors.As(err, &constErr) {
				t.Fatalf("Tokenize() = %v, want a *ConstantError", err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		token    Token
		expected string
	}{
		{Simple(KindInt), "(int,)"},
		{Simple(KindSemicolon), "(Semicolon,)"},
		{Normal(KindIdent, "abc"), "(id,abc)"},
		{Normal(KindIntConst, "42"), "(IntConst,42)"},
		{EOF(), "($,)"},
	}

	for _, tt := range tests {
		if got := tt.token.String(); got != tt.expected {
			t.Errorf("%#v.String() = %q, want %q", tt.token, got, tt.expected)
		}
	}
}
