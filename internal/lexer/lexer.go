package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/iley/lrcc/internal/symtab"
)

type Kind int

// Token kinds
const (
	KindEOF Kind = iota
	KindInt
	KindReturn
	KindAssign
	KindComma
	KindSemicolon
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindLParen
	KindRParen
	KindIdent
	KindIntConst
)

// String returns the kind's name as it appears in grammar files and token dumps.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "$"
	case KindInt:
		return "int"
	case KindReturn:
		return "return"
	case KindAssign:
		return "="
	case KindComma:
		return ","
	case KindSemicolon:
		return "Semicolon"
	case KindPlus:
		return "+"
	case KindMinus:
		return "-"
	case KindStar:
		return "*"
	case KindSlash:
		return "/"
	case KindLParen:
		return "("
	case KindRParen:
		return ")"
	case KindIdent:
		return "id"
	case KindIntConst:
		return "IntConst"
	default:
		return "UNKNOWN"
	}
}

var keywords = map[string]Kind{
	"int":    KindInt,
	"return": KindReturn,
}

var singleCharTokens = map[rune]Kind{
	'=': KindAssign,
	',': KindComma,
	';': KindSemicolon,
	'+': KindPlus,
	'-': KindMinus,
	'*': KindStar,
	'(': KindLParen,
	')': KindRParen,
}

type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

type Token struct {
	Kind Kind
	Text string // only set for identifiers and integer constants
	Loc  Location
}

func (t Token) String() string {
	return fmt.Sprintf("(%s,%s)", t.Kind, t.Text)
}

func Simple(kind Kind) Token {
	return Token{Kind: kind}
}

func Normal(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

func EOF() Token {
	return Token{Kind: KindEOF}
}

// Error describes a character the scanner could not make sense of.
type Error struct {
	Char rune
	Loc  Location
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Loc, e.Char)
}

// ConstantError means an integer constant does not fit in 64 bits. Unlike a
// bad character it cannot be skipped, so it stops scanning.
type ConstantError struct {
	Text string
	Loc  Location
}

func (e *ConstantError) Error() string {
	return fmt.Sprintf("%s: integer constant %s is out of range", e.Loc, e.Text)
}

type Lexer struct {
	input     *bufio.Reader
	symbols   *symtab.Table
	errors    []error
	line      int
	col       int
	prevCol   int
	lastRune  rune
	hasUnread bool
}

// New creates a lexer that registers every identifier it sees in symbols.
func New(inputReader io.Reader, symbols *symtab.Table) *Lexer {
	return &Lexer{
		input:   bufio.NewReader(inputReader),
		symbols: symbols,
		line:    1,
		col:     1,
		prevCol: 1,
	}
}

// Errors returns the lexical errors reported so far. Offending characters are
// skipped, so a non-empty result does not stop the token stream.
func (l *Lexer) Errors() []error {
	return l.errors
}

func (l *Lexer) readRune() (rune, error) {
	var r rune
	var err error

	if l.hasUnread {
		l.hasUnread = false
		r = l.lastRune
	} else {
		l.prevCol = l.col
		r, _, err = l.input.ReadRune()
	}

	if err != nil {
		return 0, err
	}

	l.lastRune = r
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, nil
}

// unreadRune puts back the last read rune.
// Should be called at most once per readRune.
func (l *Lexer) unreadRune() {
	l.hasUnread = true
	if l.lastRune == '\n' {
		l.line--
	}
	l.col = l.prevCol
}

func (l *Lexer) skipSpace() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !unicode.IsSpace(r) {
			l.unreadRune()
			return nil
		}
	}
}

// skipComment skips a C++ style comment (from // to end of line)
func (l *Lexer) skipComment() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// Next returns the next token from the input. At the end of input it returns
// an EOF token. The error is set for I/O failures and for a *ConstantError.
func (l *Lexer) Next() (Token, error) {
	for {
		if err := l.skipSpace(); err != nil {
			return EOF(), err
		}
		loc := Location{Line: l.line, Col: l.col}
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return Token{Kind: KindEOF, Loc: loc}, nil
			}
			return EOF(), err
		}

		switch {
		case unicode.IsLetter(r) || r == '_':
			l.unreadRune()
			return l.lexWord(loc)
		case isDigit(r):
			l.unreadRune()
			return l.lexNumber(loc)
		case r == '/':
			next, err := l.readRune()
			if err != nil && err != io.EOF {
				return EOF(), err
			}
			if err == nil && next == '/' {
				if err := l.skipComment(); err != nil {
					return EOF(), err
				}
				continue
			}
			if err == nil {
				l.unreadRune()
			}
			return Token{Kind: KindSlash, Loc: loc}, nil
		}

		if kind, ok := singleCharTokens[r]; ok {
			return Token{Kind: kind, Loc: loc}, nil
		}

		// Report the character and carry on with the rest of the input.
		l.errors = append(l.errors, &Error{Char: r, Loc: loc})
	}
}

// Tokenize reads the whole input. The returned slice always ends with an EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) lexWord(loc Location) (Token, error) {
	var sb strings.Builder
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return EOF(), err
		}
		if !unicode.IsLetter(r) && !isDigit(r) && r != '_' {
			l.unreadRune()
			break
		}
		sb.WriteRune(r)
	}

	word := sb.String()
	if kind, ok := keywords[word]; ok {
		return Token{Kind: kind, Loc: loc}, nil
	}

	if !l.symbols.Has(word) {
		l.symbols.Add(word)
	}
	return Token{Kind: KindIdent, Text: word, Loc: loc}, nil
}

func (l *Lexer) lexNumber(loc Location) (Token, error) {
	var sb strings.Builder
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return EOF(), err
		}
		if !isDigit(r) {
			l.unreadRune()
			break
		}
		sb.WriteRune(r)
	}

	text := sb.String()
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return EOF(), &ConstantError{Text: text, Loc: loc}
	}
	return Token{Kind: KindIntConst, Text: text, Loc: loc}, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Print writes one token per line in the (kind,text) form.
func Print(writer io.Writer, tokens []Token) {
	for _, tok := range tokens {
		fmt.Fprintf(writer, "%s\n", tok)
	}
}
