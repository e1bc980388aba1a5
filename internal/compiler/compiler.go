package compiler

import (
	"fmt"
	"io"

	"github.com/iley/lrcc/internal/checks"
	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/ir"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
	"github.com/iley/lrcc/internal/parser"
	"github.com/iley/lrcc/internal/semantic"
	"github.com/iley/lrcc/internal/symtab"
)

type Options struct {
	// Table drives the parser. When nil, the table for the toy grammar is
	// loaded from TablePath or built.
	Table     lrtable.Table
	TablePath string
	// Trace receives every parser action when set.
	Trace io.Writer
	// Observers are notified before the built-in passes.
	Observers []parser.Observer
}

// Result holds every artifact of the front end.
type Result struct {
	Tokens      []lexer.Token
	LexErrors   []error
	Warnings    []error
	Symbols     *symtab.Table
	Productions []grammar.Production
	Ops         []ir.Op
}

// Compile runs the scanner, the parser and both translation passes over src.
// Bad characters and variable warnings do not stop compilation; they are
// returned in the result. An integer constant out of range does.
// On a parse error the partial result is returned along with the error.
func Compile(src io.Reader, opts Options) (*Result, error) {
	table := opts.Table
	if table == nil {
		t, err := lrtable.LoadOrBuild(opts.TablePath, grammar.Toy())
		if err != nil {
			return nil, fmt.Errorf("error preparing the parsing table: %w", err)
		}
		table = t
	}

	symbols := symtab.New()
	lex := lexer.New(src, symbols)
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, fmt.Errorf("error scanning source: %w", err)
	}

	result := &Result{
		Tokens:    tokens,
		LexErrors: lex.Errors(),
		Symbols:   symbols,
	}

	pl := newPipeline(symbols, opts)
	if err := pl.run(tokens, table); err != nil {
		return result, fmt.Errorf("error parsing program: %w", err)
	}

	result.Warnings = pl.vars.Errors()
	result.Productions = pl.collector.Productions()
	result.Ops = pl.irg.Ops()
	return result, nil
}

// pipeline is the parser together with every observer of one compilation.
type pipeline struct {
	parser    *parser.Parser
	collector *parser.ProductionCollector
	vars      *checks.VariableChecker
	types     *semantic.TypePass
	irg       *ir.Generator
}

func newPipeline(symbols *symtab.Table, opts Options) *pipeline {
	pl := &pipeline{
		parser:    parser.New(),
		collector: parser.NewProductionCollector(),
		vars:      checks.NewVariableChecker(),
		types:     semantic.NewTypePass(symbols),
		irg:       ir.NewGenerator(),
	}

	if opts.Trace != nil {
		pl.parser.Register(parser.NewTracer(opts.Trace))
	}
	for _, o := range opts.Observers {
		pl.parser.Register(o)
	}
	pl.parser.Register(pl.collector)
	pl.parser.Register(pl.vars)
	pl.parser.Register(pl.types)
	pl.parser.Register(pl.irg)
	return pl
}

func (pl *pipeline) run(tokens []lexer.Token, table lrtable.Table) error {
	pl.parser.LoadTokens(tokens)
	pl.parser.LoadTable(table)
	return pl.parser.Run()
}
