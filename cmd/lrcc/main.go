package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iley/lrcc/internal/codegen"
	"github.com/iley/lrcc/internal/codegen/riscv"
	"github.com/iley/lrcc/internal/compiler"
	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/ir"
	"github.com/iley/lrcc/internal/lexer"
	"github.com/iley/lrcc/internal/lrtable"
	"github.com/iley/lrcc/internal/parser"
)

func main() {
	outputString := flag.String("o", "", "output file name (- for stdout)")
	targetString := flag.String("t", "riscv", "what to output: tokens, symbols, productions, table, ir, riscv or llvm")
	registersString := flag.String("regs", strings.Join(riscv.DefaultConfig().Registers, ","), "comma-separated register pool")
	returnRegister := flag.String("ret", riscv.DefaultConfig().ReturnRegister, "return value register")
	tablePath := flag.String("table", "", "parsing table cache file")
	trace := flag.Bool("trace", false, "print parser actions to stderr")
	comments := flag.Bool("comments", false, "annotate assembly with the ops it was generated from")
	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: lrcc [options] <input file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFileName := flag.Arg(0)
	if *outputString == "" {
		*outputString = defaultOutputName(inputFileName, *targetString)
	}

	// Output is written only once it is complete. Failures exit before that.
	var output bytes.Buffer
	defer func() {
		if err := writeOutput(*outputString, output.Bytes()); err != nil {
			fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
			os.Exit(1)
		}
	}()

	// The table does not depend on the input.
	if *targetString == "table" {
		g := grammar.Toy()
		table, err := lrtable.LoadOrBuild(*tablePath, g)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error building parsing table: %v\n", err)
			os.Exit(1)
		}
		if err := lrtable.Print(&output, table, g); err != nil {
			fmt.Fprintf(os.Stderr, "error writing parsing table: %v\n", err)
			os.Exit(1)
		}
		return
	}

	inputFile, err := os.Open(inputFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening input file: %v\n", err)
		os.Exit(1)
	}
	defer inputFile.Close()

	opts := compiler.Options{TablePath: *tablePath}
	if *trace {
		opts.Trace = os.Stderr
	}

	result, err := compiler.Compile(inputFile, opts)
	if result != nil {
		for _, lexErr := range result.LexErrors {
			fmt.Fprintf(os.Stderr, "%s:%s\n", inputFileName, lexErr)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(os.Stderr, "%s:%s (warning)\n", inputFileName, warning)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", inputFileName, err)
		os.Exit(1)
	}

	switch *targetString {
	case "tokens":
		lexer.Print(&output, result.Tokens)
		return
	case "symbols":
		result.Symbols.Print(&output)
		return
	case "productions":
		parser.PrintProductions(&output, result.Productions)
		return
	case "ir":
		ir.Print(&output, result.Ops)
		return
	}

	target, err := codegen.TargetFromName(*targetString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing target: %v\n", err)
		os.Exit(1)
	}

	config := riscv.Config{
		Registers:      riscv.ParseRegisters(*registersString),
		ReturnRegister: *returnRegister,
		Comments:       *comments,
	}
	if err := codegen.Generate(&output, target, result.Ops, config); err != nil {
		fmt.Fprintf(os.Stderr, "error generating machine code: %v\n", err)
		os.Exit(1)
	}
}

// defaultOutputName replaces the input's extension with one matching the target.
func defaultOutputName(inputFileName, target string) string {
	ext := ".s"
	switch target {
	case "llvm":
		ext = ".ll"
	case "tokens", "symbols", "productions", "ir":
		ext = "." + target
	case "table":
		ext = ".csv"
	}
	return strings.TrimSuffix(inputFileName, filepath.Ext(inputFileName)) + ext
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
