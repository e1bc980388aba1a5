package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iley/lrcc/internal/codegen"
	"github.com/iley/lrcc/internal/codegen/riscv"
	"github.com/iley/lrcc/internal/compiler"
	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lrtable"
)

var (
	outputFile string
	targetName string
	registers  string
	tablePath  string
	assembler  string
	savePath   string
)

var rootCmd = &cobra.Command{
	Use:   "lr",
	Short: "Toy language build tool",
	Long:  "A build tool for the toy language compiled by the LR(1) driven lrcc pipeline.",
}

var buildCmd = &cobra.Command{
	Use:   "build <file.toy>... | <directory>",
	Short: "Compile toy programs",
	Long:  "Compile one or more .toy source files, or every .toy file in a directory, to assembly.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var toyFiles []string

		if len(args) == 1 {
			arg := args[0]
			if stat, err := os.Stat(arg); err != nil {
				return fmt.Errorf("path %s does not exist", arg)
			} else if stat.IsDir() {
				files, err := findToyFiles(arg)
				if err != nil {
					return fmt.Errorf("failed to find .toy files in directory %s: %w", arg, err)
				}
				if len(files) == 0 {
					return fmt.Errorf("no .toy files found in directory %s", arg)
				}
				toyFiles = files
			} else {
				toyFiles = []string{arg}
			}
		} else {
			for _, arg := range args {
				if stat, err := os.Stat(arg); err != nil {
					return fmt.Errorf("file %s does not exist", arg)
				} else if stat.IsDir() {
					return fmt.Errorf("cannot mix directories and files in build arguments")
				}
			}
			toyFiles = args
		}

		if len(toyFiles) > 1 && outputFile != "" {
			return fmt.Errorf("output file (-o) can only be used with a single input file")
		}

		target, err := codegen.TargetFromName(targetName)
		if err != nil {
			return err
		}
		config := riscv.DefaultConfig()
		if registers != "" {
			config.Registers = riscv.ParseRegisters(registers)
		}

		cmd.SilenceUsage = true
		for _, toyFile := range toyFiles {
			if err := buildFile(toyFile, target, config); err != nil {
				return err
			}
		}
		return nil
	},
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the parsing table",
	Long:  "Build the LR(1) table of the toy grammar and print it as CSV, optionally saving it for later compilations.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := grammar.Toy()
		table, err := lrtable.Build(g)
		if err != nil {
			return err
		}
		if savePath != "" {
			if err := lrtable.Save(savePath, table); err != nil {
				return err
			}
		}
		return lrtable.Print(cmd.OutOrStdout(), table, g)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file name")
	buildCmd.Flags().StringVarP(&targetName, "target", "t", "riscv", "target: riscv or llvm")
	buildCmd.Flags().StringVar(&registers, "regs", "", "comma-separated register pool")
	buildCmd.Flags().StringVar(&tablePath, "table", "", "parsing table cache file")
	buildCmd.Flags().StringVar(&assembler, "as", "", "assembler to run on the generated code, e.g. riscv64-linux-gnu-as")
	tableCmd.Flags().StringVar(&savePath, "save", "", "save the table to this file")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tableCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// findToyFiles scans a directory for .toy files
func findToyFiles(dir string) ([]string, error) {
	var toyFiles []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".toy") {
			toyFiles = append(toyFiles, filepath.Join(dir, entry.Name()))
		}
	}

	return toyFiles, nil
}

func buildFile(toyFile string, target codegen.Target, config riscv.Config) error {
	src, err := os.Open(toyFile)
	if err != nil {
		return err
	}
	defer src.Close()

	result, err := compiler.Compile(src, compiler.Options{TablePath: tablePath})
	if result != nil {
		for _, lexErr := range result.LexErrors {
			fmt.Fprintf(os.Stderr, "%s:%s\n", toyFile, lexErr)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(os.Stderr, "%s:%s (warning)\n", toyFile, warning)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", toyFile, err)
	}

	var code bytes.Buffer
	if err := codegen.Generate(&code, target, result.Ops, config); err != nil {
		return fmt.Errorf("%s: %w", toyFile, err)
	}

	outFile := outputFile
	if outFile == "" {
		ext := ".s"
		if target == codegen.TargetLLVM {
			ext = ".ll"
		}
		outFile = strings.TrimSuffix(toyFile, filepath.Ext(toyFile)) + ext
	}
	if err := os.WriteFile(outFile, code.Bytes(), 0o644); err != nil {
		return err
	}

	if assembler != "" {
		objFile := strings.TrimSuffix(outFile, filepath.Ext(outFile)) + ".o"
		asCmd := exec.Command(assembler, "-o", objFile, outFile)
		if output, err := asCmd.CombinedOutput(); err != nil {
			return fmt.Errorf("assembly failed: %w\nOutput: %s", err, string(output))
		}
	}

	fmt.Printf("Built %s\n", outFile)
	return nil
}
