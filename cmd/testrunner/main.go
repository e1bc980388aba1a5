package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iley/lrcc/internal/codegen"
	"github.com/iley/lrcc/internal/codegen/riscv"
	"github.com/iley/lrcc/internal/compiler"
	"github.com/iley/lrcc/internal/ir"
)

// TestCase represents a single test case
type TestCase struct {
	Name         string
	ToyFile      string
	ExpectedFile string
	// IRFile is optional. When present the generated ops are checked too.
	IRFile string
}

// discoverTests finds all test cases in the tests directory
func discoverTests(testsDir string) ([]TestCase, error) {
	var tests []TestCase

	err := filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".toy") {
			// Extract base name without extension
			baseName := strings.TrimSuffix(filepath.Base(path), ".toy")
			expectedFile := filepath.Join(testsDir, baseName+".s")

			// Check if expected output file exists
			if _, err := os.Stat(expectedFile); err == nil {
				testCase := TestCase{
					Name:         baseName,
					ToyFile:      path,
					ExpectedFile: expectedFile,
				}
				irFile := filepath.Join(testsDir, baseName+".ir")
				if _, err := os.Stat(irFile); err == nil {
					testCase.IRFile = irFile
				}
				tests = append(tests, testCase)
			}
		}

		return nil
	})

	return tests, err
}

// compileTest compiles a toy file and returns the ops and the assembly
func compileTest(testCase TestCase) (string, string, error) {
	src, err := os.Open(testCase.ToyFile)
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	result, err := compiler.Compile(src, compiler.Options{})
	if err != nil {
		return "", "", fmt.Errorf("compilation failed: %w", err)
	}
	if len(result.LexErrors) > 0 {
		return "", "", fmt.Errorf("lexical errors: %v", result.LexErrors)
	}

	var ops bytes.Buffer
	ir.Print(&ops, result.Ops)

	var code bytes.Buffer
	if err := codegen.Generate(&code, codegen.TargetRISCV, result.Ops, riscv.DefaultConfig()); err != nil {
		return "", "", fmt.Errorf("code generation failed: %w", err)
	}
	return ops.String(), code.String(), nil
}

// readExpectedOutput reads the expected output from file
func readExpectedOutput(expectedFile string) (string, error) {
	content, err := os.ReadFile(expectedFile)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// runSingleTest runs a single test case and returns pass/fail status
func runSingleTest(testCase TestCase) (bool, string) {
	fmt.Printf("Running test %s... ", testCase.Name)

	actualOps, actualCode, err := compileTest(testCase)
	if err != nil {
		return false, err.Error()
	}

	if testCase.IRFile != "" {
		expectedOps, err := readExpectedOutput(testCase.IRFile)
		if err != nil {
			return false, fmt.Sprintf("error reading expected IR: %v", err)
		}
		if actualOps != expectedOps {
			return false, fmt.Sprintf("IR mismatch:\nExpected: %q\nActual:   %q", expectedOps, actualOps)
		}
	}

	expectedCode, err := readExpectedOutput(testCase.ExpectedFile)
	if err != nil {
		return false, fmt.Sprintf("error reading expected output: %v", err)
	}
	if actualCode != expectedCode {
		return false, fmt.Sprintf("output mismatch:\nExpected: %q\nActual:   %q", expectedCode, actualCode)
	}
	return true, ""
}

// findTestCase finds a test case by number or path
func findTestCase(tests []TestCase, identifier string) (*TestCase, error) {
	// If identifier is a path, try to match it directly
	if strings.Contains(identifier, "/") || strings.HasSuffix(identifier, ".toy") {
		identifier = strings.TrimSuffix(identifier, ".toy")
		identifier = strings.TrimPrefix(identifier, "tests/")

		for _, test := range tests {
			if test.Name == identifier {
				return &test, nil
			}
		}
		return nil, fmt.Errorf("test not found: %s", identifier)
	}

	// If identifier is just a number, find test that starts with that number
	for _, test := range tests {
		if strings.HasPrefix(test.Name, identifier+"_") || test.Name == identifier {
			return &test, nil
		}
	}

	return nil, fmt.Errorf("test not found: %s", identifier)
}

func main() {
	testsDir := "tests"
	tests, err := discoverTests(testsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tests: %v\n", err)
		os.Exit(1)
	}

	if len(tests) == 0 {
		fmt.Println("No tests found in tests/ directory")
		return
	}

	// Sort tests by name for consistent ordering
	sort.Slice(tests, func(i, j int) bool {
		return tests[i].Name < tests[j].Name
	})

	var testsToRun []TestCase
	if len(os.Args) > 1 {
		testCase, err := findTestCase(tests, os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		testsToRun = []TestCase{*testCase}
		fmt.Printf("Running specific test: %s\n", testCase.Name)
	} else {
		testsToRun = tests
		if len(tests) == 1 {
			fmt.Printf("Found 1 test\n")
		} else {
			fmt.Printf("Found %d tests\n", len(tests))
		}
	}

	passed := 0
	failed := 0

	for _, test := range testsToRun {
		success, errorMsg := runSingleTest(test)
		if success {
			fmt.Println("PASS")
			passed++
		} else {
			fmt.Printf("FAIL - %s\n", errorMsg)
			failed++
		}
	}

	if failed == 0 {
		fmt.Printf("Test Results: %d passed. All good!\n", passed)
	} else {
		fmt.Printf("Test Results: %d passed, %d failed\n", passed, failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
