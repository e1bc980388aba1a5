package lrtable

import (
	"bufio"
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
)

// Load reads a table previously written by Save.
func Load(path string) (*LRTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t := &LRTable{}
	if err := gob.NewDecoder(bufio.NewReader(file)).Decode(t); err != nil {
		return nil, fmt.Errorf("decoding table %s: %w", path, err)
	}
	return t, nil
}

// Save writes the table to path, creating or truncating the file.
func Save(path string, t *LRTable) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := gob.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encoding table %s: %w", path, err)
	}
	return w.Flush()
}

// LoadOrBuild returns the table cached at path if it can be read and was built
// for the same productions as g. Otherwise it builds a fresh table and stores
// it at path. An empty path disables caching.
func LoadOrBuild(path string, g *grammar.Grammar) (*LRTable, error) {
	if path != "" {
		if t, err := Load(path); err == nil && sameProductions(t.Productions, g.Productions) {
			return t, nil
		}
	}

	t, err := Build(g)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := Save(path, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func sameProductions(a, b []grammar.Production) bool {
	return slices.EqualFunc(a, b, func(x, y grammar.Production) bool {
		return x.Index == y.Index && x.Head == y.Head && slices.Equal(x.Body, y.Body)
	})
}

// Print writes the table as CSV: one row per status, action columns for every
// terminal followed by goto columns for every nonterminal.
func Print(writer io.Writer, t *LRTable, g *grammar.Grammar) error {
	w := csv.NewWriter(writer)
	terminals := append(g.Terminals(), lexer.KindEOF)
	nonterminals := g.Nonterminals()

	header := []string{"status"}
	for _, kind := range terminals {
		header = append(header, kind.String())
	}
	header = append(header, nonterminals...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cells := []string{fmt.Sprintf("%d", i)}
		for _, kind := range terminals {
			cell := ""
			if e, ok := row.Actions[kind]; ok {
				switch e.Kind {
				case ActionShift:
					cell = fmt.Sprintf("s%d", e.Operand)
				case ActionReduce:
					cell = fmt.Sprintf("r%d", e.Operand)
				case ActionAccept:
					cell = "acc"
				}
			}
			cells = append(cells, cell)
		}
		for _, nt := range nonterminals {
			cell := ""
			if next, ok := row.Gotos[nt]; ok {
				cell = fmt.Sprintf("%d", next)
			}
			cells = append(cells, cell)
		}
		if err := w.Write(cells); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
