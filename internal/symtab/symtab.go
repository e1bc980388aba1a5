package symtab

import (
	"fmt"
	"io"
	"slices"
)

// SourceType is the declared type of a source-level variable.
type SourceType int

const (
	TypeNone SourceType = iota
	TypeInt
)

func (t SourceType) String() string {
	switch t {
	case TypeNone:
		return "null"
	case TypeInt:
		return "Int"
	default:
		return "UNKNOWN"
	}
}

type Entry struct {
	Text string
	Type SourceType
}

// Table maps identifier text to its entry. The scanner adds entries with an
// unset type; the type propagation pass fills the type in later.
type Table struct {
	entries map[string]*Entry
}

func New() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

func (t *Table) Has(text string) bool {
	_, ok := t.entries[text]
	return ok
}

// Add registers a new identifier. Adding a name twice is a bug in the caller.
func (t *Table) Add(text string) *Entry {
	if t.Has(text) {
		panic(fmt.Sprintf("symbol %q already registered", text))
	}
	e := &Entry{Text: text}
	t.entries[text] = e
	return e
}

func (t *Table) Get(text string) (*Entry, bool) {
	e, ok := t.entries[text]
	return e, ok
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Names returns all registered identifiers in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Print writes one "name type" line per entry, sorted by name.
func (t *Table) Print(writer io.Writer) {
	for _, name := range t.Names() {
		fmt.Fprintf(writer, "(%s, %s)\n", name, t.entries[name].Type)
	}
}
