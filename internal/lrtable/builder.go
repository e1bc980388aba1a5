package lrtable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
)

// augmented marks the rule S' -> Start that the builder adds to the grammar.
const augmented = -1

// lrItem is a canonical LR(1) item with a single lookahead.
type lrItem struct {
	// Rule is a position in builder.rules, not a production index.
	Rule int

	// DotPos is the index of the body symbol the dot is placed BEFORE.
	DotPos int

	Lookahead lexer.Kind
}

type rule struct {
	production int // position in the grammar's production list, or augmented
	head       string
	body       []grammar.Symbol
}

type itemSet struct {
	items []lrItem
	key   string

	terminalConns    map[lexer.Kind]int
	nonterminalConns map[string]int
}

type builder struct {
	g         *grammar.Grammar
	rules     []rule
	rulesOf   map[string][]int
	firstSets map[string]map[lexer.Kind]bool
	sets      []*itemSet
	setIndex  map[string]int
}

// ConflictError reports a grammar that is not LR(1).
type ConflictError struct {
	Status    Status
	Lookahead lexer.Kind
	Existing  string
	New       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict in status %d on %s: %s vs %s", e.Status, e.Lookahead, e.Existing, e.New)
}

// Build constructs the canonical LR(1) action/goto table for g. Grammars with
// shift/reduce or reduce/reduce conflicts are rejected with a *ConflictError.
func Build(g *grammar.Grammar) (*LRTable, error) {
	b := &builder{
		g:         g,
		rulesOf:   make(map[string][]int),
		firstSets: make(map[string]map[lexer.Kind]bool),
		setIndex:  make(map[string]int),
	}

	b.rules = append(b.rules, rule{production: augmented, head: g.Start + "'", body: []grammar.Symbol{grammar.N(g.Start)}})
	for i, p := range g.Productions {
		b.rulesOf[p.Head] = append(b.rulesOf[p.Head], len(b.rules))
		b.rules = append(b.rules, rule{production: i, head: p.Head, body: p.Body})
	}

	b.computeFirstSets()

	start := b.closureOf([]lrItem{{Rule: 0, DotPos: 0, Lookahead: lexer.KindEOF}})
	b.addSet(start)

	// Sets are appended while we walk the list, so this visits every reachable set once.
	for i := 0; i < len(b.sets); i++ {
		b.connect(b.sets[i])
	}

	return b.table()
}

// computeFirstSets iterates to a fixed point. The grammar has no empty bodies,
// so FIRST of a body is FIRST of its first symbol.
func (b *builder) computeFirstSets() {
	for _, nt := range b.g.Nonterminals() {
		b.firstSets[nt] = make(map[lexer.Kind]bool)
	}

	changed := true
	for changed {
		changed = false
		for _, r := range b.rules[1:] {
			for kind := range b.first(r.body[0]) {
				if !b.firstSets[r.head][kind] {
					b.firstSets[r.head][kind] = true
					changed = true
				}
			}
		}
	}
}

func (b *builder) first(sym grammar.Symbol) map[lexer.Kind]bool {
	if sym.IsTerminal() {
		return map[lexer.Kind]bool{sym.Kind: true}
	}
	return b.firstSets[sym.Nonterminal]
}

// closureOf adds [B -> .gamma, b] for every item [A -> alpha . B beta, a]
// and every b in FIRST(beta a), until nothing new appears.
func (b *builder) closureOf(kernel []lrItem) []lrItem {
	seen := make(map[lrItem]bool)
	var result []lrItem
	work := append([]lrItem(nil), kernel...)

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)

		body := b.rules[item.Rule].body
		if item.DotPos == len(body) || body[item.DotPos].IsTerminal() {
			continue
		}

		var lookaheads map[lexer.Kind]bool
		if item.DotPos+1 < len(body) {
			lookaheads = b.first(body[item.DotPos+1])
		} else {
			lookaheads = map[lexer.Kind]bool{item.Lookahead: true}
		}

		for _, ruleNdx := range b.rulesOf[body[item.DotPos].Nonterminal] {
			for la := range lookaheads {
				next := lrItem{Rule: ruleNdx, DotPos: 0, Lookahead: la}
				if !seen[next] {
					work = append(work, next)
				}
			}
		}
	}

	order(result)
	return result
}

// gotoOf moves the dot over sym in every item where it is possible and closes the result.
func (b *builder) gotoOf(items []lrItem, sym grammar.Symbol) []lrItem {
	var kernel []lrItem
	for _, item := range items {
		body := b.rules[item.Rule].body
		if item.DotPos < len(body) && body[item.DotPos] == sym {
			kernel = append(kernel, lrItem{Rule: item.Rule, DotPos: item.DotPos + 1, Lookahead: item.Lookahead})
		}
	}
	return b.closureOf(kernel)
}

func (b *builder) addSet(items []lrItem) int {
	key := itemsKey(items)
	if idx, ok := b.setIndex[key]; ok {
		return idx
	}
	idx := len(b.sets)
	b.sets = append(b.sets, &itemSet{
		items:            items,
		key:              key,
		terminalConns:    make(map[lexer.Kind]int),
		nonterminalConns: make(map[string]int),
	})
	b.setIndex[key] = idx
	return idx
}

// connect computes the successors of set for every symbol that follows a dot.
func (b *builder) connect(set *itemSet) {
	for _, item := range set.items {
		body := b.rules[item.Rule].body
		if item.DotPos == len(body) {
			continue
		}

		sym := body[item.DotPos]
		if sym.IsTerminal() {
			if _, ok := set.terminalConns[sym.Kind]; ok {
				continue
			}
		} else if _, ok := set.nonterminalConns[sym.Nonterminal]; ok {
			continue
		}

		next := b.addSet(b.gotoOf(set.items, sym))
		if sym.IsTerminal() {
			set.terminalConns[sym.Kind] = next
		} else {
			set.nonterminalConns[sym.Nonterminal] = next
		}
	}
}

func (b *builder) table() (*LRTable, error) {
	t := &LRTable{
		Productions: append([]grammar.Production(nil), b.g.Productions...),
		Rows:        make([]Row, len(b.sets)),
		Start:       0,
	}

	for i, set := range b.sets {
		row := Row{
			Actions: make(map[lexer.Kind]Entry),
			Gotos:   make(map[string]Status),
		}

		for kind, next := range set.terminalConns {
			row.Actions[kind] = Entry{Kind: ActionShift, Operand: next}
		}
		for nt, next := range set.nonterminalConns {
			row.Gotos[nt] = Status(next)
		}

		for _, item := range set.items {
			r := b.rules[item.Rule]
			if item.DotPos != len(r.body) {
				continue
			}

			var e Entry
			if r.production == augmented {
				e = Entry{Kind: ActionAccept}
			} else {
				e = Entry{Kind: ActionReduce, Operand: b.g.Productions[r.production].Index}
			}

			if existing, ok := row.Actions[item.Lookahead]; ok && existing != e {
				return nil, &ConflictError{
					Status:    Status(i),
					Lookahead: item.Lookahead,
					Existing:  describe(existing),
					New:       describe(e),
				}
			}
			row.Actions[item.Lookahead] = e
		}

		t.Rows[i] = row
	}

	return t, nil
}

func describe(e Entry) string {
	switch e.Kind {
	case ActionShift:
		return fmt.Sprintf("shift %d", e.Operand)
	case ActionReduce:
		return fmt.Sprintf("reduce %d", e.Operand)
	default:
		return e.Kind.String()
	}
}

func compare(a, b lrItem) int {
	if a.Rule != b.Rule {
		return a.Rule - b.Rule
	}
	if a.DotPos != b.DotPos {
		return a.DotPos - b.DotPos
	}
	return int(a.Lookahead) - int(b.Lookahead)
}

// order sorts the items so that equal sets produce equal keys.
func order(items []lrItem) {
	sort.Slice(items, func(i, j int) bool {
		return compare(items[i], items[j]) < 0
	})
}

func itemsKey(items []lrItem) string {
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "%d.%d.%d;", item.Rule, item.DotPos, item.Lookahead)
	}
	return sb.String()
}
