package lrtable

import (
	"fmt"

	"github.com/iley/lrcc/internal/grammar"
	"github.com/iley/lrcc/internal/lexer"
)

// Status identifies an automaton state.
type Status int

type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (k ActionKind) String() string {
	switch k {
	case ActionError:
		return "error"
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is what the automaton does for a (status, lookahead) pair. Status is
// only set for shifts, Production only for reductions. The zero Action means
// the table has no entry for the pair.
type Action struct {
	Kind       ActionKind
	Status     Status
	Production grammar.Production
}

func Shift(next Status) Action {
	return Action{Kind: ActionShift, Status: next}
}

func Reduce(p grammar.Production) Action {
	return Action{Kind: ActionReduce, Production: p}
}

func Accept() Action {
	return Action{Kind: ActionAccept}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionShift:
		return fmt.Sprintf("shift %d", a.Status)
	case ActionReduce:
		return fmt.Sprintf("reduce %d", a.Production.Index)
	case ActionAccept:
		return "accept"
	default:
		return a.Kind.String()
	}
}

// Table is the boundary the parsing automaton consumes.
type Table interface {
	Initial() Status
	Action(status Status, lookahead lexer.Kind) Action
	Goto(status Status, nonterminal grammar.Symbol) (Status, bool)
}

// Entry is the serialized form of an action: the operand is the target status
// for shifts and the production index for reductions.
type Entry struct {
	Kind    ActionKind
	Operand int
}

type Row struct {
	Actions map[lexer.Kind]Entry
	Gotos   map[string]Status
}

// LRTable is an action/goto table over a fixed set of productions.
type LRTable struct {
	Productions []grammar.Production
	Rows        []Row
	Start       Status
}

func (t *LRTable) Initial() Status {
	return t.Start
}

func (t *LRTable) Action(status Status, lookahead lexer.Kind) Action {
	if int(status) < 0 || int(status) >= len(t.Rows) {
		return Action{}
	}
	e, ok := t.Rows[status].Actions[lookahead]
	if !ok {
		return Action{}
	}
	switch e.Kind {
	case ActionShift:
		return Shift(Status(e.Operand))
	case ActionReduce:
		p, ok := t.production(e.Operand)
		if !ok {
			return Action{}
		}
		return Reduce(p)
	default:
		return Action{Kind: e.Kind}
	}
}

func (t *LRTable) Goto(status Status, nonterminal grammar.Symbol) (Status, bool) {
	if int(status) < 0 || int(status) >= len(t.Rows) || nonterminal.IsTerminal() {
		return 0, false
	}
	next, ok := t.Rows[status].Gotos[nonterminal.Nonterminal]
	return next, ok
}

// StatusCount returns the number of automaton states.
func (t *LRTable) StatusCount() int {
	return len(t.Rows)
}

func (t *LRTable) production(index int) (grammar.Production, bool) {
	for _, p := range t.Productions {
		if p.Index == index {
			return p, true
		}
	}
	return grammar.Production{}, false
}
