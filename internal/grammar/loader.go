package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iley/lrcc/internal/lexer"
)

var terminalNames = func() map[string]lexer.Kind {
	names := make(map[string]lexer.Kind)
	for k := lexer.KindEOF; k <= lexer.KindIntConst; k++ {
		names[k.String()] = k
	}
	return names
}()

// Parse reads a grammar in the "Head -> sym sym ...;" format, one production
// per line. Words naming a token kind (see lexer.Kind.String) are terminals,
// everything else is a nonterminal. Productions get indices 1, 2, ... in the
// order they appear, and the head of the first one is the start symbol.
func Parse(r io.Reader) (*Grammar, error) {
	g := &Grammar{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p, err := parseProduction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		p.Index = len(g.Productions) + 1
		g.Productions = append(g.Productions, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(g.Productions) == 0 {
		return nil, fmt.Errorf("grammar has no productions")
	}
	g.Start = g.Productions[0].Head

	heads := make(map[string]bool)
	for _, p := range g.Productions {
		heads[p.Head] = true
	}
	for _, p := range g.Productions {
		for _, sym := range p.Body {
			if !sym.IsTerminal() && !heads[sym.Nonterminal] {
				return nil, fmt.Errorf("production %d (%s): nonterminal %s has no productions", p.Index, p, sym.Nonterminal)
			}
		}
	}

	return g, nil
}

func parseProduction(line string) (Production, error) {
	if !strings.HasSuffix(line, ";") {
		return Production{}, fmt.Errorf("production must end with ';': %q", line)
	}
	line = strings.TrimSuffix(line, ";")

	head, body, ok := strings.Cut(line, "->")
	if !ok {
		return Production{}, fmt.Errorf("missing '->' in %q", line)
	}

	head = strings.TrimSpace(head)
	if head == "" || strings.ContainsAny(head, " \t") {
		return Production{}, fmt.Errorf("invalid production head %q", head)
	}
	if _, isTerminal := terminalNames[head]; isTerminal {
		return Production{}, fmt.Errorf("terminal %s cannot be a production head", head)
	}

	p := Production{Head: head}
	for _, word := range strings.Fields(body) {
		if kind, isTerminal := terminalNames[word]; isTerminal {
			if kind == lexer.KindEOF {
				return Production{}, fmt.Errorf("end of input marker cannot appear in a production body")
			}
			p.Body = append(p.Body, T(kind))
		} else {
			p.Body = append(p.Body, N(word))
		}
	}
	if len(p.Body) == 0 {
		return Production{}, fmt.Errorf("empty body in production for %s", head)
	}

	return p, nil
}
