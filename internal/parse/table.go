package parse

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dekarrin/parsegen/internal/grammar"
	"github.com/dekarrin/parsegen/internal/icterrors"
	"github.com/dekarrin/rosed"
)

// LRParseTable is the interface the driver consumes: an ACTION entry per
// (state, terminal), a GOTO entry per (state, non-terminal), and an initial
// state. SLR(1), canonical LR(1), and LALR(1) tables all satisfy it.
type LRParseTable interface {
	Action(state, terminal string) (LRAction, bool)
	Goto(state, nonTerminal string) (string, bool)
	InitialState() string
	States() []string

	// ExpectedTerminals lists every terminal (and possibly grammar.EndOfInput)
	// with a defined ACTION in state, in table display order. The driver uses
	// this to build "expected one of X, Y, and Z" syntax error messages.
	ExpectedTerminals(state string) []string
	String() string
}

// lrTable is the shared representation built by all three table
// constructors; only how its cells get filled in differs between them.
type lrTable struct {
	kind     string
	terms    []string
	nonTerms []string
	states   []string
	start    string
	action   map[string]map[string]LRAction
	gotoT    map[string]map[string]string
}

func newLRTable(kind string, g grammar.Grammar) *lrTable {
	return &lrTable{
		kind:     kind,
		terms:    g.Terminals(),
		nonTerms: g.NonTerminals(),
		action:   map[string]map[string]LRAction{},
		gotoT:    map[string]map[string]string{},
	}
}

func (t *lrTable) Action(state, terminal string) (LRAction, bool) {
	row, ok := t.action[state]
	if !ok {
		return LRAction{}, false
	}
	a, ok := row[terminal]
	return a, ok
}

func (t *lrTable) Goto(state, nonTerminal string) (string, bool) {
	row, ok := t.gotoT[state]
	if !ok {
		return "", false
	}
	s, ok := row[nonTerminal]
	return s, ok
}

func (t *lrTable) InitialState() string {
	return t.start
}

func (t *lrTable) ExpectedTerminals(state string) []string {
	row, ok := t.action[state]
	if !ok {
		return nil
	}
	var terms []string
	for _, term := range t.terms {
		if _, ok := row[term]; ok {
			terms = append(terms, term)
		}
	}
	if _, ok := row[grammar.EndOfInput]; ok {
		terms = append(terms, grammar.EndOfInput)
	}
	return terms
}

func (t *lrTable) States() []string {
	return append([]string(nil), t.states...)
}

// setAction records that (state, symbol) resolves to act. If a different
// action is already there, this is a conflict: the function returns a
// *icterrors.ConflictError unless allowAmbig is set and the conflict is the
// classic shift/reduce case, in which case shift wins and the reduce is
// discarded, exactly as a yacc-style "shift preferred" resolution would.
// Reduce/reduce conflicts are never resolved automatically.
func (t *lrTable) setAction(state, symbol string, act LRAction, allowAmbig bool) error {
	if t.action[state] == nil {
		t.action[state] = map[string]LRAction{}
	}
	existing, ok := t.action[state][symbol]
	if !ok {
		t.action[state][symbol] = act
		return nil
	}
	if existing.Equal(act) {
		return nil
	}
	if allowAmbig {
		if existing.Type == ActionReduce && act.Type == ActionShift {
			t.action[state][symbol] = act
			return nil
		}
		if existing.Type == ActionShift && act.Type == ActionReduce {
			return nil
		}
	}
	return icterrors.NewConflict(state, symbol, existing.String(), act.String())
}

func (t *lrTable) setGoto(state, nonTerminal, target string) {
	if t.gotoT[state] == nil {
		t.gotoT[state] = map[string]string{}
	}
	t.gotoT[state][nonTerminal] = target
}

func (t *lrTable) finalize(start string, states []string) {
	t.start = start
	t.states = sortStatesNumeric(states)
}

func sortStatesNumeric(states []string) []string {
	out := append([]string(nil), states...)
	sort.Slice(out, func(i, j int) bool {
		ni, erri := strconv.Atoi(out[i])
		nj, errj := strconv.Atoi(out[j])
		if erri == nil && errj == nil {
			return ni < nj
		}
		return out[i] < out[j]
	})
	return out
}

// String renders the table as an aligned ACTION/GOTO grid: one row per
// state, one column per terminal under an ACTION heading and one per
// non-terminal under a GOTO heading.
func (t *lrTable) String() string {
	var data [][]string

	headers := []string{fmt.Sprintf("%s STATE", t.kind), "|"}
	for _, term := range t.terms {
		headers = append(headers, fmt.Sprintf("A:%s", term))
	}
	headers = append(headers, "|")
	for _, nt := range t.nonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	for _, state := range t.states {
		row := []string{state, "|"}
		for _, term := range t.terms {
			cell := ""
			if act, ok := t.Action(state, term); ok {
				cell = act.String()
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range t.nonTerms {
			cell := ""
			if target, ok := t.Goto(state, nt); ok {
				cell = target
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
