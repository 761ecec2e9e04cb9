package parse

import (
	"github.com/dekarrin/parsegen/internal/automaton"
	"github.com/dekarrin/parsegen/internal/grammar"
)

// NewCLR1Table builds the canonical LR(1) ACTION/GOTO table for g
// (dragon-book Algorithm 4.56): states are full LR(1) item sets, so a
// reduce action for A -> α is placed only in the column of the item's own
// lookahead rather than all of FOLLOW(A). This accepts every LALR(1)
// grammar (and more), at the cost of a state count that can be much larger
// than the LR(0)/LALR(1) automaton for the same grammar.
func NewCLR1Table(g grammar.Grammar) (LRParseTable, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	ag := g.Augmented()
	dfa := automaton.NewLR1DFA(g)

	t := newLRTable("LR(1)", ag)

	var states []string
	for _, state := range dfa.States().Elements() {
		states = append(states, state)

		items := dfa.GetValue(state)
		for _, k := range items.Elements() {
			item := items.Get(k)
			if len(item.Right) != 0 {
				continue
			}
			if item.NonTerminal == grammar.AugmentedStartSymbol {
				if err := t.setAction(state, grammar.EndOfInput, accept(), false); err != nil {
					return nil, err
				}
				continue
			}
			if err := t.setAction(state, item.Lookahead, reduce(item.NonTerminal, item.Production()), false); err != nil {
				return nil, err
			}
		}

		for _, sym := range dfa.TransitionsOn(state) {
			target := dfa.Next(state, sym)
			if grammar.IsTerminal(sym) {
				if err := t.setAction(state, sym, shift(target), false); err != nil {
					return nil, err
				}
			} else {
				t.setGoto(state, sym, target)
			}
		}
	}

	t.finalize(dfa.Start, states)
	return t, nil
}
