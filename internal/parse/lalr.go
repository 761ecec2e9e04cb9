package parse

import (
	"github.com/dekarrin/parsegen/internal/automaton"
	"github.com/dekarrin/parsegen/internal/grammar"
)

// NewLALR1Table builds the LALR(1) ACTION/GOTO table for g: states come
// from the merge-after-build LALR automaton (automaton.NewLALRDFA), which
// has the same state count as the LR(0) automaton but lookahead-sensitive
// reduce placement like canonical LR(1). This accepts strictly more
// grammars than SLR(1) and never more states than canonical LR(1), the
// tradeoff that makes it the default table kind for most yacc-family
// generators.
func NewLALR1Table(g grammar.Grammar) (LRParseTable, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	ag := g.Augmented()
	dfa, err := automaton.NewLALRDFA(g)
	if err != nil {
		return nil, err
	}

	t := newLRTable("LALR(1)", ag)

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
