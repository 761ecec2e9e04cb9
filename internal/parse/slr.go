package parse

import (
	"github.com/dekarrin/parsegen/internal/automaton"
	"github.com/dekarrin/parsegen/internal/grammar"
)

// NewSLR1Table builds the SLR(1) ACTION/GOTO table for g (dragon-book
// Algorithm 4.46): the states and transitions come straight from the
// canonical LR(0) automaton, and a reduce action A -> α is placed in every
// column a in FOLLOW(A) rather than only the columns an LR(1) lookahead
// would justify. This is cheaper to build than LR(1)/LALR(1) but accepts a
// strict subset of LALR(1) grammars, since FOLLOW sets are
// context-insensitive: they ignore which state the reduction happens in.
//
// If allowAmbig is true, a shift/reduce conflict resolves in favor of the
// shift instead of raising a *icterrors.ConflictError; reduce/reduce
// conflicts are never resolved automatically regardless of allowAmbig.
func NewSLR1Table(g grammar.Grammar, allowAmbig bool) (LRParseTable, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	ag := g.Augmented()
	dfa := automaton.NewLR0DFA(g)

	t := newLRTable("SLR(1)", ag)

	var states []string
	for _, state := range dfa.States().Elements() {
		states = append(states, state)
		t.action[state] = map[string]LRAction{}
		t.gotoT[state] = map[string]string{}

		items := dfa.GetValue(state)
		for _, k := range items.Elements() {
			item := items.Get(k)
			if len(item.Right) != 0 {
				continue
			}
			if item.NonTerminal == grammar.AugmentedStartSymbol {
				if err := t.setAction(state, grammar.EndOfInput, accept(), allowAmbig); err != nil {
					return nil, err
				}
				continue
			}
			for _, la := range ag.FOLLOW(item.NonTerminal).Elements() {
				if err := t.setAction(state, la, reduce(item.NonTerminal, item.Production()), allowAmbig); err != nil {
					return nil, err
				}
			}
		}

		for _, sym := range dfa.TransitionsOn(state) {
			target := dfa.Next(state, sym)
			if grammar.IsTerminal(sym) {
				if err := t.setAction(state, sym, shift(target), allowAmbig); err != nil {
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
