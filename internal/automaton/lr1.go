package automaton

import (
	"github.com/dekarrin/parsegen/internal/grammar"
	"github.com/dekarrin/parsegen/internal/util"
)

// NewLR1DFA builds the canonical collection of LR(1) item sets for g
// (dragon-book Algorithm 4.53 applied to LR(1) items) directly via closure
// and GOTO, rather than via an item-NFA and subset construction: an LR(1)
// item set already IS its own closure, so there is no intermediate
// non-deterministic automaton to determinize. States are numbered 0..N-1 in
// breadth-first discovery order.
func NewLR1DFA(g grammar.Grammar) *DFA[util.SVSet[grammar.LR1Item]] {
	ag := g.Augmented()

	startItem := grammar.LR1Item{
		LR0Item:   grammar.LR0Item{NonTerminal: grammar.AugmentedStartSymbol, Right: []string{ag.StartSymbol()}},
		Lookahead: grammar.EndOfInput,
	}
	startKernel := util.NewSVSet[grammar.LR1Item]()
	startKernel.Set(startItem.String(), startItem)
	startState := ag.LR1Closure(startKernel)

	dfa := &DFA[util.SVSet[grammar.LR1Item]]{states: map[string]DFAState[util.SVSet[grammar.LR1Item]]{}}
	startKey := startState.StringOrdered()
	dfa.Start = startKey
	dfa.AddState(startKey)
	dfa.SetValue(startKey, startState)

	states := map[string]util.SVSet[grammar.LR1Item]{startKey: startState}

	for changed := true; changed; {
		changed = false
		for _, key := range util.OrderedKeys(states) {
			state := states[key]
			for _, sym := range lr1SuccessorSymbols(state) {
				next := ag.LR1Goto(state, sym)
				if next.Empty() {
					continue
				}
				nextKey := next.StringOrdered()
				if _, ok := states[nextKey]; !ok {
					states[nextKey] = next
					dfa.AddState(nextKey)
					dfa.SetValue(nextKey, next)
					changed = true
				}
				dfa.AddTransition(key, sym, nextKey)
			}
		}
	}

	dfa.NumberStates()
	return dfa
}

func lr1SuccessorSymbols(items util.SVSet[grammar.LR1Item]) []string {
	seen := util.NewStringSet()
	for _, k := range items.Elements() {
		item := items.Get(k)
		if len(item.Right) > 0 {
			seen.Add(item.Right[0])
		}
	}
	return util.Alphabetized[string](seen)
}
