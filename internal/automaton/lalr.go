package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/parsegen/internal/grammar"
	"github.com/dekarrin/parsegen/internal/util"
)

// NewLALRDFA builds the LALR(1) automaton for g by the merge-after-build
// strategy: construct the full canonical LR(1) collection, group its states
// by LR(0) core (two LR(1) states merge iff they have the same items once
// lookaheads are stripped), fold each group down to one state whose item
// set is the union of its members' items, and rewrite every transition that
// pointed at a folded-away state to point at its surviving representative.
//
// This is deliberately not the textbook alternative of propagating
// lookaheads directly over the LR(0) kernels during construction: that
// approach needs spontaneous/propagated-lookahead bookkeeping that is easy
// to get subtly wrong, whereas merge-after-build reuses the already-correct
// LR(1) closure and just folds states together afterward.
//
// Each folded state keeps its representative's outgoing edges, one per
// symbol, so the final directNFAToDFA step does not find a non-deterministic
// transition for a canonical collection (GOTO preserves LR(0) cores). A
// grammar that is LR(1) but not LALR(1) is not detected here: the conflicts
// that merging introduces show up as reduce/reduce collisions when
// parse.NewLALR1Table fills the ACTION table from the merged states.
func NewLALRDFA(g grammar.Grammar) (*DFA[util.SVSet[grammar.LR1Item]], error) {
	lr1 := NewLR1DFA(g)
	nfa := DFAToNFA(*lr1)

	groups := groupByLR0Core(lr1)

	repOf := map[string]string{}
	mergedValues := map[string]util.SVSet[grammar.LR1Item]{}
	for _, members := range groups {
		sorted := append([]string(nil), members...)
		sort.Strings(sorted)
		rep := sorted[0]

		union := util.NewSVSet[grammar.LR1Item]()
		for _, m := range sorted {
			repOf[m] = rep
			v := nfa.GetValue(m)
			for _, k := range v.Elements() {
				item := v.Get(k)
				union.Set(item.String(), item)
			}
		}
		mergedValues[rep] = union
	}

	for _, members := range groups {
		for _, m := range members {
			if repOf[m] == m {
				continue
			}
			for _, edge := range nfa.AllTransitionsTo(m) {
				st := nfa.states[edge.From]
				st.transitions[edge.Input][edge.Index] = FATransition{input: edge.Input, next: repOf[m]}
				nfa.states[edge.From] = st
			}
		}
	}

	folded := NFA[util.SVSet[grammar.LR1Item]]{
		Start:  repOf[nfa.Start],
		states: map[string]NFAState[util.SVSet[grammar.LR1Item]]{},
	}
	for rep, value := range mergedValues {
		st := nfa.states[rep]
		st.value = value
		folded.states[rep] = st
	}

	dfa, err := directNFAToDFA(folded)
	if err != nil {
		return nil, fmt.Errorf("grammar is not LALR(1): merging LR(1) states by core introduced a conflict (%w)", err)
	}

	dfa.NumberStates()
	return &dfa, nil
}

// groupByLR0Core partitions dfa's states by the LR(0) core of their item
// set, i.e. the grouping that LALR merging folds together.
func groupByLR0Core(dfa *DFA[util.SVSet[grammar.LR1Item]]) map[string][]string {
	groups := map[string][]string{}
	for _, name := range util.OrderedKeys(dfa.states) {
		core := grammar.CoreSet(dfa.GetValue(name)).StringOrdered()
		groups[core] = append(groups[core], name)
	}
	return groups
}
