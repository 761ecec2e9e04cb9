package automaton

import (
	"github.com/dekarrin/parsegen/internal/grammar"
	"github.com/dekarrin/parsegen/internal/util"
)

// NewLR0ItemNFA builds an NFA whose states are individual LR(0) items (one
// per dot position of every production) connected by epsilon moves (from an
// item with the dot before a non-terminal A to every A -> .β item) and by
// grammar-symbol moves (from A -> α.Xβ to A -> αX.β on X). Determinizing
// this NFA by subset construction (see NewLR0DFA) reconstructs exactly the
// canonical LR(0) item-set collection, since a subset-construction state is
// precisely the epsilon-closure of a kernel, which is LR0Closure.
func NewLR0ItemNFA(g grammar.Grammar) NFA[grammar.LR0Item] {
	ag := g.Augmented()
	items := ag.LR0Items()

	nfa := NFA[grammar.LR0Item]{states: map[string]NFAState[grammar.LR0Item]{}}
	for _, item := range items {
		name := item.String()
		nfa.states[name] = NFAState[grammar.LR0Item]{name: name, value: item, transitions: map[string][]FATransition{}}
	}

	startItem := grammar.LR0Item{NonTerminal: grammar.AugmentedStartSymbol, Right: []string{ag.StartSymbol()}}
	nfa.Start = startItem.String()

	for _, item := range items {
		from := item.String()
		if len(item.Right) == 0 {
			continue
		}
		sym := item.Right[0]

		advanced := grammar.LR0Item{
			NonTerminal: item.NonTerminal,
			Left:        append(append([]string(nil), item.Left...), sym),
			Right:       append([]string(nil), item.Right[1:]...),
		}
		to := advanced.String()
		st := nfa.states[from]
		st.transitions[sym] = append(st.transitions[sym], FATransition{input: sym, next: to})
		nfa.states[from] = st

		if grammar.IsNonTerminal(sym) {
			for _, prod := range ag.Rule(sym).Productions {
				target := grammar.LR0Item{NonTerminal: sym, Right: prod.Copy()}
				to := target.String()
				st := nfa.states[from]
				st.transitions[""] = append(st.transitions[""], FATransition{input: "", next: to})
				nfa.states[from] = st
			}
		}
	}

	return nfa
}

// epsilonClosure returns the set of states reachable from states using only
// epsilon transitions, including states itself.
func epsilonClosure[E any](nfa NFA[E], states util.StringSet) util.StringSet {
	closure := util.NewStringSet()
	closure.AddAll(states)

	queue := states.Elements()
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range nfa.states[cur].transitions[""] {
			if !closure.Has(t.next) {
				closure.Add(t.next)
				queue = append(queue, t.next)
			}
		}
	}
	return closure
}

func move[E any](nfa NFA[E], states util.StringSet, sym string) util.StringSet {
	out := util.NewStringSet()
	for _, s := range states.Elements() {
		for _, t := range nfa.states[s].transitions[sym] {
			out.Add(t.next)
		}
	}
	return out
}

func nonEpsilonSymbols[E any](nfa NFA[E], states util.StringSet) []string {
	seen := util.NewStringSet()
	for _, s := range states.Elements() {
		for sym := range nfa.states[s].transitions {
			if sym != "" {
				seen.Add(sym)
			}
		}
	}
	return util.Alphabetized[string](seen)
}

// ToItemSetDFA performs subset construction (dragon-book Algorithm 3.20)
// over an LR(0) item NFA,
// producing a DFA whose states are sets of LR(0) items (i.e. exactly the
// canonical collection) and which is already numbered 0..N-1 in
// breadth-first discovery order.
func ToItemSetDFA(nfa NFA[grammar.LR0Item]) *DFA[util.SVSet[grammar.LR0Item]] {
	dfa := &DFA[util.SVSet[grammar.LR0Item]]{states: map[string]DFAState[util.SVSet[grammar.LR0Item]]{}}

	startSet := epsilonClosure(nfa, util.StringSetOf([]string{nfa.Start}))
	startValue := valuesOf(nfa, startSet)
	startKey := startValue.StringOrdered()
	dfa.Start = startKey
	dfa.AddState(startKey)
	dfa.SetValue(startKey, startValue)

	subsets := map[string]util.StringSet{startKey: startSet}

	for changed := true; changed; {
		changed = false
		for _, key := range util.OrderedKeys(subsets) {
			states := subsets[key]
			for _, sym := range nonEpsilonSymbols(nfa, states) {
				moved := epsilonClosure(nfa, move(nfa, states, sym))
				if moved.Empty() {
					continue
				}
				value := valuesOf(nfa, moved)
				newKey := value.StringOrdered()
				if _, ok := subsets[newKey]; !ok {
					subsets[newKey] = moved
					dfa.AddState(newKey)
					dfa.SetValue(newKey, value)
					changed = true
				}
				dfa.AddTransition(key, sym, newKey)
			}
		}
	}

	dfa.NumberStates()
	return dfa
}

func valuesOf(nfa NFA[grammar.LR0Item], states util.StringSet) util.SVSet[grammar.LR0Item] {
	out := util.NewSVSet[grammar.LR0Item]()
	for _, s := range states.Elements() {
		item := nfa.GetValue(s)
		out.Set(item.String(), item)
	}
	return out
}

// NewLR0DFA builds the canonical LR(0) automaton for g: the NFA of
// individual items, determinized by subset construction, with states
// numbered in breadth-first discovery order. This is the automaton SLR(1)
// table construction runs over.
func NewLR0DFA(g grammar.Grammar) *DFA[util.SVSet[grammar.LR0Item]] {
	return ToItemSetDFA(NewLR0ItemNFA(g))
}
