// Package automaton builds the finite-automaton scaffolding shared by the
// three LR table variants: a generic NFA/DFA pair, subset construction from
// NFA to DFA, and deterministic state numbering. The LR(0)/LR(1)/LALR(1)
// specific state-collection builders live in lr0.go, lr1.go, and lalr.go.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/parsegen/internal/util"
)

// FATransition is a single labeled edge in an automaton; input is "" for an
// epsilon move.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	in := t.input
	if in == "" {
		in = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", in, t.next)
}

// DFAState is a single state of a DFA, carrying an arbitrary value E (the
// item set it represents).
type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
}

func (s DFAState[E]) String() string {
	syms := util.OrderedKeys(s.transitions)
	parts := make([]string, len(syms))
	for i, sym := range syms {
		parts[i] = s.transitions[sym].String()
	}
	return fmt.Sprintf("(%s [%s])", s.name, strings.Join(parts, ", "))
}

// NFAState is a single state of an NFA: like DFAState but each input symbol
// may lead to several transitions, including epsilon moves.
type NFAState[E any] struct {
	name        string
	value       E
	transitions map[string][]FATransition
}

func (s NFAState[E]) String() string {
	syms := util.OrderedKeys(s.transitions)
	var parts []string
	for _, sym := range syms {
		for _, t := range s.transitions[sym] {
			parts = append(parts, t.String())
		}
	}
	return fmt.Sprintf("(%s [%s])", s.name, strings.Join(parts, ", "))
}

// DFA is a deterministic finite automaton whose states carry a value of type
// E (an item or item set) in addition to their transition table.
type DFA[E any] struct {
	states map[string]DFAState[E]
	Start  string
}

// NFA is the non-deterministic counterpart of DFA, permitting epsilon moves
// and multiple transitions per symbol from a single state.
type NFA[E any] struct {
	states map[string]NFAState[E]
	Start  string
}

// AddState adds a state named name to the DFA if it is not already present.
func (dfa *DFA[E]) AddState(name string) {
	if dfa.states == nil {
		dfa.states = map[string]DFAState[E]{}
	}
	if _, ok := dfa.states[name]; ok {
		return
	}
	dfa.states[name] = DFAState[E]{name: name, transitions: map[string]FATransition{}}
}

// AddTransition adds a transition from `from` to `to` on `input`. Both
// states must already exist.
func (dfa *DFA[E]) AddTransition(from, input, to string) {
	st, ok := dfa.states[from]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", from))
	}
	if _, ok := dfa.states[to]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", to))
	}
	st.transitions[input] = FATransition{input: input, next: to}
	dfa.states[from] = st
}

// SetValue assigns the item-set value associated with a state.
func (dfa *DFA[E]) SetValue(name string, v E) {
	st, ok := dfa.states[name]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existent state %q", name))
	}
	st.value = v
	dfa.states[name] = st
}

// GetValue retrieves the item-set value associated with a state.
func (dfa DFA[E]) GetValue(name string) E {
	st, ok := dfa.states[name]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existent state %q", name))
	}
	return st.value
}

// States returns the set of all state names.
func (dfa DFA[E]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range dfa.states {
		s.Add(k)
	}
	return s
}

// Next returns the state reached from `from` on `input`, or "" if there is
// no such state or no such transition.
func (dfa DFA[E]) Next(from, input string) string {
	st, ok := dfa.states[from]
	if !ok {
		return ""
	}
	t, ok := st.transitions[input]
	if !ok {
		return ""
	}
	return t.next
}

// TransitionsOn returns the set of input symbols with an outgoing transition
// from state.
func (dfa DFA[E]) TransitionsOn(state string) []string {
	st, ok := dfa.states[state]
	if !ok {
		return nil
	}
	return util.OrderedKeys(st.transitions)
}

func (dfa DFA[E]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", dfa.Start))
	for i, name := range util.OrderedKeys(dfa.states) {
		sb.WriteString("\n\t")
		sb.WriteString(dfa.states[name].String())
		if i+1 < len(dfa.states) {
			sb.WriteRune(',')
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}

// TransformDFA builds a new DFA with the same shape as dfa but with every
// state's value passed through transform, e.g. to project an LR0-item-set
// DFA down to a plain string-set DFA for display.
func TransformDFA[E1, E2 any](dfa *DFA[E1], transform func(E1) E2) *DFA[E2] {
	out := &DFA[E2]{states: map[string]DFAState[E2]{}, Start: dfa.Start}
	for name, st := range dfa.states {
		out.states[name] = DFAState[E2]{
			name:        st.name,
			value:       transform(st.value),
			transitions: copyTransitions(st.transitions),
		}
	}
	return out
}

func copyTransitions(in map[string]FATransition) map[string]FATransition {
	out := make(map[string]FATransition, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// DFAToNFA reinterprets a DFA as an (as-yet still deterministic) NFA, which
// the LALR merge step then mutates by rewriting transitions as states merge.
func DFAToNFA[E any](dfa DFA[E]) NFA[E] {
	nfa := NFA[E]{Start: dfa.Start, states: map[string]NFAState[E]{}}
	for name, st := range dfa.states {
		ns := NFAState[E]{name: st.name, value: st.value, transitions: map[string][]FATransition{}}
		for sym, t := range st.transitions {
			ns.transitions[sym] = []FATransition{t}
		}
		nfa.states[name] = ns
	}
	return nfa
}

// States returns the set of all state names.
func (nfa NFA[E]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range nfa.states {
		s.Add(k)
	}
	return s
}

// GetValue retrieves the item-set value associated with a state.
func (nfa NFA[E]) GetValue(name string) E {
	return nfa.states[name].value
}

// AllTransitionsTo returns every (fromState, input, index) triple whose
// transition list contains an edge into toState. Used by the LALR merge step
// to find edges that must be rewritten when a state is folded into another.
type NFATransitionTo struct {
	From  string
	Input string
	Index int
}

func (nfa NFA[E]) AllTransitionsTo(toState string) []NFATransitionTo {
	var found []NFATransitionTo
	for _, from := range util.OrderedKeys(nfa.states) {
		st := nfa.states[from]
		for _, sym := range util.OrderedKeys(st.transitions) {
			for i, t := range st.transitions[sym] {
				if t.next == toState {
					found = append(found, NFATransitionTo{From: from, Input: sym, Index: i})
				}
			}
		}
	}
	return found
}

// directNFAToDFA converts an NFA that happens to already be deterministic
// (at most one distinct destination per symbol from any state) into a DFA.
// It returns an error if any state has a genuinely non-deterministic
// transition, which for the LALR merge step would mean that merging by LR(0)
// core produced an inconsistent automaton.
func directNFAToDFA[E any](nfa NFA[E]) (DFA[E], error) {
	dfa := DFA[E]{Start: nfa.Start, states: map[string]DFAState[E]{}}
	for name, st := range nfa.states {
		ds := DFAState[E]{name: st.name, value: st.value, transitions: map[string]FATransition{}}
		for sym, edges := range st.transitions {
			dest := ""
			for _, e := range edges {
				if dest == "" {
					dest = e.next
					ds.transitions[sym] = FATransition{input: sym, next: e.next}
				} else if e.next != dest {
					return DFA[E]{}, fmt.Errorf("state %q has non-deterministic transition on %q: both %q and %q", name, sym, dest, e.next)
				}
			}
		}
		dfa.states[name] = ds
	}
	return dfa, nil
}

// NumberStates renumbers the DFA's states 0..N-1 in breadth-first discovery
// order from Start, visiting each state's outgoing symbols in sorted order.
// This makes state numbering reproducible across runs, independent of Go's
// randomized map iteration.
func (dfa *DFA[E]) NumberStates() {
	order := dfa.bfsOrder()
	mapping := make(map[string]string, len(order))
	for i, name := range order {
		mapping[name] = fmt.Sprintf("%d", i)
	}
	dfa.renameStates(mapping)
}

func (dfa DFA[E]) bfsOrder() []string {
	if dfa.Start == "" {
		return nil
	}
	visited := util.NewStringSet()
	visited.Add(dfa.Start)
	queue := []string{dfa.Start}
	order := make([]string, 0, len(dfa.states))

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)

		st := dfa.states[cur]
		for _, sym := range util.OrderedKeys(st.transitions) {
			next := st.transitions[sym].next
			if !visited.Has(next) {
				visited.Add(next)
				queue = append(queue, next)
			}
		}
	}

	// any states unreachable from Start (shouldn't occur for a canonical
	// collection, but keep numbering total and deterministic regardless)
	var rest []string
	for name := range dfa.states {
		if !visited.Has(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func (dfa *DFA[E]) renameStates(mapping map[string]string) {
	newStates := make(map[string]DFAState[E], len(dfa.states))
	for oldName, st := range dfa.states {
		newName, ok := mapping[oldName]
		if !ok {
			newName = oldName
		}
		newTrans := make(map[string]FATransition, len(st.transitions))
		for sym, t := range st.transitions {
			dest := t.next
			if renamed, ok := mapping[dest]; ok {
				dest = renamed
			}
			newTrans[sym] = FATransition{input: sym, next: dest}
		}
		st.name = newName
		st.transitions = newTrans
		newStates[newName] = st
	}
	dfa.states = newStates
	if renamed, ok := mapping[dfa.Start]; ok {
		dfa.Start = renamed
	}
}
