package grammar

import (
	"sort"

	"github.com/dekarrin/parsegen/internal/icterrors"
	"github.com/dekarrin/parsegen/internal/util"
)

// Production is the right-hand side of a rule: an ordered list of terminal
// and non-terminal symbols. An empty Production denotes an epsilon rule.
type Production []string

func (p Production) String() string {
	if len(p) == 0 {
		return Epsilon
	}
	s := ""
	for i, sym := range p {
		if i > 0 {
			s += " "
		}
		s += sym
	}
	return s
}

// Copy returns an independent duplicate of the production.
func (p Production) Copy() Production {
	return append(Production(nil), p...)
}

// Equal reports whether o is a Production with the same symbols in the same
// order.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherPtr, ok := o.(*Production)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Rule collects every production headed by the same non-terminal, in the
// order they were added.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Equal reports whether o is a Rule with the same head and the same
// productions in the same order.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	if r.NonTerminal != other.NonTerminal || len(r.Productions) != len(other.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(other.Productions[i]) {
			return false
		}
	}
	return true
}

// Grammar is an ordered collection of rules together with a distinguished
// start symbol. The zero value is not valid; construct one with New.
type Grammar struct {
	rules map[string]Rule
	order []string
	start string
}

// New creates an empty grammar with no rules and no start symbol set.
func New() *Grammar {
	return &Grammar{rules: map[string]Rule{}}
}

// SetStart sets the grammar's start symbol. It does not need to already be
// the head of a rule; AddProduction and SetStart may be called in either
// order.
func (g *Grammar) SetStart(sym string) {
	g.start = sym
}

// StartSymbol returns the grammar's configured start symbol.
func (g Grammar) StartSymbol() string {
	return g.start
}

// AddProduction appends prod to the rule headed by nt, creating the rule on
// first use. Productions accumulate in call order, which is what makes the
// rule numbers in Validate's messages ("rule 2 of NT") reproducible.
func (g *Grammar) AddProduction(nt string, prod Production) {
	if g.rules == nil {
		g.rules = map[string]Rule{}
	}
	r, ok := g.rules[nt]
	if !ok {
		r = Rule{NonTerminal: nt}
		g.order = append(g.order, nt)
	}
	r.Productions = append(r.Productions, prod)
	g.rules[nt] = r
}

// Rule returns the rule headed by nt, or the zero Rule if nt has no
// productions.
func (g Grammar) Rule(nt string) Rule {
	return g.rules[nt]
}

// HasRule reports whether nt is the head of at least one production.
func (g Grammar) HasRule(nt string) bool {
	_, ok := g.rules[nt]
	return ok
}

// NonTerminals returns every rule head, sorted alphabetically.
func (g Grammar) NonTerminals() []string {
	out := append([]string(nil), g.order...)
	sort.Strings(out)
	return out
}

// Terminals returns every terminal symbol appearing in any production's
// right-hand side, sorted alphabetically. EndOfInput is never included; it
// is a lookahead sentinel, not a grammar symbol.
func (g Grammar) Terminals() []string {
	seen := util.NewStringSet()
	for _, nt := range g.order {
		for _, prod := range g.rules[nt].Productions {
			for _, sym := range prod {
				if IsTerminal(sym) {
					seen.Add(sym)
				}
			}
		}
	}
	return util.Alphabetized[string](seen)
}

// IsTerminal reports whether sym is classified as a terminal.
func (g Grammar) IsTerminal(sym string) bool {
	return IsTerminal(sym)
}

// IsNonTerminal reports whether sym is classified as a non-terminal.
func (g Grammar) IsNonTerminal(sym string) bool {
	return IsNonTerminal(sym)
}

// Augmented returns a copy of g with a new start rule S' -> start spliced in
// ahead of every existing rule, unless g is already augmented (already has a
// rule headed by AugmentedStartSymbol), in which case g itself is returned
// unchanged. The original start symbol is preserved by StartSymbol on the
// result.
func (g Grammar) Augmented() Grammar {
	if _, ok := g.rules[AugmentedStartSymbol]; ok {
		return g
	}

	ag := Grammar{rules: map[string]Rule{}, start: g.start}
	ag.order = append(ag.order, AugmentedStartSymbol)
	ag.rules[AugmentedStartSymbol] = Rule{
		NonTerminal: AugmentedStartSymbol,
		Productions: []Production{{g.start}},
	}
	for _, nt := range g.order {
		ag.order = append(ag.order, nt)
		ag.rules[nt] = g.rules[nt]
	}
	return ag
}

// Validate checks the grammar for the conditions that make table
// construction impossible: a missing or dangling start symbol, a reserved
// symbol ($ or ε) used in a right-hand side, or a non-terminal referenced in
// some right-hand side that is never itself the head of a rule. It returns a
// *icterrors.MalformedGrammarError wrapped as an error, or nil.
func (g Grammar) Validate() error {
	if aug, ok := g.rules[AugmentedStartSymbol]; ok {
		if len(aug.Productions) != 1 || len(aug.Productions[0]) != 1 {
			return icterrors.NewMalformedGrammar("augmented start symbol %q must have exactly one production of exactly one symbol", AugmentedStartSymbol)
		}
	} else {
		if g.start == "" {
			return icterrors.NewMalformedGrammar("no start symbol has been set")
		}
		if _, ok := g.rules[g.start]; !ok {
			return icterrors.NewMalformedGrammar("start symbol %q is not the head of any production", g.start)
		}
	}

	for _, nt := range g.order {
		for ruleIdx, prod := range g.rules[nt].Productions {
			for _, sym := range prod {
				if sym == EndOfInput || sym == Epsilon {
					return icterrors.NewMalformedGrammar("reserved symbol %q cannot appear in a production (rule %d of %s)", sym, ruleIdx, nt)
				}
				if IsNonTerminal(sym) {
					if _, ok := g.rules[sym]; !ok {
						return icterrors.NewMalformedGrammar("non-terminal %q is used in rule %d of %s but is never defined", sym, ruleIdx, nt)
					}
				}
			}
		}
	}
	return nil
}

// firstSets computes FIRST(A) for every non-terminal A by the standard
// worklist fixed-point algorithm: repeatedly propagate FIRST sets across
// every production until a full pass makes no further change. Unlike a
// single top-down recursive walk, this handles left recursion (direct or
// indirect) correctly, since a cycle just stops contributing once its
// members' FIRST sets stabilize.
func (g Grammar) firstSets() map[string]util.StringSet {
	first := make(map[string]util.StringSet, len(g.order))
	for _, nt := range g.order {
		first[nt] = util.NewStringSet()
	}

	for changed := true; changed; {
		changed = false
		for _, nt := range g.order {
			for _, prod := range g.rules[nt].Productions {
				if len(prod) == 0 {
					changed = addTo(first[nt], Epsilon) || changed
					continue
				}

				nullablePrefix := true
				for _, sym := range prod {
					if !nullablePrefix {
						break
					}
					symFirst := g.symbolFirst(first, sym)
					for _, t := range symFirst.Elements() {
						if t != Epsilon {
							changed = addTo(first[nt], t) || changed
						}
					}
					if !symFirst.Has(Epsilon) {
						nullablePrefix = false
					}
				}
				if nullablePrefix {
					changed = addTo(first[nt], Epsilon) || changed
				}
			}
		}
	}
	return first
}

func (g Grammar) symbolFirst(first map[string]util.StringSet, sym string) util.StringSet {
	if IsTerminal(sym) {
		return util.StringSetOf([]string{sym})
	}
	if s, ok := first[sym]; ok {
		return s
	}
	return util.NewStringSet()
}

func addTo(s util.StringSet, v string) bool {
	if s.Has(v) {
		return false
	}
	s.Add(v)
	return true
}

// FIRST returns FIRST(sym): {sym} if sym is a terminal, or the fixed-point
// FIRST set of the non-terminal sym, which may include Epsilon if sym can
// derive the empty string.
func (g Grammar) FIRST(sym string) util.StringSet {
	if IsTerminal(sym) {
		return util.StringSetOf([]string{sym})
	}
	first := g.firstSets()
	if s, ok := first[sym]; ok {
		return s
	}
	return util.NewStringSet()
}

// FirstOfSequence returns FIRST(X1 X2 ... Xn) for a sequence of symbols:
// the union of FIRST(Xi) for each prefix of symbols that can derive epsilon,
// up to and including the first Xi that cannot. Epsilon is included in the
// result only if every symbol in seq can derive epsilon (including the
// empty sequence itself). This is the computation an LR(1) item closure
// needs for FIRST(beta a), where beta is what follows the dot and a is the
// item's own lookahead.
func (g Grammar) FirstOfSequence(seq []string) util.StringSet {
	first := g.firstSets()
	return g.firstOfSequenceUsing(first, seq)
}

func (g Grammar) firstOfSequenceUsing(first map[string]util.StringSet, seq []string) util.StringSet {
	result := util.NewStringSet()
	nullable := true
	for _, sym := range seq {
		if !nullable {
			break
		}
		symFirst := g.symbolFirst(first, sym)
		for _, t := range symFirst.Elements() {
			if t != Epsilon {
				result.Add(t)
			}
		}
		if !symFirst.Has(Epsilon) {
			nullable = false
		}
	}
	if nullable {
		result.Add(Epsilon)
	}
	return result
}

// followSets computes FOLLOW(A) for every non-terminal A of the augmented
// grammar, seeding FOLLOW(S') = {$} and then propagating via the same
// worklist fixed-point discipline as firstSets.
func (g Grammar) followSets() map[string]util.StringSet {
	ag := g.Augmented()
	first := ag.firstSets()

	follow := make(map[string]util.StringSet, len(ag.order))
	for _, nt := range ag.order {
		follow[nt] = util.NewStringSet()
	}
	follow[AugmentedStartSymbol].Add(EndOfInput)

	for changed := true; changed; {
		changed = false
		for _, nt := range ag.order {
			for _, prod := range ag.rules[nt].Productions {
				for i, sym := range prod {
					if IsTerminal(sym) {
						continue
					}
					beta := prod[i+1:]
					betaFirst := ag.firstOfSequenceUsing(first, beta)
					for _, t := range betaFirst.Elements() {
						if t != Epsilon {
							changed = addTo(follow[sym], t) || changed
						}
					}
					if betaFirst.Has(Epsilon) {
						for _, t := range follow[nt].Elements() {
							changed = addTo(follow[sym], t) || changed
						}
					}
				}
			}
		}
	}
	return follow
}

// FOLLOW returns FOLLOW(nt): the set of terminals (and possibly $) that can
// immediately follow nt in some valid derivation from the grammar's
// (implicitly augmented) start symbol.
func (g Grammar) FOLLOW(nt string) util.StringSet {
	follow := g.followSets()
	if s, ok := follow[nt]; ok {
		return s
	}
	return util.NewStringSet()
}

// LR0Closure computes the closure of a set of LR(0) items: repeatedly, for
// every item with the dot immediately before a non-terminal A, add A -> .β
// for every production of A, until no more items can be added.
func (g Grammar) LR0Closure(items util.SVSet[LR0Item]) util.SVSet[LR0Item] {
	closure := util.NewSVSet[LR0Item]()
	for _, k := range items.Elements() {
		closure.Set(k, items.Get(k))
	}

	for changed := true; changed; {
		changed = false
		for _, k := range closure.Elements() {
			item := closure.Get(k)
			if len(item.Right) == 0 {
				continue
			}
			sym := item.Right[0]
			if !IsNonTerminal(sym) {
				continue
			}
			for _, prod := range g.rules[sym].Productions {
				newItem := LR0Item{NonTerminal: sym, Right: prod.Copy()}
				key := newItem.String()
				if !closure.Has(key) {
					closure.Set(key, newItem)
					changed = true
				}
			}
		}
	}
	return closure
}

// LR0Goto computes GOTO(items, sym): advance the dot across sym in every
// item of items that has sym immediately after its dot, then take the
// closure of the result. Returns an empty set if no item can advance on sym.
func (g Grammar) LR0Goto(items util.SVSet[LR0Item], sym string) util.SVSet[LR0Item] {
	moved := util.NewSVSet[LR0Item]()
	for _, k := range items.Elements() {
		item := items.Get(k)
		if len(item.Right) == 0 || item.Right[0] != sym {
			continue
		}
		newItem := LR0Item{
			NonTerminal: item.NonTerminal,
			Left:        append(append([]string(nil), item.Left...), sym),
			Right:       append([]string(nil), item.Right[1:]...),
		}
		moved.Set(newItem.String(), newItem)
	}
	if moved.Empty() {
		return moved
	}
	return g.LR0Closure(moved)
}

// LR1Closure computes the closure of a set of LR(1) items: like LR0Closure,
// but each new item introduced for a non-terminal A gets one copy per
// lookahead in FIRST(beta a), where beta is the symbols after A in the
// originating item and a is that item's own lookahead.
func (g Grammar) LR1Closure(items util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	closure := util.NewSVSet[LR1Item]()
	for _, k := range items.Elements() {
		closure.Set(k, items.Get(k))
	}

	first := g.firstSets()

	for changed := true; changed; {
		changed = false
		for _, k := range closure.Elements() {
			item := closure.Get(k)
			if len(item.Right) == 0 {
				continue
			}
			sym := item.Right[0]
			if !IsNonTerminal(sym) {
				continue
			}

			seq := append(append([]string(nil), item.Right[1:]...), item.Lookahead)
			lookaheads := g.firstOfSequenceUsing(first, seq)

			for _, prod := range g.rules[sym].Productions {
				for _, la := range lookaheads.Elements() {
					if la == Epsilon {
						continue
					}
					newItem := LR1Item{
						LR0Item:   LR0Item{NonTerminal: sym, Right: prod.Copy()},
						Lookahead: la,
					}
					key := newItem.String()
					if !closure.Has(key) {
						closure.Set(key, newItem)
						changed = true
					}
				}
			}
		}
	}
	return closure
}

// LR1Goto computes GOTO(items, sym) over LR(1) items: advance the dot across
// sym, preserving each item's lookahead, then take the closure.
func (g Grammar) LR1Goto(items util.SVSet[LR1Item], sym string) util.SVSet[LR1Item] {
	moved := util.NewSVSet[LR1Item]()
	for _, k := range items.Elements() {
		item := items.Get(k)
		if len(item.Right) == 0 || item.Right[0] != sym {
			continue
		}
		newItem := LR1Item{
			LR0Item: LR0Item{
				NonTerminal: item.NonTerminal,
				Left:        append(append([]string(nil), item.Left...), sym),
				Right:       append([]string(nil), item.Right[1:]...),
			},
			Lookahead: item.Lookahead,
		}
		moved.Set(newItem.String(), newItem)
	}
	if moved.Empty() {
		return moved
	}
	return g.LR1Closure(moved)
}

// LR0Items returns every LR(0) item of the grammar: for every rule, one item
// per dot position in every production, including the fully-reduced item
// with the dot at the end.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, nt := range g.order {
		for _, prod := range g.rules[nt].Productions {
			for dot := 0; dot <= len(prod); dot++ {
				items = append(items, LR0Item{
					NonTerminal: nt,
					Left:        append([]string(nil), prod[:dot]...),
					Right:       append([]string(nil), prod[dot:]...),
				})
			}
		}
	}
	return items
}

// CanonicalLR0Items computes the canonical collection of sets of LR(0) items
// for the grammar (dragon-book Algorithm 4.53), starting from the closure
// of {[S' -> .S]} and repeatedly applying GOTO on every symbol that appears
// after a dot in some already-discovered state, until no new state appears.
// The grammar is augmented first if it is not already. Each state is keyed
// by its StringOrdered canonical form so structurally identical item sets
// collapse into one state regardless of discovery order.
func (g Grammar) CanonicalLR0Items() util.SVSet[util.SVSet[LR0Item]] {
	ag := g
	if _, ok := ag.rules[AugmentedStartSymbol]; !ok {
		ag = ag.Augmented()
	}

	startItem := LR0Item{NonTerminal: AugmentedStartSymbol, Right: []string{ag.start}}
	startKernel := util.NewSVSet[LR0Item]()
	startKernel.Set(startItem.String(), startItem)
	startState := ag.LR0Closure(startKernel)

	collection := util.NewSVSet[util.SVSet[LR0Item]]()
	collection.Set(startState.StringOrdered(), startState)

	for changed := true; changed; {
		changed = false
		for _, key := range util.OrderedKeys(collection) {
			state := collection.Get(key)
			for _, sym := range ag.successorSymbols(state) {
				next := ag.LR0Goto(state, sym)
				if next.Empty() {
					continue
				}
				nextKey := next.StringOrdered()
				if !collection.Has(nextKey) {
					collection.Set(nextKey, next)
					changed = true
				}
			}
		}
	}
	return collection
}

// successorSymbols returns the distinct symbols appearing immediately after
// the dot across every item of items, sorted for deterministic iteration.
func (g Grammar) successorSymbols(items util.SVSet[LR0Item]) []string {
	seen := util.NewStringSet()
	for _, k := range items.Elements() {
		item := items.Get(k)
		if len(item.Right) > 0 {
			seen.Add(item.Right[0])
		}
	}
	return util.Alphabetized[string](seen)
}
