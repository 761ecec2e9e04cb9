package grammar

import (
	"testing"

	"github.com/dekarrin/parsegen/internal/util"
	"github.com/stretchr/testify/assert"
)

// ambiguousFollowGrammar builds a small self-referential grammar used
// throughout the grammar, automaton, and parse package tests:
// S -> S A | S B | a, A -> S +, B -> S -. FOLLOW(S), FOLLOW(A), and
// FOLLOW(B) all coincide, which makes it a good stress test for FIRST/FOLLOW
// fixed-point computation and for the three table constructors built on top
// of it.
func ambiguousFollowGrammar() *Grammar {
	g := New()
	g.SetStart("S")
	g.AddProduction("S", Production{"S", "A"})
	g.AddProduction("S", Production{"S", "B"})
	g.AddProduction("S", Production{"a"})
	g.AddProduction("A", Production{"S", "+"})
	g.AddProduction("B", Production{"S", "-"})
	return g
}

func TestGrammar_TerminalsAndNonTerminals(t *testing.T) {
	g := ambiguousFollowGrammar()

	assert.Equal(t, []string{"A", "B", "S"}, g.NonTerminals())
	assert.Equal(t, []string{"+", "-", "a"}, g.Terminals())
}

func TestGrammar_Augmented(t *testing.T) {
	g := ambiguousFollowGrammar()
	ag := g.Augmented()

	assert.True(t, ag.HasRule(AugmentedStartSymbol))
	assert.Equal(t, "S", ag.StartSymbol())
	assert.Equal(t, []Production{{"S"}}, ag.Rule(AugmentedStartSymbol).Productions)

	// augmenting an already-augmented grammar is a no-op
	again := ag.Augmented()
	assert.True(t, again.Rule(AugmentedStartSymbol).Equal(ag.Rule(AugmentedStartSymbol)))
}

func TestGrammar_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(g *Grammar)
		wantErr bool
	}{
		{
			name:    "well formed",
			modify:  func(g *Grammar) {},
			wantErr: false,
		},
		{
			name: "undefined non-terminal reference",
			modify: func(g *Grammar) {
				g.AddProduction("S", Production{"Q"})
			},
			wantErr: true,
		},
		{
			name: "reserved end-of-input symbol in production",
			modify: func(g *Grammar) {
				g.AddProduction("S", Production{EndOfInput})
			},
			wantErr: true,
		},
		{
			name: "no start symbol",
			modify: func(g *Grammar) {
				g.start = ""
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := ambiguousFollowGrammar()
			tc.modify(g)
			err := g.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGrammar_FIRST(t *testing.T) {
	g := ambiguousFollowGrammar()

	testCases := []struct {
		sym  string
		want []string
	}{
		{"S", []string{"a"}},
		{"A", []string{"a"}},
		{"B", []string{"a"}},
		{"+", []string{"+"}},
		{"a", []string{"a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.sym, func(t *testing.T) {
			got := g.FIRST(tc.sym)
			assert.ElementsMatch(t, tc.want, got.Elements())
		})
	}
}

func TestGrammar_FOLLOW(t *testing.T) {
	g := ambiguousFollowGrammar()

	testCases := []struct {
		nt   string
		want []string
	}{
		{"S", []string{"a", "+", "-", EndOfInput}},
		{"A", []string{"a", "+", "-", EndOfInput}},
		{"B", []string{"a", "+", "-", EndOfInput}},
	}

	for _, tc := range testCases {
		t.Run(tc.nt, func(t *testing.T) {
			got := g.FOLLOW(tc.nt)
			assert.ElementsMatch(t, tc.want, got.Elements())
		})
	}
}

func TestGrammar_FIRST_withEpsilon(t *testing.T) {
	g := New()
	g.SetStart("S")
	g.AddProduction("S", Production{"A", "b"})
	g.AddProduction("A", Production{"a"})
	g.AddProduction("A", Production{})

	first := g.FIRST("S")
	assert.ElementsMatch(t, []string{"a", "b"}, first.Elements())

	firstA := g.FIRST("A")
	assert.ElementsMatch(t, []string{"a", Epsilon}, firstA.Elements())
}

func TestGrammar_LR0Items(t *testing.T) {
	g := New()
	g.SetStart("S")
	g.AddProduction("S", Production{"a", "S"})
	g.AddProduction("S", Production{"a"})

	items := g.LR0Items()
	// rule 0 has 3 dot positions (len 2 production), rule 1 has 2
	assert.Len(t, items, 5)
}

func TestGrammar_CanonicalLR0Items(t *testing.T) {
	g := ambiguousFollowGrammar()
	collection := g.CanonicalLR0Items()

	assert.Greater(t, collection.Len(), 1)

	// the start state must be the closure of [S' -> . S]
	var startState util.SVSet[LR0Item]
	for _, k := range collection.Elements() {
		set := collection.Get(k)
		for _, ik := range set.Elements() {
			item := set.Get(ik)
			if item.NonTerminal == AugmentedStartSymbol && len(item.Left) == 0 {
				startState = set
			}
		}
	}
	assert.NotNil(t, startState)
	assert.True(t, startState.Has(LR0Item{NonTerminal: AugmentedStartSymbol, Right: []string{"S"}}.String()))
	// closure must also have pulled in every S production
	assert.True(t, startState.Has(LR0Item{NonTerminal: "S", Right: Production{"S", "A"}}.String()))
	assert.True(t, startState.Has(LR0Item{NonTerminal: "S", Right: Production{"a"}}.String()))
}

func TestGrammar_LR1Closure(t *testing.T) {
	g := ambiguousFollowGrammar()
	ag := g.Augmented()

	start := LR1Item{LR0Item: LR0Item{NonTerminal: AugmentedStartSymbol, Right: []string{"S"}}, Lookahead: EndOfInput}
	kernel := util.NewSVSet[LR1Item]()
	kernel.Set(start.String(), start)

	closure := ag.LR1Closure(kernel)

	// S -> .a should appear with lookahead $ (from the start item directly)
	// and with lookahead "a" (from closing over S -> .S A / S -> .S B, whose
	// own lookaheads are FIRST(A $) = FIRST(B $) = FIRST(S) = {a})
	want := map[string]bool{"a": true, EndOfInput: true}
	found := map[string]bool{}
	for _, k := range closure.Elements() {
		item := closure.Get(k)
		if item.NonTerminal == "S" && len(item.Right) == 1 && item.Right[0] == "a" {
			found[item.Lookahead] = true
		}
	}
	assert.Equal(t, want, found)
}
