package main

import "github.com/dekarrin/parsegen/internal/grammar"

// grammarFile is the TOML shape a grammar is authored in:
//
//	start = "S"
//
//	[[rules]]
//	nonterminal = "S"
//	productions = [["a"], ["S", "A"], ["S", "B"]]
type grammarFile struct {
	Start string     `toml:"start"`
	Rules []ruleFile `toml:"rules"`
}

type ruleFile struct {
	NonTerminal string     `toml:"nonterminal"`
	Productions [][]string `toml:"productions"`
}

func (gf grammarFile) toGrammar() *grammar.Grammar {
	g := grammar.New()
	g.SetStart(gf.Start)
	for _, r := range gf.Rules {
		for _, prod := range r.Productions {
			g.AddProduction(r.NonTerminal, grammar.Production(prod))
		}
	}
	return g
}

// grammarBundle is the flattened, rezi-serializable form of a grammar saved
// with -s/--save: a plain value type made only of exported string fields, so
// rezi's reflection-based encoder can walk it directly.
type grammarBundle struct {
	Start string
	Heads []string
	Prods [][][]string
}

func bundleFromGrammar(g grammar.Grammar) grammarBundle {
	b := grammarBundle{Start: g.StartSymbol()}
	for _, nt := range g.NonTerminals() {
		b.Heads = append(b.Heads, nt)
		var prods [][]string
		for _, p := range g.Rule(nt).Productions {
			prods = append(prods, []string(p))
		}
		b.Prods = append(b.Prods, prods)
	}
	return b
}

func (b grammarBundle) toGrammar() *grammar.Grammar {
	g := grammar.New()
	g.SetStart(b.Start)
	for i, nt := range b.Heads {
		for _, prod := range b.Prods[i] {
			g.AddProduction(nt, grammar.Production(prod))
		}
	}
	return g
}
