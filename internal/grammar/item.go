package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/parsegen/internal/util"
)

// LR0Item is an item with no lookahead: a production with a dot marking how
// much of the right-hand side has been recognized so far. Left holds the
// symbols before the dot, Right the symbols after it.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// Equal reports whether o is an LR0Item (or *LR0Item) with the same head and
// the same symbols on both sides of the dot.
func (lr0 LR0Item) Equal(o any) bool {
	other, ok := o.(LR0Item)
	if !ok {
		otherPtr, ok := o.(*LR0Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if lr0.NonTerminal != other.NonTerminal {
		return false
	}
	if len(lr0.Left) != len(other.Left) || len(lr0.Right) != len(other.Right) {
		return false
	}
	for i := range lr0.Left {
		if lr0.Left[i] != other.Left[i] {
			return false
		}
	}
	for i := range lr0.Right {
		if lr0.Right[i] != other.Right[i] {
			return false
		}
	}
	return true
}

// Copy returns an independent duplicate of the item.
func (lr0 LR0Item) Copy() LR0Item {
	cp := LR0Item{NonTerminal: lr0.NonTerminal}
	cp.Left = append([]string(nil), lr0.Left...)
	cp.Right = append([]string(nil), lr0.Right...)
	return cp
}

// Production reconstructs the full right-hand side (Left followed by Right,
// i.e. with the dot removed) as a Production value.
func (lr0 LR0Item) Production() Production {
	full := make([]string, 0, len(lr0.Left)+len(lr0.Right))
	full = append(full, lr0.Left...)
	full = append(full, lr0.Right...)
	return Production(full)
}

func (lr0 LR0Item) String() string {
	head := ""
	if lr0.NonTerminal != "" {
		head = fmt.Sprintf("%s -> ", lr0.NonTerminal)
	}

	left := strings.Join(lr0.Left, " ")
	right := strings.Join(lr0.Right, " ")
	if len(left) > 0 {
		left += " "
	}
	if len(right) > 0 {
		right = " " + right
	}

	return fmt.Sprintf("%s%s.%s", head, left, right)
}

// LR1Item is an LR0Item additionally carrying a single terminal lookahead
// (or EndOfInput).
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (lr1 LR1Item) Equal(o any) bool {
	other, ok := o.(LR1Item)
	if !ok {
		otherPtr, ok := o.(*LR1Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return lr1.LR0Item.Equal(other.LR0Item) && lr1.Lookahead == other.Lookahead
}

func (lr1 LR1Item) Copy() LR1Item {
	return LR1Item{LR0Item: lr1.LR0Item.Copy(), Lookahead: lr1.Lookahead}
}

func (lr1 LR1Item) String() string {
	return fmt.Sprintf("%s, %s", lr1.LR0Item.String(), lr1.Lookahead)
}

// CoreSet projects a set of LR1Items down to their LR0 cores, deduplicating
// items that differ only in lookahead. Used to decide which LR(1) states
// collapse into the same LALR(1) state.
func CoreSet(s util.SVSet[LR1Item]) util.SVSet[LR0Item] {
	cores := util.NewSVSet[LR0Item]()
	for _, k := range s.Elements() {
		item := s.Get(k)
		cores.Set(item.LR0Item.String(), item.LR0Item)
	}
	return cores
}

// EqualCoreSets reports whether two LR(1) item sets project to the same
// LR(0) core, i.e. whether they are candidates for LALR merging.
func EqualCoreSets(s1, s2 util.SVSet[LR1Item]) bool {
	return CoreSet(s1).Equal(CoreSet(s2))
}

// ParseLR0Item parses the debug notation "NONTERM -> ALPHA . BETA" back into
// an LR0Item. It exists for tests and for rendering round-trippable error
// messages; it is not a general grammar-text front-end.
func ParseLR0Item(s string) (LR0Item, error) {
	sides := strings.SplitN(s, "->", 2)
	if len(sides) != 2 {
		return LR0Item{}, fmt.Errorf("not an item of form 'NONTERM -> ALPHA.BETA': %q", s)
	}
	nonTerminal := strings.TrimSpace(sides[0])
	if nonTerminal == "" {
		return LR0Item{}, fmt.Errorf("empty nonterminal name not allowed for item")
	}

	item := LR0Item{NonTerminal: nonTerminal}

	prodStrings := strings.SplitN(strings.TrimSpace(sides[1]), ".", 2)
	if len(prodStrings) != 2 {
		return LR0Item{}, fmt.Errorf("item must have exactly one dot")
	}

	item.Left = splitSymbols(prodStrings[0])
	item.Right = splitSymbols(prodStrings[1])

	return item, nil
}

// ParseLR1Item parses the debug notation "NONTERM -> ALPHA . BETA, a".
func ParseLR1Item(s string) (LR1Item, error) {
	sides := strings.SplitN(s, ",", 2)
	if len(sides) != 2 {
		return LR1Item{}, fmt.Errorf("not an item of form 'NONTERM -> ALPHA.BETA, a': %q", s)
	}

	lr0, err := ParseLR0Item(sides[0])
	if err != nil {
		return LR1Item{}, err
	}

	return LR1Item{LR0Item: lr0, Lookahead: strings.TrimSpace(sides[1])}, nil
}

func splitSymbols(s string) []string {
	var syms []string
	for _, sym := range strings.Fields(s) {
		if strings.EqualFold(sym, "epsilon") || sym == Epsilon {
			continue
		}
		syms = append(syms, sym)
	}
	return syms
}
