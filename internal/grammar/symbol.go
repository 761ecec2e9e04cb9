package grammar

// AugmentedStartSymbol is the distinguished head introduced by Augmented to
// wrap a grammar's user-chosen start symbol in a single production. It is
// always classified as a non-terminal regardless of its punctuation.
const AugmentedStartSymbol = "S'"

// EndOfInput is the lookahead/input sentinel denoting the end of the token
// stream. It may never appear in a production's right-hand side.
const EndOfInput = "$"

// Epsilon denotes the empty string inside FIRST sets and empty productions.
// It may never appear in a production's right-hand side.
const Epsilon = "ε"

// IsNonTerminal reports whether name is classified as a non-terminal: its
// first character is an uppercase ASCII letter, or it is exactly the
// augmented start symbol. Every other symbol, including punctuation and
// lowercase identifiers, is a terminal. This is the sole classification rule
// used throughout the grammar, automaton, and parse packages.
func IsNonTerminal(name string) bool {
	if name == AugmentedStartSymbol {
		return true
	}
	if len(name) == 0 {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// IsTerminal reports whether name is classified as a terminal; it is the
// complement of IsNonTerminal.
func IsTerminal(name string) bool {
	return !IsNonTerminal(name)
}
