// Package icterrors defines the error kinds raised while compiling a grammar
// into a parse table: a malformed grammar, an ACTION/GOTO conflict, and the
// two "table is incomplete for this input" errors a driver can hit at
// runtime. Each is its own type rather than a shared error-code field, so
// callers can recover the structured detail with errors.As.
package icterrors

import "fmt"

// MalformedGrammarError reports that a grammar failed validation: an
// undefined non-terminal, a missing or malformed start production, or a
// reserved symbol used where it may not appear.
type MalformedGrammarError struct {
	Message string
}

func (e *MalformedGrammarError) Error() string {
	return fmt.Sprintf("malformed grammar: %s", e.Message)
}

// NewMalformedGrammar constructs a MalformedGrammarError from a format
// string, in the manner of fmt.Errorf.
func NewMalformedGrammar(format string, args ...any) error {
	return &MalformedGrammarError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports that table construction tried to assign two
// different actions to the same (state, symbol) cell. Existing and
// Candidate are human-readable renderings of the two actions, not grammar
// values, so this package stays free of a dependency on the grammar or
// parse packages.
type ConflictError struct {
	State     string
	Symbol    string
	Existing  string
	Candidate string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict in state %s on symbol %q: already have %s, cannot also set %s", e.State, e.Symbol, e.Existing, e.Candidate)
}

// NewConflict constructs a ConflictError.
func NewConflict(state, symbol, existing, candidate string) error {
	return &ConflictError{State: state, Symbol: symbol, Existing: existing, Candidate: candidate}
}

// NoActionError reports that the driver consulted ACTION[state, symbol] and
// found no entry, i.e. a syntax error in the input being parsed.
type NoActionError struct {
	State  string
	Symbol string
}

func (e *NoActionError) Error() string {
	return fmt.Sprintf("no action defined for state %s on symbol %q", e.State, e.Symbol)
}

// NewNoAction constructs a NoActionError.
func NewNoAction(state, symbol string) error {
	return &NoActionError{State: state, Symbol: symbol}
}

// NoGotoError reports that the driver consulted GOTO[state, nonTerminal]
// after a reduction and found no entry. Unlike NoActionError this always
// indicates a bug in table construction, not a malformed input, since GOTO
// is only ever consulted for a non-terminal the grammar itself produced.
type NoGotoError struct {
	State       string
	NonTerminal string
}

func (e *NoGotoError) Error() string {
	return fmt.Sprintf("no goto defined for state %s on non-terminal %q", e.State, e.NonTerminal)
}

// NewNoGoto constructs a NoGotoError.
func NewNoGoto(state, nonTerminal string) error {
	return &NoGotoError{State: state, NonTerminal: nonTerminal}
}
