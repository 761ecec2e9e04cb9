package parse

import (
	"fmt"

	"github.com/dekarrin/parsegen/internal/grammar"
	"github.com/dekarrin/parsegen/internal/icterrors"
	"github.com/dekarrin/parsegen/internal/util"
)

// TraceEventType identifies what move a TraceEvent records.
type TraceEventType int

const (
	TraceShift TraceEventType = iota
	TraceReduce
	TraceAccept
)

func (t TraceEventType) String() string {
	switch t {
	case TraceShift:
		return "SHIFT"
	case TraceReduce:
		return "REDUCE"
	case TraceAccept:
		return "ACCEPT"
	default:
		return "?"
	}
}

// TraceEvent describes one step the driver took. For a shift, Symbol is the
// terminal shifted and State is the state pushed. For a reduce, Symbol is
// the production's head, Production its right-hand side, and State the
// state the driver is in after the corresponding GOTO.
type TraceEvent struct {
	Type       TraceEventType
	State      string
	Symbol     string
	Production grammar.Production
}

func (e TraceEvent) String() string {
	switch e.Type {
	case TraceShift:
		return fmt.Sprintf("shift %q, goto state %s", e.Symbol, e.State)
	case TraceReduce:
		return fmt.Sprintf("reduce by %s -> %s, goto state %s", e.Symbol, e.Production, e.State)
	case TraceAccept:
		return "accept"
	default:
		return "?"
	}
}

// TraceListener receives one TraceEvent per driver step. A nil listener is
// valid; Parse simply skips notifying it.
type TraceListener func(TraceEvent)

// Parser drives a shift-reduce parse against a pre-built LRParseTable.
type Parser struct {
	table LRParseTable
}

// NewParser wraps table for driving.
func NewParser(table LRParseTable) *Parser {
	return &Parser{table: table}
}

// Parse runs the shift-reduce algorithm (dragon-book Algorithm 4.44) over
// tokens, returning the root of the resulting parse tree. trace, if
// non-nil, is called once per shift, reduce, and the final accept.
func (p *Parser) Parse(tokens TokenStream, trace TraceListener) (*ParseTree, error) {
	var stateStack util.Stack[string]
	var treeStack util.Stack[*ParseTree]
	stateStack.Push(p.table.InitialState())

	tok := tokens.Next()
	for {
		state := stateStack.Peek()
		act, ok := p.table.Action(state, tok.Terminal())
		if !ok {
			return nil, p.syntaxError(state, tok)
		}

		switch act.Type {
		case ActionShift:
			stateStack.Push(act.State)
			treeStack.Push(&ParseTree{Symbol: tok.Terminal(), Terminal: true, Lexeme: tok.Lexeme()})
			if trace != nil {
				trace(TraceEvent{Type: TraceShift, State: act.State, Symbol: tok.Terminal()})
			}
			tok = tokens.Next()

		case ActionReduce:
			n := len(act.Production)
			children := make([]*ParseTree, n)
			for i := n - 1; i >= 0; i-- {
				stateStack.Pop()
				children[i] = treeStack.Pop()
			}

			prior := stateStack.Peek()
			target, ok := p.table.Goto(prior, act.Head)
			if !ok {
				return nil, icterrors.NewNoGoto(prior, act.Head)
			}
			stateStack.Push(target)
			treeStack.Push(&ParseTree{Symbol: act.Head, Children: children})

			if trace != nil {
				trace(TraceEvent{Type: TraceReduce, State: target, Symbol: act.Head, Production: act.Production})
			}

		case ActionAccept:
			if trace != nil {
				trace(TraceEvent{Type: TraceAccept, State: state})
			}
			return treeStack.Peek(), nil
		}
	}
}

// SyntaxError reports that the driver had no ACTION entry for the current
// state and lookahead: the input does not belong to the grammar's language.
// Expected lists every terminal that would have been accepted instead.
type SyntaxError struct {
	Err      error
	Expected []string
	Found    Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: expected %s but found %s", expectedString(e.Expected), describeToken(e.Found))
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (p *Parser) syntaxError(state string, tok Token) error {
	return &SyntaxError{
		Err:      icterrors.NewNoAction(state, tok.Terminal()),
		Expected: p.table.ExpectedTerminals(state),
		Found:    tok,
	}
}

func describeToken(tok Token) string {
	if tok.Terminal() == grammar.EndOfInput {
		return "end of input"
	}
	return fmt.Sprintf("%q (%s)", tok.Lexeme(), tok.Terminal())
}

func expectedString(expected []string) string {
	if len(expected) == 0 {
		return "nothing; this state has no valid continuation"
	}

	quoted := make([]string, len(expected))
	for i, e := range expected {
		if e == grammar.EndOfInput {
			quoted[i] = "end of input"
		} else {
			quoted[i] = fmt.Sprintf("%q", e)
		}
	}
	if len(quoted) == 1 {
		return fmt.Sprintf("%s %s", util.ArticleFor(quoted[0], false), quoted[0])
	}
	return "one of " + util.MakeTextList(quoted)
}
