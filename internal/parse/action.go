// Package parse builds ACTION/GOTO tables from a grammar's automaton and
// drives a shift-reduce parse against them.
package parse

import (
	"fmt"

	"github.com/dekarrin/parsegen/internal/grammar"
)

// LRActionType enumerates what an ACTION table cell tells the driver to do.
type LRActionType int

const (
	// ActionError is the zero value; it marks table cells nothing has
	// written yet (as opposed to a cell a builder explicitly left empty).
	ActionError LRActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (t LRActionType) String() string {
	switch t {
	case ActionShift:
		return "SHIFT"
	case ActionReduce:
		return "REDUCE"
	case ActionAccept:
		return "ACCEPT"
	default:
		return "ERROR"
	}
}

// LRAction is one ACTION table cell: shift to a state, reduce by a
// production, or accept. Reduce actions carry enough of the production to
// drive the parser (the head and how many symbols to pop) and to render a
// readable table.
type LRAction struct {
	Type   LRActionType
	State  string        // target state, for ActionShift
	Head   string        // production head, for ActionReduce
	Production grammar.Production // production RHS, for ActionReduce
}

func (a LRAction) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("shift %s", a.State)
	case ActionReduce:
		return fmt.Sprintf("reduce %s -> %s", a.Head, a.Production)
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// Equal reports whether o is an LRAction describing the same move.
func (a LRAction) Equal(o any) bool {
	other, ok := o.(LRAction)
	if !ok {
		otherPtr, ok := o.(*LRAction)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	if a.Type != other.Type {
		return false
	}
	switch a.Type {
	case ActionShift:
		return a.State == other.State
	case ActionReduce:
		return a.Head == other.Head && a.Production.Equal(other.Production)
	default:
		return true
	}
}

func shift(state string) LRAction {
	return LRAction{Type: ActionShift, State: state}
}

func reduce(head string, prod grammar.Production) LRAction {
	return LRAction{Type: ActionReduce, Head: head, Production: prod}
}

func accept() LRAction {
	return LRAction{Type: ActionAccept}
}
