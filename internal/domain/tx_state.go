package domain

import "fmt"

// TxState is the observed lifecycle state of one transaction.
//
//	Built -> Submitted -> Pending -> {Confirmed | Reverted | Dropped}
//
// Built and Submitted are local; the remaining states are observed on the network.
type TxState string

const (
	TxStateBuilt     TxState = "BUILT"
	TxStateSubmitted TxState = "SUBMITTED"
	TxStatePending   TxState = "PENDING"
	TxStateConfirmed TxState = "CONFIRMED"
	TxStateReverted  TxState = "REVERTED"
	TxStateDropped   TxState = "DROPPED"
)

var txTransitions = map[TxState][]TxState{
	TxStateBuilt:     {TxStateSubmitted},
	TxStateSubmitted: {TxStatePending, TxStateConfirmed, TxStateReverted, TxStateDropped},
	TxStatePending:   {TxStatePending, TxStateConfirmed, TxStateReverted, TxStateDropped},
}

// IsTerminal reports whether no further transitions are possible
func (s TxState) IsTerminal() bool {
	return s == TxStateConfirmed || s == TxStateReverted || s == TxStateDropped
}

// CanTransition reports whether next is a legal successor of s
func (s TxState) CanTransition(next TxState) bool {
	for _, allowed := range txTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next if the move is legal
func (s TxState) Transition(next TxState) (TxState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("illegal transaction state transition %s -> %s", s, next)
	}
	return next, nil
}
