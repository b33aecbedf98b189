package verify

import "errors"

type State string

const (
	StateIdle           State = "IDLE"
	StateCheckingRecord State = "CHECKING_RECORD"
	StateCheckingLedger State = "CHECKING_LEDGER"
	StateValid          State = "VALID"
	StateInvalid        State = "INVALID"
)

var ErrInvalidTransition = errors.New("invalid verification transition")

func CanTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateCheckingRecord
	case StateCheckingRecord:
		return to == StateCheckingLedger || to == StateInvalid
	case StateCheckingLedger:
		return to == StateValid || to == StateInvalid
	default:
		return false
	}
}

func Transition(from, to State) (State, error) {
	if !CanTransition(from, to) {
		return from, ErrInvalidTransition
	}
	return to, nil
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateValid || s == StateInvalid
}
