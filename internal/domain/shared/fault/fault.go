// Package fault classifies domain errors so transport layers can map every
// rejection to a distinguishable, retry-aware response.
package fault

import "errors"

type Kind int

const (
	// KindStorage is the fallback for unclassified failures.
	KindStorage Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidState
)

// Error couples a message with its taxonomy kind. Domain packages declare
// sentinel *Error values and return them directly or wrapped with %w.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// New builds a classified sentinel error.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf walks the error chain and returns the first classified kind,
// defaulting to KindStorage for unknown failures.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindStorage
}
