package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the session core. Callers match them with errors.Is.
var (
	// ErrRoleNotFound means the catalog has no role with the given ID.
	ErrRoleNotFound = errors.New("role not found")

	// ErrInvalidSelection means the chosen domain is not valid for the role.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrIllegalTransition means an action was attempted from the wrong phase.
	// The session is left unmodified.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrEvaluationUnavailable means the answer evaluator failed after all
	// retry attempts. The transcript holds the question and answer but no
	// feedback for the turn.
	ErrEvaluationUnavailable = errors.New("evaluation unavailable")

	// ErrNoMoreQuestions means the question source is exhausted for the
	// selected role, domain, and mode.
	ErrNoMoreQuestions = errors.New("no more questions")
)

// SelectionError reports why a role/domain selection was rejected.
// It unwraps to ErrInvalidSelection, and additionally to ErrRoleNotFound
// when the role itself was unknown.
type SelectionError struct {
	RoleID string
	Domain string
	cause  error
}

// NewSelectionError builds a SelectionError. cause may be nil.
func NewSelectionError(roleID, domain string, cause error) *SelectionError {
	return &SelectionError{RoleID: roleID, Domain: domain, cause: cause}
}

func (e *SelectionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid selection %q/%q: %v", e.RoleID, e.Domain, e.cause)
	}
	return fmt.Sprintf("invalid selection %q/%q", e.RoleID, e.Domain)
}

func (e *SelectionError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvalidSelection, e.cause}
	}
	return []error{ErrInvalidSelection}
}
