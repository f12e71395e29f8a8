package chart

import "errors"

// ValidationError reports user input that fails a precondition. The chart
// passed to the failing operation is left unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	ErrNameRequired     = &ValidationError{Reason: "name is required"}
	ErrNoChildren       = &ValidationError{Reason: "at least one child is required"}
	ErrNoAssignments    = &ValidationError{Reason: "at least one assignment is required"}
	ErrRotateNeedsTwo   = &ValidationError{Reason: "need at least two children to rotate"}
	ErrDaysRequired     = &ValidationError{Reason: "days required"}
	ErrDatesRequired    = &ValidationError{Reason: "dates required"}
	ErrDayOfMonth       = &ValidationError{Reason: "day of month must be between 1 and 31"}
	ErrUnknownTemplate  = &ValidationError{Reason: "unknown template"}
	ErrUnknownChild     = &ValidationError{Reason: "unknown child"}
	ErrUnknownChore     = &ValidationError{Reason: "unknown chore"}
	ErrCustomNotAllowed = &ValidationError{Reason: "template does not allow custom chores"}
)

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
