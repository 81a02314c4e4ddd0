package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSubmitInProgress is returned when Submit is called while a previous
	// submission of the same form is still pending.
	ErrSubmitInProgress = errors.New("form: submission already in progress")

	// ErrUnknownField is returned for events naming a field the form does
	// not declare.
	ErrUnknownField = errors.New("form: unknown field")
)

// Errors maps field names to human-readable messages.
type Errors map[string]string

// Clone returns an independent copy of e.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ValidationError is returned by Submit when the validation function
// reported at least one field error.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("form: invalid fields: %s", strings.Join(fields, ", "))
}

// SubmitError wraps a failure returned by the submit handler.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("form: submit failed: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
