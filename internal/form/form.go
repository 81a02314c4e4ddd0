// Package form manages the state of a single user-facing form: field values,
// touched fields, validation errors and the submission lifecycle.
//
// A State is created per form instance. Validation is pluggable and always
// runs over the whole value set, on blur as well as on submit. Submission
// delegates to a caller-supplied handler and guarantees that the submitting
// flag is cleared however the handler finishes.
package form

import (
	"context"
	"fmt"
	"sync"
)

// ValidateFunc inspects the full value set and returns one message per
// invalid field. It must be pure and must not call back into the State.
type ValidateFunc func(Values) Errors

// SubmitFunc receives a copy of the validated values. The Handle lets the
// handler reset the form once it has consumed the values.
type SubmitFunc func(ctx context.Context, values Values, h Handle) error

// Handle is passed to a SubmitFunc.
type Handle struct {
	reset func()
}

// Reset restores the form to its initial snapshot.
func (h Handle) Reset() {
	if h.reset != nil {
		h.reset()
	}
}

// Snapshot is a point-in-time copy of a form's state.
type Snapshot struct {
	Values     Values          `json:"values"`
	Errors     Errors          `json:"errors"`
	Touched    map[string]bool `json:"touched"`
	Submitting bool            `json:"is_submitting"`
}

// VisibleErrors returns the errors of touched fields only.
func (s Snapshot) VisibleErrors() Errors {
	out := make(Errors)
	for field, msg := range s.Errors {
		if s.Touched[field] {
			out[field] = msg
		}
	}
	return out
}

// State holds one form instance.
type State struct {
	mu         sync.Mutex
	initial    Values
	values     Values
	errors     Errors
	touched    map[string]bool
	submitting bool
	validate   ValidateFunc
}

// New creates a form whose baseline is initial. A nil validate accepts
// every value set.
func New(initial Values, validate ValidateFunc) *State {
	if validate == nil {
		validate = func(Values) Errors { return nil }
	}
	return &State{
		initial:  initial.Clone(),
		values:   initial.Clone(),
		errors:   make(Errors),
		touched:  make(map[string]bool),
		validate: validate,
	}
}

// HandleChange records new input for field. Checkbox input is coerced to a
// boolean; other kinds keep the raw string. Any error on the field is
// cleared and the field becomes touched.
func (s *State) HandleChange(field, raw string, kind InputKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.initial[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	switch kind {
	case InputCheckbox:
		b, err := parseToggle(raw)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		s.values[field] = Bool(b)
	case InputNumber:
		s.values[field] = Number(raw)
	default:
		s.values[field] = Text(raw)
	}

	delete(s.errors, field)
	s.touched[field] = true
	return nil
}

// HandleBlur marks field as touched and revalidates the entire form,
// replacing the error set.
func (s *State) HandleBlur(field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.initial[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	s.touched[field] = true
	s.errors = s.runValidate()
	return nil
}

// Submit validates the form and, when it is valid, invokes onSubmit.
//
// It returns ErrSubmitInProgress without side effects when another
// submission is pending, a *ValidationError when validation fails (onSubmit
// is not called), and a *SubmitError wrapping any handler failure.
func (s *State) Submit(ctx context.Context, onSubmit SubmitFunc) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInProgress
	}

	for field := range s.initial {
		s.touched[field] = true
	}
	s.errors = s.runValidate()
	if len(s.errors) > 0 {
		verr := &ValidationError{Errors: s.errors.Clone()}
		s.mu.Unlock()
		return verr
	}

	s.submitting = true
	values := s.values.Clone()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if onSubmit == nil {
		return nil
	}
	if err := onSubmit(ctx, values, Handle{reset: s.Reset}); err != nil {
		return &SubmitError{Err: err}
	}
	return nil
}

// Reset restores the initial values and clears errors, touched fields and
// the submitting flag.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = s.initial.Clone()
	s.errors = make(Errors)
	s.touched = make(map[string]bool)
	s.submitting = false
}

// SetErrors replaces the error set, e.g. with errors reported by a backend
// after submission. Messages for undeclared fields are dropped.
func (s *State) SetErrors(errs Errors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = s.known(errs)
}

// Bind feeds decoded JSON fields into the form as change events, using the
// kind of each field's initial value. Fields the form does not declare are
// skipped.
func (s *State) Bind(fields map[string]any) error {
	for name, v := range fields {
		s.mu.Lock()
		initial, ok := s.initial[name]
		s.mu.Unlock()
		if !ok {
			continue
		}

		raw, err := RawJSON(v)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		if err := s.HandleChange(name, raw, initial.inputKind()); err != nil {
			return err
		}
	}
	return nil
}

// Submitting reports whether a submission is pending.
func (s *State) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]bool, len(s.touched))
	for k, v := range s.touched {
		touched[k] = v
	}
	return Snapshot{
		Values:     s.values.Clone(),
		Errors:     s.errors.Clone(),
		Touched:    touched,
		Submitting: s.submitting,
	}
}

// runValidate must be called with mu held.
func (s *State) runValidate() Errors {
	return s.known(s.validate(s.values.Clone()))
}

// known keeps non-empty messages for declared fields.
func (s *State) known(errs Errors) Errors {
	out := make(Errors, len(errs))
	for field, msg := range errs {
		if _, ok := s.initial[field]; ok && msg != "" {
			out[field] = msg
		}
	}
	return out
}
