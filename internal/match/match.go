// Package match filters candidate records against a set of criteria.
//
// A Schema declares the filterable attributes of a record type and how each
// one is compared. Filtering is conjunctive: a record is kept only when it
// satisfies every non-empty constraint. Relative order is preserved and the
// input slice is never modified.
package match

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Rule is the comparison applied to an attribute.
type Rule int

const (
	// Exact keeps records whose attribute equals the constraint, case-sensitively.
	Exact Rule = iota
	// Fold keeps records whose attribute equals the constraint, ignoring case.
	Fold
	// Contains keeps records whose attribute contains the constraint, ignoring case.
	Contains
	// AtLeast keeps records whose numeric attribute is >= the threshold.
	AtLeast
)

func (r Rule) String() string {
	switch r {
	case Exact:
		return "exact"
	case Fold:
		return "fold"
	case Contains:
		return "contains"
	case AtLeast:
		return "at_least"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// Attribute describes one filterable field of T.
type Attribute[T any] struct {
	Name   string
	Rule   Rule
	Text   func(T) string
	Number func(T) float64
}

// ExactText declares a case-sensitive string attribute.
func ExactText[T any](name string, get func(T) string) Attribute[T] {
	return Attribute[T]{Name: name, Rule: Exact, Text: get}
}

// FoldText declares a case-insensitive string attribute.
func FoldText[T any](name string, get func(T) string) Attribute[T] {
	return Attribute[T]{Name: name, Rule: Fold, Text: get}
}

// ContainsText declares a case-insensitive substring attribute.
func ContainsText[T any](name string, get func(T) string) Attribute[T] {
	return Attribute[T]{Name: name, Rule: Contains, Text: get}
}

// MinNumber declares a numeric attribute filtered by a minimum threshold.
func MinNumber[T any](name string, get func(T) float64) Attribute[T] {
	return Attribute[T]{Name: name, Rule: AtLeast, Number: get}
}

// Constraint restricts one attribute. String rules read Text, AtLeast reads
// Min. A constraint with neither set imposes no restriction.
type Constraint struct {
	Text string
	Min  *float64
}

// Equals returns a string constraint.
func Equals(s string) Constraint { return Constraint{Text: s} }

// Threshold returns a minimum-value constraint.
func Threshold(min float64) Constraint { return Constraint{Min: &min} }

// Criteria maps attribute names to constraints.
type Criteria map[string]Constraint

// ErrNotFinite is wrapped by CriteriaError for NaN and infinite thresholds.
var ErrNotFinite = errors.New("not a finite number")

// CriteriaError reports a constraint value that could not be parsed.
type CriteriaError struct {
	Attribute string
	Value     string
	Err       error
}

func (e *CriteriaError) Error() string {
	return fmt.Sprintf("invalid value %q for filter %s: %v", e.Value, e.Attribute, e.Err)
}

func (e *CriteriaError) Unwrap() error {
	return e.Err
}

// Schema is the set of filterable attributes of T.
type Schema[T any] struct {
	attrs map[string]Attribute[T]
	order []string
}

// NewSchema builds a schema. Later attributes replace earlier ones with the
// same name.
func NewSchema[T any](attrs ...Attribute[T]) *Schema[T] {
	s := &Schema[T]{attrs: make(map[string]Attribute[T], len(attrs))}
	for _, a := range attrs {
		if _, dup := s.attrs[a.Name]; !dup {
			s.order = append(s.order, a.Name)
		}
		s.attrs[a.Name] = a
	}
	return s
}

// Names lists the attribute names in declaration order.
func (s *Schema[T]) Names() []string {
	return append([]string(nil), s.order...)
}

// Apply returns the records of items that satisfy every active constraint of
// c, in their original order. Constraints on names the schema does not
// declare are ignored.
func (s *Schema[T]) Apply(items []T, c Criteria) []T {
	type active struct {
		attr Attribute[T]
		cons Constraint
	}

	var checks []active
	for _, name := range s.order {
		cons, ok := c[name]
		if !ok {
			continue
		}
		attr := s.attrs[name]
		if attr.Rule == AtLeast {
			if cons.Min == nil || attr.Number == nil {
				continue
			}
		} else if cons.Text == "" || attr.Text == nil {
			continue
		}
		checks = append(checks, active{attr: attr, cons: cons})
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, chk := range checks {
			if !satisfies(item, chk.attr, chk.cons) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

func satisfies[T any](item T, attr Attribute[T], c Constraint) bool {
	switch attr.Rule {
	case Exact:
		return attr.Text(item) == c.Text
	case Fold:
		return strings.EqualFold(attr.Text(item), c.Text)
	case Contains:
		return strings.Contains(strings.ToLower(attr.Text(item)), strings.ToLower(c.Text))
	case AtLeast:
		return attr.Number(item) >= *c.Min
	default:
		return false
	}
}

// ParseCriteria converts raw UI values into criteria. Blank values and
// unknown names are skipped; numeric attributes must parse as numbers.
func (s *Schema[T]) ParseCriteria(raw map[string]string) (Criteria, error) {
	c := make(Criteria, len(raw))
	for name, value := range raw {
		attr, ok := s.attrs[name]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if attr.Rule == AtLeast {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &CriteriaError{Attribute: name, Value: value, Err: err}
			}
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return nil, &CriteriaError{Attribute: name, Value: value, Err: ErrNotFinite}
			}
			c[name] = Threshold(f)
			continue
		}
		c[name] = Equals(value)
	}
	return c, nil
}

// ParseQuery reads the schema's attributes from URL query parameters.
func (s *Schema[T]) ParseQuery(q url.Values) (Criteria, error) {
	raw := make(map[string]string, len(s.order))
	for _, name := range s.order {
		if q.Has(name) {
			raw[name] = q.Get(name)
		}
	}
	return s.ParseCriteria(raw)
}
