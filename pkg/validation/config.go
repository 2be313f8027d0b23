package validation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// Report accumulates field problems for one configuration value so a
// caller sees all of them at once. Methods chain.
type Report struct {
	scope    string
	problems []error
}

func NewReport(scope string) *Report {
	return &Report{scope: scope}
}

func (r *Report) fail(field string, err error) *Report {
	r.problems = append(r.problems, fmt.Errorf("%s.%s: %w", r.scope, field, err))
	return r
}

// Check records msg against field unless ok holds.
func (r *Report) Check(field string, ok bool, format string, args ...any) *Report {
	if ok {
		return r
	}
	return r.fail(field, fmt.Errorf(format, args...))
}

// Func records the error fn returns, if any, keeping it unwrappable.
func (r *Report) Func(field string, fn func() error) *Report {
	if err := fn(); err != nil {
		return r.fail(field, err)
	}
	return r
}

func (r *Report) NotEmpty(field, value string) *Report {
	return r.Check(field, value != "", "must not be empty")
}

func (r *Report) Finite(field string, v float64) *Report {
	return r.Check(field, !math.IsNaN(v) && !math.IsInf(v, 0), "got %v, want a finite number", v)
}

// Positive and the other float checks below are written so NaN fails them.
func (r *Report) Positive(field string, v float64) *Report {
	return r.Check(field, v > 0, "got %g, want > 0", v)
}

func (r *Report) NonNegative(field string, v float64) *Report {
	return r.Check(field, v >= 0, "got %g, want >= 0", v)
}

// Within checks lo <= v <= hi.
func (r *Report) Within(field string, v, lo, hi float64) *Report {
	return r.Check(field, v >= lo && v <= hi, "got %g, want within [%g, %g]", v, lo, hi)
}

// Fraction checks 0 < v < 1.
func (r *Report) Fraction(field string, v float64) *Report {
	return r.Check(field, v > 0 && v < 1, "got %g, want strictly between 0 and 1", v)
}

func (r *Report) IntWithin(field string, v, lo, hi int) *Report {
	return r.Check(field, v >= lo && v <= hi, "got %d, want within [%d, %d]", v, lo, hi)
}

func (r *Report) PositiveDuration(field string, d time.Duration) *Report {
	return r.Check(field, d > 0, "got %v, want a positive duration", d)
}

func (r *Report) OneOf(field, v string, allowed ...string) *Report {
	return r.Check(field, slices.Contains(allowed, v), "got %q, want one of %v", v, allowed)
}

func (r *Report) Problems() []error { return r.problems }

// Err returns nil when nothing failed, the lone problem when one did, and a
// summary wrapping all of them otherwise.
func (r *Report) Err() error {
	switch len(r.problems) {
	case 0:
		return nil
	case 1:
		return r.problems[0]
	}
	return fmt.Errorf("%s: %d problems: %w", r.scope, len(r.problems), errors.Join(r.problems...))
}

// DefaultOr returns def when value is the zero value of its type.
func DefaultOr[T comparable](value, def T) T {
	var zero T
	if value == zero {
		return def
	}
	return value
}
