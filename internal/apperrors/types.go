package apperrors

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError reports malformed input, keyed by field name. It is raised
// before any simulation work begins.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// DataGapError reports a ticker that has no usable observation for a month
// of the simulation window.
type DataGapError struct {
	Ticker string
	Month  time.Time
	Reason string
}

func (e *DataGapError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "no price data"
	}
	return fmt.Sprintf("%s for %s in %s", reason, e.Ticker, e.Month.Format("2006-01"))
}

// Is makes every DataGapError match ErrDataGap.
func (e *DataGapError) Is(target error) bool {
	return target == ErrDataGap
}

// ComputationBoundaryError describes a metric that is undefined for a
// trajectory. It is reported next to the result and never aborts a run.
type ComputationBoundaryError struct {
	Metric string
	Reason string
}

func (e *ComputationBoundaryError) Error() string {
	return fmt.Sprintf("%s undefined: %s", e.Metric, e.Reason)
}

// ScenarioError wraps the failure of one scenario inside a comparison.
type ScenarioError struct {
	Name  string
	Index int
	Err   error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %q (#%d): %v", e.Name, e.Index+1, e.Err)
}

func (e *ScenarioError) Unwrap() error {
	return e.Err
}
