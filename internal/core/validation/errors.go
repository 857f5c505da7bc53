package validation

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error Types
// =============================================================================

// ValidationError reports a single violated constraint.
type ValidationError struct {
	Field   string // Input name (e.g., "memory-limit")
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationErrors aggregates every violation found in one validation pass,
// in the order the fields were checked.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Message
	}
	return "input validation failed:\n" + strings.Join(msgs, "\n")
}

// Unwrap exposes the individual violations to errors.As and errors.Is.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		errs[i] = ve
	}
	return errs
}

// Fields returns the names of the violated fields in check order.
func (e *ValidationErrors) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		fields[i] = ve.Field
	}
	return fields
}

// collector gathers validation failures without stopping at the first one.
type collector struct {
	errs []*ValidationError
}

func (c *collector) check(err error) {
	if err == nil {
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.errs = append(c.errs, ve)
		return
	}
	c.errs = append(c.errs, &ValidationError{Message: err.Error()})
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: c.errs}
}
