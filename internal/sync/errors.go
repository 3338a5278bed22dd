package sync

import (
	"errors"
	"strings"
)

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrImmutableJobID = errors.New("auto-generated job id cannot be edited or deleted")
	ErrDuplicateJobID = errors.New("job id already exists")
	ErrInvalidStatus  = errors.New("invalid record status")
)

// FieldError is one failed rule on one input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
// Nothing is written when an operation returns it.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
	cause  error
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns just the human readable messages
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}
