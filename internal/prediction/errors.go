package prediction

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per error kind. Use errors.Is against these.
var (
	ErrConfig            = errors.New("configuration error")
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParse             = errors.New("parse error")
	ErrInference         = errors.New("inference error")
)

// ErrorKind is a coarse-grained categorization for pipeline errors.
type ErrorKind string

const (
	KindConfig            ErrorKind = "config"
	KindValidation        ErrorKind = "validation"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindParse             ErrorKind = "parse"
	KindInference         ErrorKind = "inference"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrConfig
	case KindValidation:
		return ErrValidation
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindParse:
		return ErrParse
	case KindInference:
		return ErrInference
	default:
		return nil
	}
}

// Error wraps an underlying error with the operation, kind and, where known,
// the offending field and 1-based batch row.
type Error struct {
	Op    string
	Kind  ErrorKind
	Field string
	Row   int
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind.sentinel())
	if e.Row > 0 {
		base += fmt.Sprintf(" (row=%d)", e.Row)
	}
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// IsKind helps callers classify errors without matching on messages.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
