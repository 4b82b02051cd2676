package generativeAI

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates why a generation call produced no usable payload.
type ErrorKind string

const (
	ErrNetwork ErrorKind = "network"
	ErrParse   ErrorKind = "parse"
	ErrSchema  ErrorKind = "schema"
	ErrEmpty   ErrorKind = "empty"
	ErrUnknown ErrorKind = "unknown"
)

// ServiceError is the only error type Client.Send returns.
type ServiceError struct {
	Kind    ErrorKind
	Request RequestKind
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s request failed: %s", e.Request, e.Kind)
	}
	return fmt.Sprintf("%s request failed: %s: %v", e.Request, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// KindOf returns the kind of a ServiceError anywhere in err's chain, or ErrUnknown.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrUnknown
}

func newError(kind ErrorKind, req RequestKind, format string, args ...any) *ServiceError {
	return &ServiceError{Kind: kind, Request: req, Err: fmt.Errorf(format, args...)}
}
