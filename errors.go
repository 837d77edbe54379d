// FILE: lixenwraith/property/errors.go
package property

import (
	"errors"
	"fmt"
)

// Sentinel errors for property resolution
var (
	// ErrResourceNotFound is returned when a source cannot be read
	ErrResourceNotFound = errors.New("property resource not found")
	// ErrResourceUnavailable is returned when the freshness of a source cannot be determined
	ErrResourceUnavailable = errors.New("property resource freshness unavailable")
	// ErrDecode is returned when a present, non-empty value cannot be converted
	ErrDecode = errors.New("property value decode failed")
	// ErrInvalidDeclaration is returned by the builder for incomplete declarations
	ErrInvalidDeclaration = errors.New("invalid property declaration")
	// ErrUnknownPolicy is returned for cache policies outside the defined set
	ErrUnknownPolicy = errors.New("unknown cache policy")
	// ErrUnsupportedCharset is returned for unknown charset names
	ErrUnsupportedCharset = errors.New("unsupported charset")
)

// ResourceError describes a failed source operation.
// It unwraps to both the sentinel and the underlying cause.
type ResourceError struct {
	Source Source
	Op     string // "read" or "token"
	Err    error
}

func (e *ResourceError) Error() string {
	sentinel := ErrResourceNotFound
	if e.Op == "token" {
		sentinel = ErrResourceUnavailable
	}
	if e.Err == nil {
		return fmt.Sprintf("%v [%s]", sentinel, e.Source)
	}
	return fmt.Sprintf("%v [%s]: %v", sentinel, e.Source, e.Err)
}

func (e *ResourceError) Unwrap() []error {
	sentinel := ErrResourceNotFound
	if e.Op == "token" {
		sentinel = ErrResourceUnavailable
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

func readError(src Source, err error) error {
	return &ResourceError{Source: src, Op: "read", Err: err}
}

func tokenError(src Source, err error) error {
	return &ResourceError{Source: src, Op: "token", Err: err}
}

// DecodeError describes a value that could not be converted to the declared type
type DecodeError struct {
	Key   string
	Value string
	Type  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: key %q value %q as %s: %v", ErrDecode, e.Key, e.Value, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
