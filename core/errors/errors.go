// Package errors provides standardized error types and helpers for sheetmap.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrMalformed indicates serialized content that does not match its schema
	ErrMalformed = errors.New("malformed content")
	// ErrNotFound indicates a part, relationship, or table was not found
	ErrNotFound = errors.New("not found")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// FormatError represents malformed serialized content: an unparseable part,
// cell address, or range attribute.
type FormatError struct {
	Part    string // Part name or input description (e.g., "xl/tables/table1.xml", "cell reference")
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *FormatError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("malformed %s: %s", e.Part, e.Message)
	}
	return fmt.Sprintf("malformed content: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformed
}

// Is keeps the error matchable against ErrMalformed even when an
// underlying error occupies the unwrap chain.
func (e *FormatError) Is(target error) bool {
	return target == ErrMalformed
}

// NotFoundError represents a missing package resource with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "part", "relationship", "table")
	Name     string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Name)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// Is keeps the error matchable against ErrNotFound even when an
// underlying error occupies the unwrap chain.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Is keeps the error matchable against ErrUnsupported even when an
// underlying error occupies the unwrap chain.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Helper functions for creating common errors

// NewFormat creates a FormatError
func NewFormat(part, message string) *FormatError {
	return &FormatError{
		Part:    part,
		Message: message,
	}
}

// WrapFormat creates a FormatError around an underlying error
func WrapFormat(part string, err error) *FormatError {
	return &FormatError{
		Part:    part,
		Message: err.Error(),
		Err:     err,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, name string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Name:     name,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
