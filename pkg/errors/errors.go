// Package errors provides custom error types for the collate system.
// These errors enable programmatic error checking with errors.Is and
// carry enough context to name the offending submission, column, or
// file in user-facing messages.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the collate system
var (
	// ErrSchemaMismatch indicates that submitted files carry divergent column schemas
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrMissingColumn indicates that a configured column is absent from the schema
	ErrMissingColumn = errors.New("missing column")

	// ErrEmptyBatch indicates that consolidation was attempted with no input files
	ErrEmptyBatch = errors.New("empty batch")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// SchemaMismatchError reports the first column at which a submission's
// schema diverges from the batch schema. The whole batch is rejected;
// no partial output is produced.
type SchemaMismatchError struct {
	Source string // submission whose schema diverged
	Column int    // first divergent column index
	Want   string // label expected at that index, empty if the schema ran short
	Got    string // label found at that index, empty if the schema ran short
}

// Error implements the error interface
func (e *SchemaMismatchError) Error() string {
	switch {
	case e.Want != "" && e.Got != "":
		return fmt.Sprintf("schema mismatch in %s at column %d: expected %q, found %q", e.Source, e.Column, e.Want, e.Got)
	case e.Got == "":
		return fmt.Sprintf("schema mismatch in %s at column %d: expected %q, schema ends early", e.Source, e.Column, e.Want)
	default:
		return fmt.Sprintf("schema mismatch in %s at column %d: unexpected extra column %q", e.Source, e.Column, e.Got)
	}
}

// Is implements errors.Is support
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// NewSchemaMismatchError creates a new SchemaMismatchError
func NewSchemaMismatchError(source string, column int, want, got string) *SchemaMismatchError {
	return &SchemaMismatchError{Source: source, Column: column, Want: want, Got: got}
}

// MissingColumnError reports a configured column label absent from the
// consolidated schema. Role names which configuration slot referenced
// it: "key", "identity", "author", or "time".
type MissingColumnError struct {
	Role   string
	Column string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s column %q not present in schema", e.Role, e.Column)
	}
	return fmt.Sprintf("column %q not present in schema", e.Column)
}

// Is implements errors.Is support
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// NewMissingColumnError creates a new MissingColumnError
func NewMissingColumnError(role, column string) *MissingColumnError {
	return &MissingColumnError{Role: role, Column: column}
}

// EmptyBatchError indicates consolidation was attempted with no inputs.
type EmptyBatchError struct{}

// Error implements the error interface
func (e *EmptyBatchError) Error() string {
	return "no input files in batch"
}

// Is implements errors.Is support
func (e *EmptyBatchError) Is(target error) bool {
	return target == ErrEmptyBatch
}

// NewEmptyBatchError creates a new EmptyBatchError
func NewEmptyBatchError() *EmptyBatchError {
	return &EmptyBatchError{}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing file content
type ParseError struct {
	Format  string // "xlsx", "yaml", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsSchemaMismatch checks if an error is a schema mismatch error
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// IsMissingColumn checks if an error is a missing column error
func IsMissingColumn(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}

// IsEmptyBatch checks if an error is an empty batch error
func IsEmptyBatch(err error) bool {
	return errors.Is(err, ErrEmptyBatch)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
