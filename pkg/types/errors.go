package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a compiler error code.
//
// The leading letter names the stage that produced the error:
// L (lexer), P (parser), T (traverser), G (code generator).
type ErrorCode string

// Error codes.
const (
	// L0xxx: Lexical errors
	ErrUnknownCharacter ErrorCode = "L0101"
	ErrStringNotClosed  ErrorCode = "L0102"

	// P0xxx: Parser errors
	ErrUnexpectedToken      ErrorCode = "P0201"
	ErrUnsupportedConstruct ErrorCode = "P0202"
	ErrUnexpectedEnd        ErrorCode = "P0203"

	// T0xxx: Traversal errors
	ErrTraverseUnknownNode ErrorCode = "T0301"

	// G0xxx: Code generation errors
	ErrGenerateUnknownNode ErrorCode = "G0401"
)

// Stage sentinels. Every *Error matches exactly one of them with errors.Is.
var (
	ErrLex       = errors.New("lex error")
	ErrParse     = errors.New("parse error")
	ErrTraversal = errors.New("traversal error")
	ErrCodeGen   = errors.New("codegen error")
)

// Stage returns the stage sentinel the code belongs to, or nil for an
// unknown code.
func (c ErrorCode) Stage() error {
	if c == "" {
		return nil
	}
	switch c[0] {
	case 'L':
		return ErrLex
	case 'P':
		return ErrParse
	case 'T':
		return ErrTraversal
	case 'G':
		return ErrCodeGen
	default:
		return nil
	}
}

// Error represents a structured compiler error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new compiler error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the stage sentinel of e's code.
func (e *Error) Is(target error) bool {
	stage := e.Code.Stage()
	return stage != nil && stage == target
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
