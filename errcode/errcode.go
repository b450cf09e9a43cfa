// Package errcode defines the failure taxonomy shared by vectors, sets and compacts.
//
// Every fallible operation returns an error whose kind can be matched with errors.Is
// against one of the Code constants:
//
//	if errors.Is(err, errcode.DimensionMismatch) { ... }
//
// Scalar-returning operations (dot product, norms, coordinate reads) do not return an
// error; they report failure with a NaN value instead.
package errcode

import (
	"errors"
	"fmt"
)

// Code is the kind of a failure. It implements error so it can be returned and wrapped directly.
type Code uint8

const (
	OutOfMemory Code = iota + 1
	NullInput
	DegenerateObject
	DimensionMismatch
	NotANumber
	IndexOutOfBounds
	CannotOpenResource
	ElementNotFound
	InvalidParameter
	RequiresInitialization
	Unknown
)

var names = [...]string{
	OutOfMemory:            "OutOfMemory",
	NullInput:              "NullInput",
	DegenerateObject:       "DegenerateObject",
	DimensionMismatch:      "DimensionMismatch",
	NotANumber:             "NotANumber",
	IndexOutOfBounds:       "IndexOutOfBounds",
	CannotOpenResource:     "CannotOpenResource",
	ElementNotFound:        "ElementNotFound",
	InvalidParameter:       "InvalidParameter",
	RequiresInitialization: "RequiresInitialization",
	Unknown:                "Unknown",
}

var descriptions = [...]string{
	OutOfMemory:            "can not allocate memory",
	NullInput:              "null pointer passed as argument",
	DegenerateObject:       "degenerate mathematical object",
	DimensionMismatch:      "mismatch of dimensions of mathematical objects",
	NotANumber:             "NaN value passed as argument",
	IndexOutOfBounds:       "index exceeds the number of elements in container",
	CannotOpenResource:     "can not open resource",
	ElementNotFound:        "element not found",
	InvalidParameter:       "invalid arguments passed",
	RequiresInitialization: "object requires initialization",
	Unknown:                "unknown failure",
}

func (c Code) valid() bool {
	return c >= OutOfMemory && c <= Unknown
}

// String returns the kind name, e.g. "DimensionMismatch".
func (c Code) String() string {
	if !c.valid() {
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
	return names[c]
}

// Description returns the default human readable message for the code.
// It is what the logger prints when no explicit message is given.
func (c Code) Description() string {
	if !c.valid() {
		return descriptions[Unknown]
	}
	return descriptions[c]
}

func (c Code) Error() string {
	return c.Description()
}

// Error is a failure attributed to a named operation.
type Error struct {
	Op   string
	Code Code
	Msg  string
}

// New returns an *Error for op with the code's default description.
func New(op string, code Code) *Error {
	return &Error{Op: op, Code: code}
}

// Newf returns an *Error for op with a formatted message.
func Newf(op string, code Code, format string, args ...any) *Error {
	return &Error{Op: op, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Code.Description()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Code }

// DimensionMismatchError reports two objects of different dimensionality.
//
// errors.Is(err, DimensionMismatch) holds for it.
type DimensionMismatchError struct {
	Op       string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	msg := fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *DimensionMismatchError) Unwrap() error { return DimensionMismatch }

// Dimension returns a *DimensionMismatchError for op.
func Dimension(op string, expected, actual int) *DimensionMismatchError {
	return &DimensionMismatchError{Op: op, Expected: expected, Actual: actual}
}

// Of returns the kind of err. It returns 0 for a nil error and Unknown for errors
// that carry no Code.
func Of(err error) Code {
	if err == nil {
		return 0
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Unknown
}
