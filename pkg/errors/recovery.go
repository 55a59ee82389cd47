package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is an error built from a recovered panic. It keeps the panic
// value and the stack at the point of recovery.
type PanicError struct {
	PanicValue interface{}
	StackTrace string
	// Operation names where the panic was recovered, e.g. "moe:general-in-rf".
	Operation string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String includes the stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a PanicError for operation.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover converts a panic into an error assigned to *err. Use it with defer:
//
//	func run() (err error) {
//	    defer errors.Recover(&err, "run")
//	    ...
//	}
//
// An error already stored in *err is kept in the chain.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)",
				operation, r, *err)
			return
		}
		*err = NewPanicError(operation, r)
	}
}

// SafeExecute runs fn and turns a panic into a PanicError. Batch runners use
// it so one failing model key cannot take down its siblings.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}

// ItemError ties an error to the batch item that produced it.
type ItemError struct {
	Item string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
