// Package errors provides the error taxonomy and warning system shared by every
// qsarstats package. Errors are structured values that carry a stack trace
// (via cockroachdb/errors) and can be marshalled into zerolog events.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("qsarstats-Warning: %v\n", w)
	}
	// set by the logging layer; kept as a func to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the handler used for warnings such as
// ReplicateMismatchWarning.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog sink for warnings. It takes priority
// over the handler set with SetWarningHandler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// ReplicateMismatchWarning is raised when a flat replicate table does not
// divide evenly into replicate blocks. It usually means the feature-selection
// parameters used to derive the stride differ from the ones used in training.
type ReplicateMismatchWarning struct {
	Rows   int
	Stride int
}

func (w *ReplicateMismatchWarning) Error() string {
	return fmt.Sprintf("replicate table has %d rows, which is not a multiple of stride %d; the last block holds %d rows",
		w.Rows, w.Stride, w.Rows%w.Stride)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ReplicateMismatchWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("rows", w.Rows).
		Int("stride", w.Stride).
		Int("remainder", w.Rows%w.Stride).
		Str("type", "ReplicateMismatchWarning")
}

// NewReplicateMismatchWarning creates a ReplicateMismatchWarning.
func NewReplicateMismatchWarning(rows, stride int) *ReplicateMismatchWarning {
	return &ReplicateMismatchWarning{Rows: rows, Stride: stride}
}

// ===========================================================================
//
//	Structured errors
//
// ===========================================================================

// InvalidParameterError reports a parameter outside its domain: a non-positive
// stride, an unknown aggregation method or an unrecognized token. There is no
// best-effort fallback for these.
type InvalidParameterError struct {
	Op     string
	Param  string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("qsarstats: %s: invalid parameter '%s': %s (got: %v)", e.Op, e.Param, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *InvalidParameterError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param_name", e.Param).
		Interface("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "InvalidParameterError")
}

// NewInvalidParameterError creates an InvalidParameterError with a stack trace.
func NewInvalidParameterError(op, param string, value interface{}, reason string) error {
	err := &InvalidParameterError{Op: op, Param: param, Value: value, Reason: reason}
	return errors.WithStack(err)
}

// InvalidDimensionError reports a dimension name that is not one of the
// known model key names.
type InvalidDimensionError struct {
	Op    string
	Name  string
	Known []string
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("qsarstats: %s: unknown dimension '%s' (known: %s)", e.Op, e.Name, strings.Join(e.Known, ", "))
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *InvalidDimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("dimension", e.Name).
		Strs("known", e.Known).
		Str("type", "InvalidDimensionError")
}

// NewInvalidDimensionError creates an InvalidDimensionError with a stack trace.
func NewInvalidDimensionError(op, name string, known []string) error {
	err := &InvalidDimensionError{Op: op, Name: name, Known: append([]string(nil), known...)}
	return errors.WithStack(err)
}

// InconsistentGroupingError reports model keys that were expected to agree on
// a dimension but do not.
type InconsistentGroupingError struct {
	Op        string
	Dimension string
	Values    []string
}

func (e *InconsistentGroupingError) Error() string {
	return fmt.Sprintf("qsarstats: %s: model keys disagree on '%s': %s", e.Op, e.Dimension, strings.Join(e.Values, " != "))
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *InconsistentGroupingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("dimension", e.Dimension).
		Strs("values", e.Values).
		Str("type", "InconsistentGroupingError")
}

// NewInconsistentGroupingError creates an InconsistentGroupingError with a stack trace.
func NewInconsistentGroupingError(op, dimension string, values []string) error {
	err := &InconsistentGroupingError{Op: op, Dimension: dimension, Values: append([]string(nil), values...)}
	return errors.WithStack(err)
}

// DimensionError reports a length or arity mismatch between inputs.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("qsarstats: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument with an inappropriate value.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("qsarstats: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrMissingColumn is returned when a table lacks a requested column.
	ErrMissingColumn = New("missing column")

	// ErrNotFound is returned by stores when a model key or result is absent.
	ErrNotFound = New("not found")
)
