package woql

import (
	"errors"
	"fmt"
)

// BuildError reports a problem detected while constructing a query.
//
// The builder records the first BuildError and ignores every later call,
// so a long chain surfaces the earliest mistake rather than a cascade.
type BuildError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operator or builder method that failed.
	Op string

	// Index is the offending argument position, or -1.
	Index int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes build errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates an argument of an unsupported shape.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeNoActiveSubject indicates shorthand with no preceding subject.
	ErrCodeNoActiveSubject ErrorCode = "NO_ACTIVE_SUBJECT"

	// ErrCodeMultipleOperators indicates a node holding more than one operator key.
	ErrCodeMultipleOperators ErrorCode = "MULTIPLE_OPERATORS"

	// ErrCodeNotPaged indicates a paging call on a query without a limit.
	ErrCodeNotPaged ErrorCode = "NOT_PAGED"

	// ErrCodeSubqueryFailed indicates a spliced sub-query carried its own error.
	ErrCodeSubqueryFailed ErrorCode = "SUBQUERY_FAILED"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	switch {
	case e.Op != "" && e.Index >= 0:
		return fmt.Sprintf("%s: %s argument %d: %s", e.Code, e.Op, e.Index, e.Message)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsInvalidArgument returns true if err is an INVALID_ARGUMENT build error.
func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument)
}

// IsNoActiveSubject returns true if err is a NO_ACTIVE_SUBJECT build error.
func IsNoActiveSubject(err error) bool {
	return hasCode(err, ErrCodeNoActiveSubject)
}

// IsMultipleOperators returns true if err is a MULTIPLE_OPERATORS build error.
func IsMultipleOperators(err error) bool {
	return hasCode(err, ErrCodeMultipleOperators)
}

// IsNotPaged returns true if err is a NOT_PAGED build error.
func IsNotPaged(err error) bool {
	return hasCode(err, ErrCodeNotPaged)
}

// IsSubqueryFailed returns true if err is a SUBQUERY_FAILED build error.
func IsSubqueryFailed(err error) bool {
	return hasCode(err, ErrCodeSubqueryFailed)
}

// NewInvalidArgument creates an INVALID_ARGUMENT error for argument index of op.
func NewInvalidArgument(op string, index int, format string, args ...any) *BuildError {
	return &BuildError{
		Code:    ErrCodeInvalidArgument,
		Op:      op,
		Index:   index,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNoActiveSubject creates a NO_ACTIVE_SUBJECT error for shorthand method op.
func NewNoActiveSubject(op string) *BuildError {
	return &BuildError{
		Code:    ErrCodeNoActiveSubject,
		Op:      op,
		Index:   -1,
		Message: "no preceding triple, quad, isa or sub established a subject",
	}
}

// NewNotPaged creates a NOT_PAGED error for op.
func NewNotPaged(op string) *BuildError {
	return &BuildError{
		Code:    ErrCodeNotPaged,
		Op:      op,
		Index:   -1,
		Message: "query has no limit on its select/from/start/when/opt/limit chain",
	}
}

func newMultipleOperators(where string, ops []string) *BuildError {
	return &BuildError{
		Code:    ErrCodeMultipleOperators,
		Index:   -1,
		Message: fmt.Sprintf("node %s holds %d operators %v", where, len(ops), ops),
	}
}

func newSubqueryFailed(op string, index int, cause error) *BuildError {
	return &BuildError{
		Code:    ErrCodeSubqueryFailed,
		Op:      op,
		Index:   index,
		Message: cause.Error(),
		Err:     cause,
	}
}
