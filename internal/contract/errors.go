package contract

import (
	"errors"
	"fmt"

	"github.com/roach88/msgboard/internal/ir"
	"github.com/roach88/msgboard/internal/store"
)

// Error is a failure reported by a contract entry point.
//
// Every Error aborts the enclosing transaction. Code is stable and is what
// callers (the CLI, scenario files) match on; Message is for humans.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context, such as the id involved.
	Details map[string]string
}

// ErrorCode categorizes contract errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a point lookup found no message.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeCounterOverflow indicates the id counter cannot advance.
	ErrCodeCounterOverflow ErrorCode = "COUNTER_OVERFLOW"

	// ErrCodeNotInitialized indicates the counter cell was never written.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// ErrCodeAlreadyInitialized indicates Instantiate ran on an initialized store.
	ErrCodeAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"

	// ErrCodeDuplicateID indicates an allocated id was already present.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeInvalidRequest indicates a request without exactly one variant.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if err is a NOT_FOUND contract error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsCounterOverflow returns true if err is a COUNTER_OVERFLOW contract error.
func IsCounterOverflow(err error) bool {
	return CodeOf(err) == ErrCodeCounterOverflow
}

// CodeOf returns the code of the contract error in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// NewNotFoundError creates an Error for a missing message.
func NewNotFoundError(id uint64) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("message %d not found", id),
		Details: map[string]string{"id": fmt.Sprintf("%d", id)},
	}
}

// NewCounterOverflowError creates an Error for an exhausted counter.
func NewCounterOverflowError(next uint64) *Error {
	return &Error{
		Code:    ErrCodeCounterOverflow,
		Message: "message id counter overflow",
		Details: map[string]string{"next_id": fmt.Sprintf("%d", next)},
	}
}

// NewDuplicateIDError creates an Error for an id that was allocated twice.
func NewDuplicateIDError(id uint64) *Error {
	return &Error{
		Code:    ErrCodeDuplicateID,
		Message: fmt.Sprintf("message %d already exists", id),
		Details: map[string]string{"id": fmt.Sprintf("%d", id)},
	}
}

func newNotInitializedError() *Error {
	return &Error{
		Code:    ErrCodeNotInitialized,
		Message: "contract has not been instantiated",
	}
}

func newAlreadyInitializedError(next uint64) *Error {
	return &Error{
		Code:    ErrCodeAlreadyInitialized,
		Message: "contract is already instantiated",
		Details: map[string]string{"next_id": fmt.Sprintf("%d", next)},
	}
}

// NewInvalidRequestError creates an Error for a malformed request.
func NewInvalidRequestError(err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidRequest,
		Message: err.Error(),
	}
}

// asInvalidRequest converts an ir decoding error into a contract error.
// Other errors are returned unchanged.
func asInvalidRequest(err error) error {
	if errors.Is(err, ir.ErrInvalidRequest) {
		return NewInvalidRequestError(err)
	}
	return err
}

// isStoreNotFound reports whether err is a store miss.
func isStoreNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
