package board

import (
	"errors"
	"fmt"
)

// Error is returned for board-level failures that callers may want to
// distinguish from plain store I/O errors.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ListID identifies the list involved, if any.
	ListID string

	// TicketID identifies the ticket involved, if any.
	TicketID int64

	// Suggestion is a known list id close to an unknown ListID.
	Suggestion string

	// OpID is the operation id the failure was logged under.
	OpID string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes board errors.
type ErrorCode string

const (
	// ErrCodeUnknownList indicates an add or move named a list that does not exist.
	ErrCodeUnknownList ErrorCode = "UNKNOWN_LIST"

	// ErrCodePartialWrite indicates a multi-record commit failed midway and
	// could not be undone. The store may violate the density invariant.
	ErrCodePartialWrite ErrorCode = "PARTIAL_WRITE"

	// ErrCodeOrderMismatch indicates a reorder request did not name exactly
	// the tickets of the list.
	ErrCodeOrderMismatch ErrorCode = "ORDER_MISMATCH"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.ListID != "" {
		msg += fmt.Sprintf(" (list=%s)", e.ListID)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsReferentialError returns true if the error names an unknown list.
// Uses errors.As to handle wrapped errors.
func IsReferentialError(err error) bool {
	return hasCode(err, ErrCodeUnknownList)
}

// IsPartialWriteError returns true if a commit left the store inconsistent.
func IsPartialWriteError(err error) bool {
	return hasCode(err, ErrCodePartialWrite)
}

// IsOrderMismatch returns true if a reorder request was rejected.
func IsOrderMismatch(err error) bool {
	return hasCode(err, ErrCodeOrderMismatch)
}

// NewUnknownListError creates an Error for a reference to a missing list.
func NewUnknownListError(listID, suggestion string) *Error {
	return &Error{
		Code:       ErrCodeUnknownList,
		Message:    "list does not exist",
		ListID:     listID,
		Suggestion: suggestion,
	}
}

// NewPartialWriteError creates an Error for a commit that could not be undone.
func NewPartialWriteError(opID string, writeErr, undoErr error) *Error {
	return &Error{
		Code:    ErrCodePartialWrite,
		Message: "commit failed and compensation did not complete",
		OpID:    opID,
		Err:     errors.Join(writeErr, undoErr),
	}
}
