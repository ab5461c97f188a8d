package custom_error

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError rejects malformed or incomplete input before any state is
// touched.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Msg)
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError signals a missing item, guide, zone or queue entry.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// DuplicateKeyError signals a creation colliding with an existing record.
type DuplicateKeyError struct {
	Msg string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s", e.Msg)
}

func NewDuplicateKeyError(format string, args ...any) *DuplicateKeyError {
	return &DuplicateKeyError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is a business rejection, not a system fault: the
// requested quantity exceeds what the source record holds.
type InsufficientStockError struct {
	Code      string
	Location  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s at %q: have %d, requested %d",
		e.Code, e.Location, e.Available, e.Requested)
}

// SameLocationError rejects a move whose target equals its source.
type SameLocationError struct {
	Location string
}

func (e *SameLocationError) Error() string {
	return fmt.Sprintf("move source and target are the same location: %s", e.Location)
}

// InvalidLocationError covers both grammar failures and locations absent
// from the declared warehouse layout.
type InvalidLocationError struct {
	Value  string
	Reason string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid location %q: %s", e.Value, e.Reason)
}

func NewInvalidLocationError(value, reason string) *InvalidLocationError {
	return &InvalidLocationError{Value: value, Reason: reason}
}

// BusyError surfaces a per-key exclusion that could not be acquired within
// the bounded wait. The caller may retry; the engine never does.
type BusyError struct {
	Key string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("resource busy: %s", e.Key)
}

// ConflictError covers state conflicts outside the duplicate-key case, e.g.
// deleting an item that still carries stock.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Msg)
}

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// WrapDBError translates PostgreSQL constraint violations into domain errors.
func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return NewDuplicateKeyError("%s (code: %s)", message, code)
	case "23503":
		return NewConflictError("value is still referenced by other resources: %s (code: %s)", message, code)
	default:
		return fmt.Errorf("uncategorized database error with code %s: %s", code, message)
	}
}

// HTTPStatus maps a domain error onto the response code the handlers use.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		duplicate    *DuplicateKeyError
		insufficient *InsufficientStockError
		sameLocation *SameLocationError
		invalidLoc   *InvalidLocationError
		busy         *BusyError
		conflict     *ConflictError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &invalidLoc):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate), errors.As(err, &sameLocation), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.As(err, &busy):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
