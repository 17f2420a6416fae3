package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of cart and checkout operations
type ErrorKind int

const (
	// ErrEmptyCart: checkout of a cart without items
	ErrEmptyCart ErrorKind = iota + 1
	// ErrInvalidData: a required field is missing or out of range
	ErrInvalidData
	// ErrNotFound: unknown product ref, cart line or order
	ErrNotFound
	// ErrReplicationFailed: the secondary store rejected every attempt; the primary write was rolled back
	ErrReplicationFailed
	// ErrPersistenceFailed: the primary store failed
	ErrPersistenceFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrEmptyCart:
		return "EmptyCart"
	case ErrInvalidData:
		return "InvalidData"
	case ErrNotFound:
		return "NotFound"
	case ErrReplicationFailed:
		return "ReplicationFailed"
	case ErrPersistenceFailed:
		return "PersistenceFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// OrderError is the error type returned by the cart and checkout services
type OrderError struct {
	Kind    ErrorKind
	Message string
	// Item names the offending line (product ref) when the error concerns one
	Item string
	// Field names the offending field when the error concerns one
	Field string
	Cause error
}

func (e *OrderError) Error() string {
	msg := e.Message
	if e.Item != "" {
		msg = fmt.Sprintf("%s (item %s)", msg, e.Item)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s [field %s]", msg, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *OrderError) Unwrap() error {
	return e.Cause
}

// Is matches another *OrderError of the same kind, so errors.Is(err, &OrderError{Kind: ErrEmptyCart}) works
func (e *OrderError) Is(target error) bool {
	t, ok := target.(*OrderError)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// KindOf returns the kind carried by err, or 0 when err is not an *OrderError
func KindOf(err error) ErrorKind {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}

func newEmptyCart(userID string) *OrderError {
	return &OrderError{Kind: ErrEmptyCart, Message: fmt.Sprintf("cart of user %s has no items", userID)}
}

func newInvalidData(item, field, message string) *OrderError {
	return &OrderError{Kind: ErrInvalidData, Message: message, Item: item, Field: field}
}

func newNotFound(item, message string) *OrderError {
	return &OrderError{Kind: ErrNotFound, Message: message, Item: item}
}

func newReplicationFailed(orderID string, attempts int, cause error) *OrderError {
	return &OrderError{
		Kind:    ErrReplicationFailed,
		Message: fmt.Sprintf("order %s not replicated after %d attempts", orderID, attempts),
		Cause:   cause,
	}
}

func newPersistenceFailed(message string, cause error) *OrderError {
	return &OrderError{Kind: ErrPersistenceFailed, Message: message, Cause: cause}
}
