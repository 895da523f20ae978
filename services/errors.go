package services

import "errors"

// ErrPaymentUnavailable signals the card gateway is missing or unreachable,
// so the caller can fall back to cash. The enclosing transaction is always
// rolled back before it is returned.
var ErrPaymentUnavailable = errors.New("payment temporarily unavailable")

// ValidationError is a client-side input problem; nothing was persisted.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// ConflictError carries the availability reason code plus a message for the
// client.
type ConflictError struct {
	Reason  string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reason
}

func conflictError(reason string) *ConflictError {
	msg := reason
	switch reason {
	case ReasonOccupied:
		msg = "table is currently occupied"
	case ReasonActiveOrders:
		msg = "table has active orders"
	case ReasonReserved:
		msg = "table is already reserved for this time"
	}
	return &ConflictError{Reason: reason, Message: msg}
}

// NotFoundError names the entity a request referred to but which does not
// exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }
