// Package domain declares sentinel errors shared by repositories, services
// and handlers. Callers branch with errors.Is.
package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded indicates the user already has the maximum number of
	// active orders.
	ErrQuotaExceeded = errors.New("active order quota exceeded")

	// ErrUnknownStatus indicates a status literal outside the closed set.
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrCancelCompleted indicates an owner tried to cancel a completed order.
	ErrCancelCompleted = errors.New("completed order cannot be cancelled by owner")
)
