package usecase

import "errors"

var (
	// ErrRequestNotFound is returned when no request carries the given ID
	ErrRequestNotFound = errors.New("request not found")

	// ErrUnknownUnit is returned for routing to a unit outside the catalog
	ErrUnknownUnit = errors.New("unknown technical unit")

	// ErrNotRouted is returned for unit operations on an unrouted request
	ErrNotRouted = errors.New("request is not routed to a unit")

	// ErrInvalidStatus is returned for status values outside the known set
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrEmptySubject is returned when a request carries neither a title
	// nor a description
	ErrEmptySubject = errors.New("request subject is empty")
)

// Context keys for error values
const (
	RequestIDKey = "request_id"
	UnitIDKey    = "unit_id"
	StatusKey    = "status"
)
