package service

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyTarget   = errors.New("target must not be empty")
	ErrTargetTooLong = errors.New("target is too long")
	ErrBadProtocol   = errors.New("target must have http or https protocol")
	ErrNotFound      = errors.New("link not found")
	ErrStore         = errors.New("store error")

	// ErrCapacityExceeded is returned once the short code namespace is
	// considered full for its current width.
	ErrCapacityExceeded = errors.New("link capacity exceeded")
	// ErrTooManyCollisions is returned when MaxAttempts inserts in a row hit an
	// existing short code.
	ErrTooManyCollisions = errors.New("too many short code collisions")
)

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// ClientErrorType is the machine readable error kind shown to API clients.
type ClientErrorType string

const (
	ClientLinkNotFound  ClientErrorType = "LINK_NOT_FOUND"
	ClientInvalidParams ClientErrorType = "INVALID_PARAMS"
	ClientServiceError  ClientErrorType = "SERVICE_ERROR"
)

// ClientStatusAndError maps an error from the Shortener to what a client may
// see. Store and capacity details stay in the logs.
func ClientStatusAndError(err error) (int, ClientErrorType, string) {
	switch {
	case errors.Is(err, ErrEmptyTarget):
		return http.StatusBadRequest, ClientInvalidParams, ErrEmptyTarget.Error()
	case errors.Is(err, ErrTargetTooLong):
		return http.StatusRequestEntityTooLarge, ClientInvalidParams, ErrTargetTooLong.Error()
	case errors.Is(err, ErrBadProtocol):
		return http.StatusBadRequest, ClientInvalidParams, ErrBadProtocol.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ClientLinkNotFound, "Link not found"
	case errors.Is(err, ErrStore):
		return http.StatusInternalServerError, ClientServiceError, "Database error"
	default:
		return http.StatusInternalServerError, ClientServiceError, "Service error"
	}
}
