package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the standardized error shape returned by the service core. The
// Code is stable and machine-readable; Description is for humans.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Error codes used across the service core.
const (
	Unauthenticated             = "unauthenticated"
	Forbidden                   = "forbidden"
	BadRequest                  = "bad_request"
	NotFound                    = "not_found"
	Conflict                    = "conflict"
	UpstreamAuthFailure         = "upstream_auth_failure"
	UpstreamAPIError            = "upstream_api_error"
	PersistenceError            = "persistence_error"
	NotificationDeliveryFailure = "notification_delivery_failure"
	Internal                    = "internal"
)

// Common error constructors
func NewUnauthenticated(description string) *Error {
	return &Error{Code: Unauthenticated, Description: description}
}

func NewForbidden(description string) *Error {
	return &Error{Code: Forbidden, Description: description}
}

func NewBadRequest(description string) *Error {
	return &Error{Code: BadRequest, Description: description}
}

func NewNotFound(description string) *Error {
	return &Error{Code: NotFound, Description: description}
}

func NewConflict(description string) *Error {
	return &Error{Code: Conflict, Description: description}
}

func NewUpstreamAuthFailure(description string) *Error {
	return &Error{Code: UpstreamAuthFailure, Description: description}
}

func NewUpstreamAPIError(description string) *Error {
	return &Error{Code: UpstreamAPIError, Description: description}
}

func NewPersistenceError(description string) *Error {
	return &Error{Code: PersistenceError, Description: description}
}

func NewNotificationDeliveryFailure(description string) *Error {
	return &Error{Code: NotificationDeliveryFailure, Description: description}
}

func NewInternal(description string) *Error {
	return &Error{Code: Internal, Description: description}
}

// CodeOf extracts the stable code from err, or Internal when err is not an
// *Error from this package.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// HTTPStatus maps an error to the HTTP status the API layer should answer
// with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case Unauthenticated, UpstreamAuthFailure:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case UpstreamAPIError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}
