package web

import (
	"errors"
	"net/http"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/backend"
	"github.com/arkproperty/ark/internal/contact"
	"github.com/arkproperty/ark/internal/property"
)

const genericMessage = "Something went wrong. Please try again."

// sentinels are errors whose own text is safe to show to users.
var sentinels = []error{
	property.ErrNotFound,
	application.ErrNotFound,
	application.ErrLoginRequiredToApply,
	application.ErrUnauthenticated,
	application.ErrOwnProperty,
	application.ErrNotOwner,
	application.ErrInvalidStatus,
	auth.ErrInvalidCredentials,
	auth.ErrInvalidToken,
}

// statusFor maps a domain error to an HTTP status code.
func statusFor(err error) int {
	var be *backend.Error
	switch {
	case errors.Is(err, property.ErrNotFound), errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrLoginRequiredToApply),
		errors.Is(err, application.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrOwnProperty), errors.Is(err, application.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, application.ErrInvalidStatus),
		errors.Is(err, application.ErrInvalidForm),
		errors.Is(err, contact.ErrInvalid):
		return http.StatusBadRequest
	case errors.As(err, &be):
		if be.StatusCode >= 400 && be.StatusCode < 500 {
			return be.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage returns the text shown to the user for err.
// Validation errors keep their detail; backend rejections show the
// backend's message; anything else is generic.
func userMessage(err error) string {
	if errors.Is(err, application.ErrInvalidForm) || errors.Is(err, contact.ErrInvalid) {
		return capitalize(err.Error())
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return capitalize(s.Error())
		}
	}
	var be *backend.Error
	if errors.As(err, &be) && be.Message != "" {
		return capitalize(be.Message)
	}
	return genericMessage
}
