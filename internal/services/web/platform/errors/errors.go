// Package errors defines web typed application errors.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/louisbranch/teamdesk/internal/tenantapi"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	// KindRejected marks a failure the tenant API reported in its response
	// envelope. Its Message is server-supplied and safe to show.
	KindRejected Kind = "rejected"
)

// Error is a typed web application failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
	Code    int
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// FromAPI maps a tenant API failure to a typed Error. Transport failures
// become KindUnavailable and keep the raw text only for logs; envelope failures
// become KindRejected carrying the server message. fallbackKey localizes both
// when no server message is present.
func FromAPI(err error, fallbackKey string) error {
	if err == nil {
		return nil
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var codeErr *tenantapi.CodeError
	if stderrors.As(err, &codeErr) {
		return Error{
			Kind:    KindRejected,
			Key:     strings.TrimSpace(fallbackKey),
			Message: strings.TrimSpace(codeErr.Message),
			Code:    codeErr.Code,
		}
	}
	return Error{Kind: KindUnavailable, Key: strings.TrimSpace(fallbackKey), Message: err.Error()}
}

// KindOf returns the error kind, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	return appErr.Kind
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return ""
	}
	return strings.TrimSpace(appErr.Key)
}

// ServerMessage returns the server-supplied text of a rejected call.
func ServerMessage(err error) string {
	var appErr Error
	if !stderrors.As(err, &appErr) || appErr.Kind != KindRejected {
		return ""
	}
	return strings.TrimSpace(appErr.Message)
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
