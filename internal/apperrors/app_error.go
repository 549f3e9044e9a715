package apperrors

import (
	"net/http"
)

// AppError carries the HTTP status for a business error. Message is either
// plain text or an i18n message id (error.*) resolved by the error middleware.
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode builds a generic business error.
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func BusinessError(code int, message string) *AppError {
	return WithCode(code, message)
}

// InvalidRequestError wraps a parameter validation failure.
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "error.request_invalid")
}

// InvalidURLError: the original URL is not a valid absolute URL.
func InvalidURLError() *AppError {
	return WithCode(http.StatusBadRequest, "error.original_url_invalid")
}

// InvalidValidityError: validity must be a positive integer number of minutes.
func InvalidValidityError() *AppError {
	return WithCode(http.StatusBadRequest, "error.validity_invalid")
}

// InvalidShortcodeError: custom shortcode violates the alphabet/length policy.
func InvalidShortcodeError() *AppError {
	return WithCode(http.StatusBadRequest, "error.shortcode_invalid")
}

// ShortcodeTakenError: the requested shortcode already exists.
func ShortcodeTakenError() *AppError {
	return WithCode(http.StatusConflict, "error.shortcode_taken")
}

// NotFoundError: no record for the shortcode.
func NotFoundError() *AppError {
	return WithCode(http.StatusNotFound, "error.shorturl_not_found")
}

// ExpiredError: the record exists but is past its expiry. Kept distinct from
// NotFound so the frontend can render a "link expired" page instead of a 404.
func ExpiredError() *AppError {
	return WithCode(http.StatusGone, "error.shorturl_expired")
}

// StoreUnavailableError: the backing store failed for a non-business reason.
func StoreUnavailableError(cause error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "error.store_unavailable",
		Cause:   cause,
	}
}

func SystemError(message string) *AppError {
	return WithCode(http.StatusInternalServerError, message)
}

func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, "error.system")
}
