package response

import (
	"time"

	"shorturl-go/internal/apperrors"
)

// Response is the generic API envelope.
type Response[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      T      `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// OK builds a success response.
func OK[T any](data T, message string) *Response[T] {
	return &Response[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Error builds a failure response.
func Error(message string) *Response[any] {
	return &Response[any]{
		Success:   false,
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ErrorFromAppError builds a failure response from an AppError.
func ErrorFromAppError(err *apperrors.AppError) *Response[any] {
	return Error(err.Message)
}
