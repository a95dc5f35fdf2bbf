// Package errors defines the application error taxonomy and the central
// handler converting failures into user-facing replies.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewValidationError flags malformed user input; shown verbatim to the user.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: fmt.Sprintf("⚠️ %s", msg),
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewNotFoundError flags a missing entity; shown verbatim to the user.
func NewNotFoundError(msg string) *AppError {
	return &AppError{
		Code:        "E110",
		Message:     msg,
		UserMessage: fmt.Sprintf("❌ %s", msg),
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewDatabaseError wraps a repository failure behind a generic retry-later
// message.
func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("Database error: %s", underlyingMsg),
		UserMessage: "❌ A database error occurred. Please try again later.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewTelegramError wraps an outbound transport failure.
func NewTelegramError(cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     "Telegram error",
		UserMessage: "❌ A communication error occurred. Please try again later.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewConversationError flags an operation that is invalid for the chat's
// current conversation state.
func NewConversationError(msg string) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     msg,
		UserMessage: "This operation is not possible right now.",
		Severity:    SeverityMedium,
		Retryable:   false,
	}
}
