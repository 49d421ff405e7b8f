package service

import (
	"errors"
	"fmt"

	"todoSummary/internal/summary"
)

const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeNotFound                = "NOT_FOUND"
	CodeNoPendingTodos          = "NO_PENDING_TODOS"
	CodeWebhookNotConfigured    = "WEBHOOK_NOT_CONFIGURED"
	CodeSummaryGenerationFailed = "SUMMARY_GENERATION_FAILED"
	CodeNotificationFailed      = "NOTIFICATION_FAILED"
	CodeStorage                 = "STORAGE_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

// AsBusinessError unwraps err to a *BusinessError when it carries one.
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}

func NewNotFound(id string) *BusinessError {
	return NewBusinessError(CodeNotFound, "Todo not found",
		ToDetail("resource", "todo"),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation, reason,
		ToDetail("field", field),
	)
}

func NewStorageError(operation string, err error) *BusinessError {
	busErr := NewBusinessError(CodeStorage, fmt.Sprintf("Failed to %s", operation))
	busErr.Err = err
	return busErr
}

func NewNoPendingTodos() *BusinessError {
	return NewBusinessError(CodeNoPendingTodos, "No pending todos to summarize")
}

func NewWebhookNotConfigured() *BusinessError {
	return NewBusinessError(CodeWebhookNotConfigured, "Slack webhook URL not configured")
}

// NewSummaryGenerationError keeps the generator's per-kind message so callers
// can tell an auth failure from a rate limit.
func NewSummaryGenerationError(err error) *BusinessError {
	message := "Failed to generate AI summary. Please check your OpenAI API key."
	var summaryErr *summary.Error
	if errors.As(err, &summaryErr) {
		message = summaryErr.Message
	}

	busErr := NewBusinessError(CodeSummaryGenerationFailed, message)
	if summaryErr != nil {
		busErr.Details["kind"] = string(summaryErr.Kind)
	}
	busErr.Err = err
	return busErr
}

func NewNotificationError(err error) *BusinessError {
	busErr := NewBusinessError(CodeNotificationFailed, "Failed to send message to Slack. Please check your webhook URL.")
	busErr.Err = err
	return busErr
}
