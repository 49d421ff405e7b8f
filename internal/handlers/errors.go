package handlers

import (
	"net/http"

	"todoSummary/internal/logger"
	"todoSummary/internal/service"

	"go.uber.org/zap"
)

// handleError writes err as JSON. Business errors keep their message and code,
// anything else becomes a 500.
func handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if businessErr, ok := service.AsBusinessError(err); ok {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		fields := []zap.Field{
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode),
			zap.String("client_ip", r.RemoteAddr),
		}
		if statusCode >= http.StatusInternalServerError {
			logger.Error("HTTP: Business error", businessErr.Err, fields...)
		} else {
			logger.Warn("HTTP: Business error", fields...)
		}

		payload := []Payload{
			toPayload("error", businessErr.Message),
			toPayload("code", businessErr.Code),
		}
		if details := errorDetails(businessErr); details != nil {
			payload = append(payload, toPayload("details", details))
		}
		responseWithJSON(w, statusCode, payload...)
		return
	}

	logger.Error("HTTP: Service error", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))
	responseWithJSON(w, http.StatusInternalServerError,
		toPayload("error", "Internal server error"),
		toPayload("details", err.Error()),
	)
}

// errorDetails prefers the underlying cause and falls back to structured details.
func errorDetails(businessErr *service.BusinessError) any {
	if businessErr.Err != nil {
		return businessErr.Err.Error()
	}
	if len(businessErr.Details) > 0 {
		return businessErr.Details
	}
	return nil
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeNoPendingTodos, service.CodeWebhookNotConfigured:
		return http.StatusBadRequest
	case service.CodeSummaryGenerationFailed, service.CodeNotificationFailed, service.CodeStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
