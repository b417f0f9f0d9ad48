package handlers

import (
	"errors"
	"net/http"

	"taskapi/internal/logger"
	"taskapi/internal/service"

	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// handleServiceError writes the failure envelope for err. Business errors
// keep their message; anything else becomes a generic 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: business error",
			zap.String("error_code", businessErr.Code),
			zap.String("message", businessErr.Message),
			zap.Int("http_status", statusCode),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, statusCode, businessErr.Message)
		return
	}

	logger.Error("HTTP: service error", err, zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusInternalServerError, internalErrorMessage)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
