package handlers

import (
	"encoding/json"
	"net/http"

	"taskapi/internal/handlers/dto"
	"taskapi/internal/logger"
)

func responseWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("HTTP: failed to encode response", err)
	}
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, dto.GenericResponse{
		Status:  dto.StatusFail,
		Message: message,
	})
}
