package handler

import (
	"encoding/json"
	"net/http"

	"github.com/truefeedback/true-feedback-api/internal/payload"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondMessage(w http.ResponseWriter, status int, success bool, message string) {
	respondJSON(w, status, payload.Response{
		Success: success,
		Message: message,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondMessage(w, status, false, message)
}
