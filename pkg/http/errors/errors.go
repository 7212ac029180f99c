package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope shared by every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// RespondError writes the error envelope for status with a fixed message.
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// RespondBadRequest writes a 400 envelope.
func RespondBadRequest(w http.ResponseWriter) {
	RespondError(w, http.StatusBadRequest, MsgBadRequest)
}

// RespondNotFound writes a 404 envelope.
func RespondNotFound(w http.ResponseWriter) {
	RespondError(w, http.StatusNotFound, MsgNotFound)
}

// RespondUnprocessable writes a 422 envelope.
func RespondUnprocessable(w http.ResponseWriter) {
	RespondError(w, http.StatusUnprocessableEntity, MsgUnprocessable)
}

// RespondInternalError writes a 500 envelope.
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, MsgInternalError)
}
