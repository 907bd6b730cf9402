package response

import (
	"encoding/json"
	"net/http"

	"drawbase/internal/errs"
)

// Envelope is the uniform response shape for every operation.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func SendSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	write(w, statusCode, Envelope{Status: "success", Message: message, Data: data})
}

func SendSuccessNoData(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, Envelope{Status: "success", Message: message})
}

func SendError(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, Envelope{Status: "error", Message: message})
}

// SendServiceError maps a taxonomy error to its HTTP status. Unclassified
// errors become opaque 500s so store internals never leak to clients.
func SendServiceError(w http.ResponseWriter, err error) {
	code := errs.Status(err)
	if code == http.StatusInternalServerError {
		SendError(w, code, "Internal server error")
		return
	}
	SendError(w, code, err.Error())
}

func write(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
