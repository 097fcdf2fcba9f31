// Package handlers implements the HTTP REST front-end. Handlers are thin
// adapters over the query pipeline; no business logic lives here.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/neelkamal0666/dremio-mcp/pkg/nlq"
)

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes an error envelope with the given HTTP status.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, &nlq.Envelope{
		Success:   false,
		Error:     message,
		ErrorCode: errorCode,
	})
}
