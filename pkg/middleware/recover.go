package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
)

// Recover converts handler panics into a 500 INTERNAL_ERROR envelope.
// Panic details are logged, never returned to the client.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if logger != nil {
						logger.Error("handler panicked",
							zap.String("method", r.Method),
							zap.String("path", r.URL.Path),
							zap.Any("panic", rec),
							zap.Stack("stack"))
					}
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success":    false,
						"error":      "internal server error",
						"error_code": apperrors.CodeInternalError,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
