package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
	"github.com/neelkamal0666/dremio-mcp/pkg/nlq"
)

// QueryProcessor answers natural-language questions with a response
// envelope.
type QueryProcessor interface {
	Process(ctx context.Context, question string) *nlq.Envelope
}

// QueryHandler serves POST /query.
type QueryHandler struct {
	pipeline QueryProcessor
	logger   *zap.Logger
}

func NewQueryHandler(pipeline QueryProcessor, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{pipeline: pipeline, logger: logger}
}

// RegisterRoutes registers the query route on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /query", h.Query)
}

type queryRequest struct {
	Question *string `json:"question"`
}

// Query handles POST /query requests. Request validation failures get a
// 400; everything after validation is answered 200 with the outcome in the
// envelope, including pipeline failures.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, apperrors.CodeMissingQuestion,
			"request body must be JSON with a 'question' field")
		return
	}
	if strings.TrimSpace(*req.Question) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, apperrors.CodeEmptyQuestion,
			"question must not be empty")
		return
	}

	env := h.pipeline.Process(r.Context(), *req.Question)
	_ = WriteJSON(w, http.StatusOK, env)
}
