package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
	"github.com/neelkamal0666/dremio-mcp/pkg/nlq"
)

// TablesHandler serves the catalog table list and per-table metadata.
type TablesHandler struct {
	catalog nlq.SnapshotProvider
	logger  *zap.Logger
}

func NewTablesHandler(catalog nlq.SnapshotProvider, logger *zap.Logger) *TablesHandler {
	return &TablesHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers the table routes on the given mux.
func (h *TablesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /tables", h.ListTables)
	mux.HandleFunc("GET /table/{name}/metadata", h.TableMetadata)
}

// TableListData is the payload for GET /tables.
type TableListData struct {
	Tables []string `json:"tables"`
	Count  int      `json:"count"`
}

// ListTables handles GET /tables requests.
func (h *TablesHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()
	paths := snap.Paths()
	_ = WriteJSON(w, http.StatusOK, &nlq.Envelope{
		Success: true,
		Data:    &TableListData{Tables: paths, Count: len(paths)},
	})
}

// TableMetadata handles GET /table/{name}/metadata requests. The name may be
// a fully qualified path or a bare table name unique in the catalog.
func (h *TablesHandler) TableMetadata(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	table := h.catalog.Snapshot().Lookup(name)
	if table == nil {
		h.logger.Debug("table metadata lookup failed", zap.String("table", name))
		_ = ErrorResponse(w, http.StatusNotFound, apperrors.CodeTableMetadataError,
			"table not found: "+name)
		return
	}
	_ = WriteJSON(w, http.StatusOK, &nlq.Envelope{
		Success: true,
		Data:    nlq.DescribeTable(table),
	})
}
