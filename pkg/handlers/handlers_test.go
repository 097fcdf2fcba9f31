package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
	"github.com/neelkamal0666/dremio-mcp/pkg/config"
	"github.com/neelkamal0666/dremio-mcp/pkg/nlq"
)

type fakeCatalog struct {
	snap *catalog.Snapshot
}

func (f *fakeCatalog) Snapshot() *catalog.Snapshot { return f.snap }

type fakePipeline struct {
	lastQuestion string
	env          *nlq.Envelope
}

func (f *fakePipeline) Process(ctx context.Context, question string) *nlq.Envelope {
	f.lastQuestion = question
	return f.env
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{snap: catalog.NewSnapshot([]catalog.TableDescriptor{
		{
			Path: "DataMesh.application.accounts",
			Columns: []catalog.ColumnDescriptor{
				{Name: "id", DataType: "BIGINT"},
				{Name: "name", DataType: "VARCHAR", Nullable: true},
			},
			Wiki: "# Accounts",
		},
		{
			Path: "warehouse.events",
			Columns: []catalog.ColumnDescriptor{
				{Name: "event_id", DataType: "BIGINT"},
			},
		},
	})}
}

func TestHealthHandler(t *testing.T) {
	cfg := &config.Config{Version: "1.2.3", Env: "test"}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	NewHealthHandler(cfg).Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, ServiceName, resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestTablesHandler_List(t *testing.T) {
	h := NewTablesHandler(testCatalog(), zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tables", nil)

	h.ListTables(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Success bool          `json:"success"`
		Data    TableListData `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, []string{"DataMesh.application.accounts", "warehouse.events"}, env.Data.Tables)
	assert.Equal(t, 2, env.Data.Count)
}

func TestTablesHandler_Metadata(t *testing.T) {
	mux := http.NewServeMux()
	NewTablesHandler(testCatalog(), zap.NewNop()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/table/accounts/metadata", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Success bool             `json:"success"`
		Data    nlq.MetadataData `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, "DataMesh.application.accounts", env.Data.TableName)
	assert.Equal(t, 2, env.Data.ColumnCount)
	require.NotNil(t, env.Data.WikiDescription)
	assert.Equal(t, "# Accounts", *env.Data.WikiDescription)
}

func TestTablesHandler_MetadataNoWiki(t *testing.T) {
	mux := http.NewServeMux()
	NewTablesHandler(testCatalog(), zap.NewNop()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/table/events/metadata", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"wiki_description":null`)
}

func TestTablesHandler_MetadataNotFound(t *testing.T) {
	mux := http.NewServeMux()
	NewTablesHandler(testCatalog(), zap.NewNop()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/table/nope/metadata", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var env nlq.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, apperrors.CodeTableMetadataError, env.ErrorCode)
}

func TestQueryHandler_Success(t *testing.T) {
	pipeline := &fakePipeline{env: &nlq.Envelope{
		Success:   true,
		QueryType: "count_query",
	}}
	h := NewQueryHandler(pipeline, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"question":"how many accounts"}`))
	h.Query(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "how many accounts", pipeline.lastQuestion)

	var env nlq.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, "count_query", env.QueryType)
}

func TestQueryHandler_PipelineErrorStays200(t *testing.T) {
	pipeline := &fakePipeline{env: &nlq.Envelope{
		Success:   false,
		Error:     "no table matches",
		ErrorCode: apperrors.CodeTableNotFound,
	}}
	h := NewQueryHandler(pipeline, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"question":"asdkjasd"}`))
	h.Query(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env nlq.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, apperrors.CodeTableNotFound, env.ErrorCode)
}

func TestQueryHandler_MissingQuestion(t *testing.T) {
	h := NewQueryHandler(&fakePipeline{}, zap.NewNop())

	tests := []struct {
		name string
		body string
		code string
	}{
		{"no body", "", apperrors.CodeMissingQuestion},
		{"no question field", `{}`, apperrors.CodeMissingQuestion},
		{"malformed json", `{"question"`, apperrors.CodeMissingQuestion},
		{"blank question", `{"question":"   "}`, apperrors.CodeEmptyQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(tt.body))
			h.Query(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var env nlq.Envelope
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
			assert.Equal(t, tt.code, env.ErrorCode)
		})
	}
}
