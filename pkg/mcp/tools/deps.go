// Package tools implements the MCP tool surface over the Dremio client and
// the query pipeline.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/dremio"
	"github.com/neelkamal0666/dremio-mcp/pkg/nlq"
)

// DremioGateway is the subset of the Dremio client the tools need.
type DremioGateway interface {
	ExecuteQuery(ctx context.Context, sqlQuery string) (*dremio.ResultSet, error)
	ListTables(ctx context.Context, source, schema string) ([]string, error)
	GetTableSchema(ctx context.Context, tablePath string) ([]dremio.ColumnInfo, error)
	SearchDatasets(ctx context.Context, term string) ([]dremio.CatalogItem, error)
	GetWikiDescription(ctx context.Context, entityPath string) (string, error)
	GetWikiMetadata(ctx context.Context, entityPath string) (*dremio.WikiMetadata, error)
	SearchWikiContent(ctx context.Context, term string) ([]dremio.WikiSearchResult, error)
}

// QueryProcessor answers natural-language questions with a response envelope.
type QueryProcessor interface {
	Process(ctx context.Context, question string) *nlq.Envelope
}

// Deps carries the collaborators shared by all tools.
type Deps struct {
	Dremio       DremioGateway
	Pipeline     QueryProcessor
	DefaultLimit int
	Logger       *zap.Logger
}

// RegisterAll registers every tool on the server.
func RegisterAll(s *server.MCPServer, deps Deps) {
	RegisterQueryTools(s, deps)
	RegisterSchemaTools(s, deps)
	RegisterWikiTools(s, deps)
}
