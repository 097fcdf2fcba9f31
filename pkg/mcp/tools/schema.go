package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
	"github.com/neelkamal0666/dremio-mcp/pkg/dremio"
	"github.com/neelkamal0666/dremio-mcp/pkg/logging"
)

type tableSchemaResult struct {
	TableName   string              `json:"table_name"`
	Schema      []dremio.ColumnInfo `json:"schema"`
	ColumnCount int                 `json:"column_count"`
}

type tableListResult struct {
	Tables []string `json:"tables"`
	Count  int      `json:"count"`
}

type tableSearchResult struct {
	Keyword string   `json:"keyword"`
	Matches []string `json:"matches"`
	Count   int      `json:"count"`
}

// RegisterSchemaTools adds table listing, schema and search tools.
func RegisterSchemaTools(s *server.MCPServer, deps Deps) {
	registerGetTableSchema(s, deps)
	registerListTables(s, deps)
	registerSearchTables(s, deps)
}

func registerGetTableSchema(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"get_table_schema",
		mcp.WithDescription("Get column names, types and nullability for a table"),
		mcp.WithString(
			"table_name",
			mcp.Required(),
			mcp.Description("Table name or fully qualified path, e.g. DataMesh.application.accounts"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetTableSchema(ctx, deps, req)
	})
}

func handleGetTableSchema(ctx context.Context, deps Deps, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tableName, err := req.RequireString("table_name")
	if err != nil {
		return NewErrorResult("invalid_params", "table_name parameter is required"), nil
	}

	schema, err := deps.Dremio.GetTableSchema(ctx, tableName)
	if err != nil {
		return NewErrorResult(apperrors.CodeTableMetadataError, logging.SanitizeError(err)), nil
	}
	if len(schema) == 0 {
		return NewErrorResult(apperrors.CodeTableNotFound, "no columns found for table "+tableName), nil
	}
	return jsonResult(tableSchemaResult{
		TableName:   tableName,
		Schema:      schema,
		ColumnCount: len(schema),
	})
}

func registerListTables(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"list_tables",
		mcp.WithDescription("List the tables available in Dremio"),
		mcp.WithString(
			"source",
			mcp.Description("Restrict the listing to one source"),
		),
		mcp.WithString(
			"schema",
			mcp.Description("Restrict the listing to one schema"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := req.GetString("source", "")
		schema := req.GetString("schema", "")

		tables, err := deps.Dremio.ListTables(ctx, source, schema)
		if err != nil {
			return NewErrorResult(apperrors.CodeDataQueryError, logging.SanitizeError(err)), nil
		}
		return jsonResult(tableListResult{Tables: tables, Count: len(tables)})
	})
}

func registerSearchTables(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"search_tables",
		mcp.WithDescription("Search table names and dataset metadata for a keyword"),
		mcp.WithString(
			"keyword",
			mcp.Required(),
			mcp.Description("The keyword to search for"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword, err := req.RequireString("keyword")
		if err != nil || strings.TrimSpace(keyword) == "" {
			return NewErrorResult("invalid_params", "keyword parameter is required"), nil
		}

		items, err := deps.Dremio.SearchDatasets(ctx, keyword)
		if err != nil {
			return NewErrorResult(apperrors.CodeDataQueryError, logging.SanitizeError(err)), nil
		}
		matches := make([]string, 0, len(items))
		for _, item := range items {
			matches = append(matches, strings.Join(item.Path, "."))
		}
		return jsonResult(tableSearchResult{
			Keyword: keyword,
			Matches: matches,
			Count:   len(matches),
		})
	})
}
