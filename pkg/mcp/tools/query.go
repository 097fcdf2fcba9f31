package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
	"github.com/neelkamal0666/dremio-mcp/pkg/logging"
	"github.com/neelkamal0666/dremio-mcp/pkg/sqlcheck"
)

type queryResult struct {
	Rows        []map[string]any  `json:"rows"`
	RowCount    int               `json:"row_count"`
	Columns     []string          `json:"columns"`
	ColumnTypes map[string]string `json:"column_types,omitempty"`
	SQL         string            `json:"sql"`
}

// RegisterQueryTools adds the raw SQL tool and the natural-language query
// tool to the MCP server.
func RegisterQueryTools(s *server.MCPServer, deps Deps) {
	registerQueryDremio(s, deps)
	registerProcessNaturalLanguageQuery(s, deps)
}

func registerQueryDremio(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"query_dremio",
		mcp.WithDescription("Execute a SQL SELECT statement against Dremio and return rows"),
		mcp.WithString(
			"sql",
			mcp.Required(),
			mcp.Description("The SQL SELECT statement to execute"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of rows to return (applied when the statement has no LIMIT)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQueryDremio(ctx, deps, req)
	})
}

func handleQueryDremio(ctx context.Context, deps Deps, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sqlQuery, err := req.RequireString("sql")
	if err != nil {
		return NewErrorResult("invalid_params", "sql parameter is required"), nil
	}
	limit := req.GetInt("limit", deps.DefaultLimit)

	normalized := sqlcheck.Normalize(sqlQuery)
	if normalized == "" {
		return NewErrorResult("invalid_params", "sql statement is empty"), nil
	}
	upper := strings.ToUpper(normalized)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return NewErrorResult("invalid_params", "only SELECT statements are permitted"), nil
	}
	if !strings.Contains(strings.ToLower(normalized), "limit") && limit > 0 {
		normalized = fmt.Sprintf("%s LIMIT %d", normalized, limit)
	}

	rs, err := deps.Dremio.ExecuteQuery(ctx, normalized)
	if err != nil {
		deps.Logger.Debug("query_dremio failed",
			zap.String("error", logging.SanitizeError(err)))
		return NewErrorResult(apperrors.CodeDataQueryError, logging.SanitizeError(err)), nil
	}
	return jsonResult(queryResult{
		Rows:        rs.Rows,
		RowCount:    rs.RowCount(),
		Columns:     rs.Columns,
		ColumnTypes: rs.ColumnTypes,
		SQL:         normalized,
	})
}

func registerProcessNaturalLanguageQuery(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"process_natural_language_query",
		mcp.WithDescription("Answer a natural-language question about the data by classifying it, generating SQL, and executing it"),
		mcp.WithString(
			"question",
			mcp.Required(),
			mcp.Description("The question to answer, e.g. 'how many accounts are there'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleProcessQuestion(ctx, deps, req)
	})
}

func handleProcessQuestion(ctx context.Context, deps Deps, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return NewErrorResult(apperrors.CodeMissingQuestion, "question parameter is required"), nil
	}
	if strings.TrimSpace(question) == "" {
		return NewErrorResult(apperrors.CodeEmptyQuestion, "question must not be empty"), nil
	}

	env := deps.Pipeline.Process(ctx, question)
	if !env.Success {
		return NewErrorResult(env.ErrorCode, env.Error), nil
	}
	return jsonResult(env)
}
