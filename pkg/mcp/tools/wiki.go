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

type wikiDescriptionResult struct {
	TableName   string `json:"table_name"`
	Description string `json:"description"`
	HasWiki     bool   `json:"has_wiki"`
}

type wikiSearchToolResult struct {
	SearchTerm string                    `json:"search_term"`
	Results    []dremio.WikiSearchResult `json:"results"`
	Count      int                       `json:"count"`
}

// RegisterWikiTools adds the wiki description, metadata and search tools.
func RegisterWikiTools(s *server.MCPServer, deps Deps) {
	registerGetWikiDescription(s, deps)
	registerGetWikiMetadata(s, deps)
	registerSearchWikiContent(s, deps)
}

func registerGetWikiDescription(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"get_wiki_description",
		mcp.WithDescription("Get the raw wiki markdown attached to a table or folder"),
		mcp.WithString(
			"table_name",
			mcp.Required(),
			mcp.Description("Table name or fully qualified path"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableName, err := req.RequireString("table_name")
		if err != nil {
			return NewErrorResult("invalid_params", "table_name parameter is required"), nil
		}

		text, err := deps.Dremio.GetWikiDescription(ctx, tableName)
		if err != nil {
			return NewErrorResult(apperrors.CodeTableMetadataError, logging.SanitizeError(err)), nil
		}
		return jsonResult(wikiDescriptionResult{
			TableName:   tableName,
			Description: text,
			HasWiki:     text != "",
		})
	})
}

func registerGetWikiMetadata(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"get_wiki_metadata",
		mcp.WithDescription("Get structured metadata parsed from a table's wiki markdown (description, owner, tags, column notes)"),
		mcp.WithString(
			"table_name",
			mcp.Required(),
			mcp.Description("Table name or fully qualified path"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableName, err := req.RequireString("table_name")
		if err != nil {
			return NewErrorResult("invalid_params", "table_name parameter is required"), nil
		}

		meta, err := deps.Dremio.GetWikiMetadata(ctx, tableName)
		if err != nil {
			return NewErrorResult(apperrors.CodeTableMetadataError, logging.SanitizeError(err)), nil
		}
		if meta == nil {
			return NewErrorResult(apperrors.CodeTableMetadataError, "no wiki content for "+tableName), nil
		}
		return jsonResult(meta)
	})
}

func registerSearchWikiContent(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool(
		"search_wiki_content",
		mcp.WithDescription("Search all wiki documentation for a term and return matching tables with snippets"),
		mcp.WithString(
			"search_term",
			mcp.Required(),
			mcp.Description("The term to search for"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchWikiContent(ctx, deps, req)
	})
}

func handleSearchWikiContent(ctx context.Context, deps Deps, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("search_term")
	if err != nil || strings.TrimSpace(term) == "" {
		return NewErrorResult("invalid_params", "search_term parameter is required"), nil
	}

	results, err := deps.Dremio.SearchWikiContent(ctx, term)
	if err != nil {
		return NewErrorResult(apperrors.CodeTableMetadataError, logging.SanitizeError(err)), nil
	}
	if results == nil {
		results = []dremio.WikiSearchResult{}
	}
	return jsonResult(wikiSearchToolResult{
		SearchTerm: term,
		Results:    results,
		Count:      len(results),
	})
}
