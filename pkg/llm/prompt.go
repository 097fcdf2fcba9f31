package llm

import (
	"fmt"
	"strings"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
)

const systemPrompt = `You are a SQL expert for Dremio. Generate a SQL query based on the user's question.

Rules:
1. Use fully qualified table names (e.g., DataMesh.application.accounts)
2. Always use LIMIT for queries that might return many rows
3. Avoid reserved words as column aliases (use total_count instead of count)
4. Be specific about table and column names
5. Return only the SQL query, no explanations`

// maxPromptTables caps how much schema context goes into a prompt.
const maxPromptTables = 10

// BuildPrompt serializes the catalog snapshot into the user prompt sent to
// every provider. Wiki text rides along when a table has it.
func BuildPrompt(question string, snap *catalog.Snapshot) string {
	var tableInfo, wikiInfo []string
	tables := snap.Tables()
	for i := range tables {
		if len(tableInfo) >= maxPromptTables {
			break
		}
		t := &tables[i]
		tableInfo = append(tableInfo, fmt.Sprintf("%s: %s", t.Path, strings.Join(t.ColumnNames(), ", ")))
		if t.Wiki != "" {
			wikiInfo = append(wikiInfo, fmt.Sprintf("%s:\n%s", t.Path, t.Wiki))
		}
	}

	var b strings.Builder
	b.WriteString("Available tables and columns:\n")
	b.WriteString(strings.Join(tableInfo, "\n"))
	if len(wikiInfo) > 0 {
		b.WriteString("\n\nWiki context:\n")
		b.WriteString(strings.Join(wikiInfo, "\n\n"))
	}
	b.WriteString("\n\nUser question: ")
	b.WriteString(question)
	b.WriteString("\n\nSQL Query:")
	return b.String()
}
