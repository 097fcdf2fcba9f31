package nlq

import (
	"fmt"
	"strings"

	"github.com/neelkamal0666/dremio-mcp/pkg/dremio"
)

// ShapeCount formats count-query results. The count value is pulled from a
// total_count column, or from the only column when there is exactly one.
func ShapeCount(rs *dremio.ResultSet) *CountData {
	data := &CountData{
		Rows:         rs.Rows,
		RowCount:     rs.RowCount(),
		Columns:      rs.Columns,
		ColumnTypes:  rs.ColumnTypes,
		IsCountQuery: true,
		Message:      "Count query executed",
	}
	if rs.Empty() {
		data.Rows = []map[string]any{}
		data.Columns = []string{}
		data.Message = "No data found"
		return data
	}
	data.CountValue = extractCountValue(rs)
	if data.CountValue != nil {
		data.Message = fmt.Sprintf("Total count: %v", data.CountValue)
	}
	return data
}

func extractCountValue(rs *dremio.ResultSet) any {
	if rs.Empty() {
		return nil
	}
	if v, ok := rs.Rows[0]["total_count"]; ok {
		return v
	}
	if len(rs.Columns) == 1 {
		return rs.Rows[0][rs.Columns[0]]
	}
	return nil
}

// ShapeAggregation formats aggregation-query results.
func ShapeAggregation(rs *dremio.ResultSet, kind AggregationKind) *AggregationData {
	if rs.Empty() {
		return &AggregationData{
			Rows:            []map[string]any{},
			Columns:         []string{},
			AggregationType: string(kind),
			Message:         "No data found for aggregation",
		}
	}
	return &AggregationData{
		Rows:            rs.Rows,
		RowCount:        rs.RowCount(),
		Columns:         rs.Columns,
		ColumnTypes:     rs.ColumnTypes,
		AggregationType: string(kind),
		Message:         fmt.Sprintf("Aggregation results for %s", kind),
	}
}

// ShapeFieldSelection formats field-selection results.
func ShapeFieldSelection(rs *dremio.ResultSet, selected []string) *FieldSelectionData {
	data := &FieldSelectionData{
		Rows:            rs.Rows,
		RowCount:        rs.RowCount(),
		Columns:         rs.Columns,
		ColumnTypes:     rs.ColumnTypes,
		SelectedColumns: selected,
		Message:         fmt.Sprintf("Selected columns: %s", strings.Join(selected, ", ")),
	}
	if rs.Empty() {
		data.Rows = []map[string]any{}
		data.Columns = []string{}
		data.Message = "No data found"
	}
	return data
}

// ShapeDataQuery formats generic data-query results. Single-cell results of
// count-flavored questions surface the value in the message.
func ShapeDataQuery(rs *dremio.ResultSet, question string) *DataQueryData {
	isCount := looksLikeCount(question)
	data := &DataQueryData{
		Rows:         rs.Rows,
		RowCount:     rs.RowCount(),
		Columns:      rs.Columns,
		ColumnTypes:  rs.ColumnTypes,
		IsCountQuery: isCount,
	}
	if rs.Empty() {
		data.Rows = []map[string]any{}
		data.Columns = []string{}
	}
	switch {
	case isCount && rs.RowCount() == 1 && hasColumn(rs, "total_count"):
		data.Message = fmt.Sprintf("Total count: %v", rs.Rows[0]["total_count"])
	case isCount && rs.RowCount() == 1 && len(rs.Columns) == 1:
		data.Message = fmt.Sprintf("Total count: %v", rs.Rows[0][rs.Columns[0]])
	default:
		data.Message = fmt.Sprintf("Found %d rows", rs.RowCount())
	}
	return data
}

// looksLikeCount reuses the classifier's count patterns so "count" inside a
// longer word like "accounts" does not flag the question.
func looksLikeCount(question string) bool {
	q := strings.ToLower(question)
	for _, re := range countPatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}

func hasColumn(rs *dremio.ResultSet, name string) bool {
	for _, c := range rs.Columns {
		if c == name {
			return true
		}
	}
	return false
}
