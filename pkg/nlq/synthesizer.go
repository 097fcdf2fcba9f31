package nlq

import (
	"fmt"
	"strings"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
)

// ResolvedQuery is a classified question bound to a catalog table, ready for
// SQL synthesis.
type ResolvedQuery struct {
	Question string
	Intent   Intent
	Table    *catalog.TableDescriptor

	// Aggregation fields, set for IntentAggregation.
	Aggregation       AggregationKind
	AggregationColumn string

	// SelectedColumns, set for IntentFieldSelection, in mention order.
	SelectedColumns []string

	// Limit is the row cap applied to row-returning queries.
	Limit int
}

// Synthesize builds SQL for a resolved query without any AI provider.
// Count and aggregation shapes never carry a LIMIT; row-returning shapes
// always do.
func Synthesize(rq ResolvedQuery) (string, error) {
	table := quotePath(rq.Table.Path)

	switch rq.Intent {
	case IntentCount:
		return fmt.Sprintf("SELECT COUNT(*) AS total_count FROM %s", table), nil

	case IntentAggregation:
		return synthesizeAggregation(rq, table)

	case IntentFieldSelection:
		if len(rq.SelectedColumns) == 0 {
			return "", apperrors.Newf(apperrors.CodeColumnsNotFound,
				"could not match any requested fields to columns of %s; available columns: %s",
				rq.Table.Leaf(), strings.Join(rq.Table.ColumnNames(), ", "))
		}
		cols := make([]string, len(rq.SelectedColumns))
		for i, c := range rq.SelectedColumns {
			cols[i] = quoteIdent(c)
		}
		return fmt.Sprintf("SELECT %s FROM %s LIMIT %d",
			strings.Join(cols, ", "), table, rq.Limit), nil

	default:
		return fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, rq.Limit), nil
	}
}

func synthesizeAggregation(rq ResolvedQuery, table string) (string, error) {
	if rq.Aggregation == AggStats {
		if rq.AggregationColumn == "" {
			return fmt.Sprintf("SELECT COUNT(*) AS record_count FROM %s", table), nil
		}
		f := quoteIdent(rq.AggregationColumn)
		n := strings.ToLower(rq.AggregationColumn)
		return fmt.Sprintf(
			"SELECT COUNT(*) AS record_count, AVG(%s) AS average_%s, MIN(%s) AS min_%s, MAX(%s) AS max_%s, SUM(%s) AS total_%s FROM %s",
			f, n, f, n, f, n, f, n, table), nil
	}

	if rq.AggregationColumn == "" {
		return "", apperrors.Newf(apperrors.CodeSQLGenerationFailed,
			"no numeric column found in %s for %s aggregation",
			rq.Table.Leaf(), rq.Aggregation)
	}
	f := quoteIdent(rq.AggregationColumn)
	alias := fmt.Sprintf("%s_%s", strings.ToLower(string(rq.Aggregation)), strings.ToLower(rq.AggregationColumn))
	return fmt.Sprintf("SELECT %s(%s) AS %s FROM %s", rq.Aggregation, f, alias, table), nil
}

func quotePath(path string) string {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		segments[i] = quoteIdent(seg)
	}
	return strings.Join(segments, ".")
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
