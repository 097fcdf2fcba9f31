package dremio

// ResultSet holds rows and column metadata returned by a completed SQL job.
type ResultSet struct {
	Rows        []map[string]any
	Columns     []string
	ColumnTypes map[string]string
}

// RowCount returns the number of rows in the set.
func (r *ResultSet) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Empty reports whether the result set has no rows.
func (r *ResultSet) Empty() bool { return r.RowCount() == 0 }

// ColumnInfo describes one column of a table, as reported by
// INFORMATION_SCHEMA.
type ColumnInfo struct {
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
	IsNullable string `json:"is_nullable"`
}

// CatalogItem is one entry of the Dremio catalog listing.
type CatalogItem struct {
	ID   string   `json:"id"`
	Path []string `json:"path"`
	Type string   `json:"type"`
}

// WikiContent is the raw wiki attachment of a catalog entity.
type WikiContent struct {
	Text    string `json:"text"`
	Version struct {
		CreatedAt string `json:"createdAt"`
		Author    string `json:"author"`
	} `json:"version"`
}

// loginRequest is the body of POST /apiv2/login.
type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type sqlSubmitRequest struct {
	SQL string `json:"sql"`
}

type sqlSubmitResponse struct {
	ID string `json:"id"`
}

type jobStatusResponse struct {
	JobState     string `json:"jobState"`
	ErrorMessage string `json:"errorMessage"`
}

type jobResultsResponse struct {
	RowCount int              `json:"rowCount"`
	Schema   []resultColumn   `json:"schema"`
	Rows     []map[string]any `json:"rows"`
}

type resultColumn struct {
	Name string `json:"name"`
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
}

type catalogListResponse struct {
	Data []CatalogItem `json:"data"`
}

// normalizeTypeName maps Dremio SQL type names onto the compact type labels
// used in response envelopes.
func normalizeTypeName(dremioType string) string {
	switch dremioType {
	case "BIGINT", "INTEGER", "SMALLINT", "TINYINT":
		return "int64"
	case "DOUBLE", "FLOAT", "DECIMAL", "REAL", "NUMERIC":
		return "float64"
	case "BOOLEAN":
		return "bool"
	case "DATE", "TIME", "TIMESTAMP":
		return "timestamp"
	default:
		return "string"
	}
}
