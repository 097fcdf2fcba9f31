package nlq

// Envelope is the uniform response wrapper shared by the HTTP API, MCP
// tools, and the interactive CLI.
type Envelope struct {
	Success   bool   `json:"success"`
	QueryType string `json:"query_type,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	SQL       string `json:"sql,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// CountData is the payload for count queries.
type CountData struct {
	Rows         []map[string]any  `json:"rows"`
	RowCount     int               `json:"row_count"`
	Columns      []string          `json:"columns"`
	ColumnTypes  map[string]string `json:"column_types,omitempty"`
	IsCountQuery bool              `json:"is_count_query"`
	CountValue   any               `json:"count_value,omitempty"`
	Message      string            `json:"message"`
}

// AggregationData is the payload for aggregation queries.
type AggregationData struct {
	Rows            []map[string]any  `json:"rows"`
	RowCount        int               `json:"row_count"`
	Columns         []string          `json:"columns"`
	ColumnTypes     map[string]string `json:"column_types,omitempty"`
	AggregationType string            `json:"aggregation_type,omitempty"`
	Message         string            `json:"message"`
}

// FieldSelectionData is the payload for field-selection queries.
type FieldSelectionData struct {
	Rows            []map[string]any  `json:"rows"`
	RowCount        int               `json:"row_count"`
	Columns         []string          `json:"columns"`
	ColumnTypes     map[string]string `json:"column_types,omitempty"`
	SelectedColumns []string          `json:"selected_columns"`
	Message         string            `json:"message"`
}

// DataQueryData is the payload for generic data queries.
type DataQueryData struct {
	Rows         []map[string]any  `json:"rows"`
	RowCount     int               `json:"row_count"`
	Columns      []string          `json:"columns"`
	ColumnTypes  map[string]string `json:"column_types,omitempty"`
	IsCountQuery bool              `json:"is_count_query"`
	Message      string            `json:"message"`
}

// TableExplorationData is the payload for table-exploration questions.
type TableExplorationData struct {
	Tables         []string `json:"tables"`
	TotalCount     int      `json:"total_count"`
	AllTablesCount int      `json:"all_tables_count"`
	Message        string   `json:"message"`
}

// SchemaColumn describes one column in a metadata payload.
type SchemaColumn struct {
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
	IsNullable string `json:"is_nullable"`
}

// MetadataData is the payload for metadata requests. WikiDescription is a
// pointer so a table without wiki text serializes as an explicit null.
type MetadataData struct {
	TableName       string         `json:"table_name"`
	Schema          []SchemaColumn `json:"schema"`
	ColumnCount     int            `json:"column_count"`
	WikiDescription *string        `json:"wiki_description"`
	Message         string         `json:"message"`
}
