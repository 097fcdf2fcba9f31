// Package catalog maintains an in-memory snapshot of the table metadata a
// Dremio deployment exposes: fully qualified paths, column schemas and wiki
// descriptions.
//
// Snapshots are immutable; Store.Refresh builds a fresh one and swaps a
// pointer, so concurrent readers always see either the old or the new
// catalog as a whole.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/dremio"
)

// ColumnDescriptor describes one column of a known table.
type ColumnDescriptor struct {
	Name     string
	DataType string
	Nullable bool
}

// IsNumeric reports whether the column's declared type supports arithmetic
// aggregation.
func (c ColumnDescriptor) IsNumeric() bool {
	switch strings.ToUpper(c.DataType) {
	case "BIGINT", "INTEGER", "SMALLINT", "TINYINT", "INT",
		"DOUBLE", "FLOAT", "DECIMAL", "REAL", "NUMERIC":
		return true
	}
	return false
}

// TableDescriptor describes one known table: its fully qualified
// source.schema.table path, ordered columns, and optional wiki markdown.
type TableDescriptor struct {
	Path    string
	Columns []ColumnDescriptor
	Wiki    string
}

// Leaf returns the bare table name, the last path segment.
func (t *TableDescriptor) Leaf() string {
	if idx := strings.LastIndex(t.Path, "."); idx >= 0 {
		return t.Path[idx+1:]
	}
	return t.Path
}

// Column returns the descriptor for the named column, nil if absent.
// Lookup is case-insensitive; column names are unique within a table.
func (t *TableDescriptor) Column(name string) *ColumnDescriptor {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the table's column names in declared order.
func (t *TableDescriptor) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Snapshot is an immutable view of the catalog at one refresh point.
type Snapshot struct {
	tables []TableDescriptor
	byPath map[string]int
}

// NewSnapshot builds a snapshot from descriptors. The input is copied;
// callers may not mutate descriptors afterwards.
func NewSnapshot(tables []TableDescriptor) *Snapshot {
	s := &Snapshot{
		tables: make([]TableDescriptor, len(tables)),
		byPath: make(map[string]int, len(tables)),
	}
	copy(s.tables, tables)
	sort.Slice(s.tables, func(i, j int) bool { return s.tables[i].Path < s.tables[j].Path })
	for i := range s.tables {
		s.byPath[strings.ToLower(s.tables[i].Path)] = i
	}
	return s
}

// Tables returns all table descriptors in path order.
func (s *Snapshot) Tables() []TableDescriptor { return s.tables }

// Paths returns all fully qualified table paths in order.
func (s *Snapshot) Paths() []string {
	paths := make([]string, len(s.tables))
	for i := range s.tables {
		paths[i] = s.tables[i].Path
	}
	return paths
}

// Len returns the number of known tables.
func (s *Snapshot) Len() int { return len(s.tables) }

// Lookup finds a table by fully qualified path, or by unique leaf name when
// no full path matches. Matching is case-insensitive.
func (s *Snapshot) Lookup(pathOrLeaf string) *TableDescriptor {
	key := strings.ToLower(strings.TrimSpace(pathOrLeaf))
	if key == "" {
		return nil
	}
	if idx, ok := s.byPath[key]; ok {
		return &s.tables[idx]
	}

	var found *TableDescriptor
	for i := range s.tables {
		if strings.ToLower(s.tables[i].Leaf()) == key {
			if found != nil {
				return nil // ambiguous leaf
			}
			found = &s.tables[i]
		}
	}
	return found
}

// MetadataSource is the slice of the Dremio client the catalog needs.
type MetadataSource interface {
	ListTables(ctx context.Context, source, schema string) ([]string, error)
	GetTableSchema(ctx context.Context, tablePath string) ([]dremio.ColumnInfo, error)
	GetWikiDescription(ctx context.Context, entityPath string) (string, error)
}

// Store holds the current snapshot and refreshes it from a MetadataSource.
type Store struct {
	source  MetadataSource
	current atomic.Pointer[Snapshot]
	logger  *zap.Logger
}

// NewStore creates a store with an empty snapshot.
func NewStore(source MetadataSource, logger *zap.Logger) *Store {
	s := &Store{source: source, logger: logger.Named("catalog")}
	s.current.Store(NewSnapshot(nil))
	return s
}

// Snapshot returns the current catalog snapshot. Never nil.
func (s *Store) Snapshot() *Snapshot { return s.current.Load() }

// Refresh rebuilds the snapshot from the metadata source and swaps it in.
// A wiki fetch failure for one table degrades that table to no wiki rather
// than failing the whole refresh; schema failures skip the table.
func (s *Store) Refresh(ctx context.Context) error {
	paths, err := s.source.ListTables(ctx, "", "")
	if err != nil {
		return err
	}

	tables := make([]TableDescriptor, 0, len(paths))
	for _, path := range paths {
		cols, err := s.source.GetTableSchema(ctx, path)
		if err != nil {
			s.logger.Warn("skipping table, schema fetch failed",
				zap.String("table", path), zap.Error(err))
			continue
		}

		td := TableDescriptor{Path: path, Columns: make([]ColumnDescriptor, 0, len(cols))}
		for _, col := range cols {
			td.Columns = append(td.Columns, ColumnDescriptor{
				Name:     col.ColumnName,
				DataType: col.DataType,
				Nullable: strings.EqualFold(col.IsNullable, "YES"),
			})
		}

		wiki, err := s.source.GetWikiDescription(ctx, path)
		if err != nil {
			s.logger.Debug("wiki fetch failed", zap.String("table", path), zap.Error(err))
		} else {
			td.Wiki = wiki
		}

		tables = append(tables, td)
	}

	s.current.Store(NewSnapshot(tables))
	s.logger.Info("catalog refreshed", zap.Int("tables", len(tables)))
	return nil
}
