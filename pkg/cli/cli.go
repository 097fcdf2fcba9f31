// Package cli implements the interactive question loop.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
	"github.com/neelkamal0666/dremio-mcp/pkg/nlq"
)

// Catalog is the snapshot access the CLI needs.
type Catalog interface {
	Snapshot() *catalog.Snapshot
	Refresh(ctx context.Context) error
}

// QueryProcessor answers natural-language questions with a response envelope.
type QueryProcessor interface {
	Process(ctx context.Context, question string) *nlq.Envelope
}

// Loop reads questions from in and prints envelopes to out until EOF or a
// quit command. Lines starting with a known command word are handled
// locally; everything else goes through the pipeline.
type Loop struct {
	catalog  Catalog
	pipeline QueryProcessor
	in       io.Reader
	out      io.Writer
}

func NewLoop(cat Catalog, pipeline QueryProcessor, in io.Reader, out io.Writer) *Loop {
	return &Loop{catalog: cat, pipeline: pipeline, in: in, out: out}
}

// Run blocks until the input is exhausted or the user quits.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.out, "Ask a question about your data. Commands: tables, schema <table>, refresh, quit")

	scanner := bufio.NewScanner(l.in)
	for {
		fmt.Fprint(l.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(l.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "quit" || line == "exit":
			return nil
		case line == "tables":
			l.printTables()
		case strings.HasPrefix(line, "schema "):
			l.printSchema(strings.TrimSpace(strings.TrimPrefix(line, "schema ")))
		case line == "refresh":
			if err := l.catalog.Refresh(ctx); err != nil {
				fmt.Fprintf(l.out, "refresh failed: %v\n", err)
			} else {
				fmt.Fprintf(l.out, "catalog refreshed, %d tables\n", l.catalog.Snapshot().Len())
			}
		default:
			l.printEnvelope(l.pipeline.Process(ctx, line))
		}
	}
}

func (l *Loop) printTables() {
	snap := l.catalog.Snapshot()
	for _, path := range snap.Paths() {
		fmt.Fprintln(l.out, path)
	}
	fmt.Fprintf(l.out, "%d tables\n", snap.Len())
}

func (l *Loop) printSchema(name string) {
	table := l.catalog.Snapshot().Lookup(name)
	if table == nil {
		fmt.Fprintf(l.out, "table not found: %s\n", name)
		return
	}
	for _, col := range table.Columns {
		nullable := ""
		if col.Nullable {
			nullable = " (nullable)"
		}
		fmt.Fprintf(l.out, "%-30s %s%s\n", col.Name, col.DataType, nullable)
	}
	if table.Wiki != "" {
		fmt.Fprintln(l.out, "\n"+table.Wiki)
	}
}

func (l *Loop) printEnvelope(env *nlq.Envelope) {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		fmt.Fprintf(l.out, "could not render response: %v\n", err)
		return
	}
	fmt.Fprintln(l.out, string(out))
}
