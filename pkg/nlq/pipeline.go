package nlq

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/apperrors"
	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
	"github.com/neelkamal0666/dremio-mcp/pkg/dremio"
	"github.com/neelkamal0666/dremio-mcp/pkg/logging"
	"github.com/neelkamal0666/dremio-mcp/pkg/sqlcheck"
)

// Executor runs SQL against the data lake.
type Executor interface {
	ExecuteQuery(ctx context.Context, sql string) (*dremio.ResultSet, error)
}

// SQLGenerator produces SQL from a question and schema context. Failure is
// expected and recovered; the heuristic synthesizer is always the fallback.
type SQLGenerator interface {
	GenerateSQL(ctx context.Context, question string, snap *catalog.Snapshot) (string, error)
}

// SnapshotProvider yields the current catalog snapshot.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

// Pipeline runs a question through classify, resolve, synthesize (or AI
// generate), execute, and shape.
type Pipeline struct {
	catalog      SnapshotProvider
	executor     Executor
	generator    SQLGenerator
	resolver     Resolver
	defaultLimit int
	logger       *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGenerator installs an optional AI SQL generator tried before the
// heuristic synthesizer.
func WithGenerator(g SQLGenerator) Option {
	return func(p *Pipeline) { p.generator = g }
}

// WithResolver overrides the default resolver settings.
func WithResolver(r Resolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

// WithDefaultLimit sets the row cap for unbounded queries.
func WithDefaultLimit(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.defaultLimit = n
		}
	}
}

func NewPipeline(cat SnapshotProvider, exec Executor, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog:      cat,
		executor:     exec,
		resolver:     Resolver{MinScore: 1, PreferShortestPath: true},
		defaultLimit: 100,
		logger:       logger.Named("nlq"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process answers a natural-language question. It always returns an
// envelope; pipeline failures come back as {success:false, error,
// error_code} rather than a Go error, so every front-end serializes the
// same way.
func (p *Pipeline) Process(ctx context.Context, question string) *Envelope {
	requestID := uuid.NewString()
	log := p.logger.With(zap.String("request_id", requestID))

	if strings.TrimSpace(question) == "" {
		return errorEnvelope(requestID, apperrors.New(apperrors.CodeEmptyQuestion, "question must not be empty"))
	}

	intent := Classify(question)
	log.Debug("classified question",
		zap.String("question", logging.TruncateString(question, 200)),
		zap.String("intent", string(intent)))

	var env *Envelope
	var err error
	switch intent {
	case IntentTableExploration:
		env, err = p.exploreTables(question)
	case IntentMetadataRequest:
		env, err = p.describeTable(question)
	default:
		env, err = p.runSQLIntent(ctx, log, question, intent)
	}
	if err != nil {
		log.Info("pipeline failed",
			zap.String("intent", string(intent)),
			zap.String("error_code", apperrors.CodeOf(err)),
			zap.String("error", logging.SanitizeError(err)))
		return errorEnvelope(requestID, err)
	}
	env.RequestID = requestID
	return env
}

func errorEnvelope(requestID string, err error) *Envelope {
	return &Envelope{
		Success:   false,
		Error:     apperrors.MessageOf(err),
		ErrorCode: apperrors.CodeOf(err),
		RequestID: requestID,
	}
}

func (p *Pipeline) exploreTables(question string) (*Envelope, error) {
	snap := p.catalog.Snapshot()
	all := snap.Paths()
	filtered := filterTablesByKeywords(all, Keywords(question))
	return &Envelope{
		Success:   true,
		QueryType: string(IntentTableExploration),
		Data: &TableExplorationData{
			Tables:         filtered,
			TotalCount:     len(filtered),
			AllTablesCount: len(all),
			Message:        fmt.Sprintf("Found %d tables matching your query", len(filtered)),
		},
	}, nil
}

// filterTablesByKeywords keeps tables whose path mentions any keyword.
// Without keywords every table qualifies.
func filterTablesByKeywords(paths []string, keywords []string) []string {
	if len(keywords) == 0 {
		return paths
	}
	filtered := make([]string, 0, len(paths))
	for _, path := range paths {
		lower := strings.ToLower(path)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) || strings.Contains(lower, inflection.Singular(kw)) {
				filtered = append(filtered, path)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return paths
	}
	return filtered
}

func (p *Pipeline) describeTable(question string) (*Envelope, error) {
	snap := p.catalog.Snapshot()
	table := p.resolver.ResolveTable(question, snap)
	if table == nil {
		return nil, apperrors.Newf(apperrors.CodeTableNotFound,
			"could not determine which table the question refers to")
	}
	return &Envelope{
		Success:   true,
		QueryType: string(IntentMetadataRequest),
		Data:      DescribeTable(table),
	}, nil
}

// DescribeTable builds the metadata payload for a catalog table.
func DescribeTable(table *catalog.TableDescriptor) *MetadataData {
	schema := make([]SchemaColumn, len(table.Columns))
	for i, c := range table.Columns {
		nullable := "NO"
		if c.Nullable {
			nullable = "YES"
		}
		schema[i] = SchemaColumn{
			ColumnName: c.Name,
			DataType:   c.DataType,
			IsNullable: nullable,
		}
	}
	var wiki *string
	if table.Wiki != "" {
		wiki = &table.Wiki
	}
	return &MetadataData{
		TableName:       table.Path,
		Schema:          schema,
		ColumnCount:     len(schema),
		WikiDescription: wiki,
		Message:         fmt.Sprintf("Schema for %s", table.Leaf()),
	}
}

func (p *Pipeline) runSQLIntent(ctx context.Context, log *zap.Logger, question string, intent Intent) (*Envelope, error) {
	snap := p.catalog.Snapshot()
	table := p.resolver.ResolveTable(question, snap)
	if table == nil {
		return nil, apperrors.Newf(apperrors.CodeTableNotFound,
			"no table matches the question; try 'show tables' to list what is available")
	}

	rq := ResolvedQuery{
		Question: question,
		Intent:   intent,
		Table:    table,
		Limit:    p.defaultLimit,
	}
	if n, ok := DetectTopN(question); ok {
		rq.Limit = n
	}

	switch intent {
	case IntentFieldSelection:
		rq.SelectedColumns = ResolveColumns(question, table)
		if len(rq.SelectedColumns) == 0 {
			return nil, apperrors.Newf(apperrors.CodeColumnsNotFound,
				"no matching columns found; available columns: %s",
				strings.Join(table.ColumnNames(), ", "))
		}
	case IntentAggregation:
		kind, _ := DetectAggregation(question)
		rq.Aggregation = kind
		rq.AggregationColumn = ResolveAggregationColumn(question, table)
	}

	sql, err := p.generateSQL(ctx, log, question, snap, rq)
	if err != nil {
		return nil, err
	}

	rs, err := p.executor.ExecuteQuery(ctx, sql)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataQueryError,
			fmt.Sprintf("query execution failed: %s", logging.SanitizeError(err)), err)
	}

	env := &Envelope{Success: true, QueryType: string(intent), SQL: sql}
	switch intent {
	case IntentCount:
		env.Data = ShapeCount(rs)
	case IntentAggregation:
		env.Data = ShapeAggregation(rs, rq.Aggregation)
	case IntentFieldSelection:
		env.Data = ShapeFieldSelection(rs, rq.SelectedColumns)
	default:
		env.Data = ShapeDataQuery(rs, question)
	}
	return env, nil
}

// generateSQL tries the AI generator first and falls back to the heuristic
// synthesizer. Generator output is only trusted after validation against the
// catalog snapshot.
func (p *Pipeline) generateSQL(ctx context.Context, log *zap.Logger, question string, snap *catalog.Snapshot, rq ResolvedQuery) (string, error) {
	if p.generator != nil && !questionLooksHostile(log, question) {
		sql, err := p.generator.GenerateSQL(ctx, question, snap)
		if err == nil {
			if validated, ok := validateGenerated(sql, snap); ok {
				log.Debug("using generated sql", zap.String("sql", logging.SanitizeQuery(validated)))
				return validated, nil
			}
			log.Debug("generated sql rejected by validation",
				zap.String("sql", logging.SanitizeQuery(sql)))
		} else {
			log.Debug("sql generation failed, falling back to heuristics",
				zap.String("error", logging.SanitizeError(err)))
		}
	}
	return Synthesize(rq)
}

func validateGenerated(sql string, snap *catalog.Snapshot) (string, bool) {
	res := sqlcheck.ValidateSelect(sql, snap.Paths())
	if res.Error != nil {
		return "", false
	}
	return sqlcheck.CleanReservedAliases(res.NormalizedSQL), true
}

// questionLooksHostile screens the raw question before it is handed to a
// model prompt. A flagged question still gets an answer, just via the
// heuristic synthesizer whose SQL shape the question cannot influence.
func questionLooksHostile(log *zap.Logger, question string) bool {
	injected, fingerprint := sqlcheck.CheckInjection(question)
	if injected {
		log.Warn("question flagged as injection attempt, skipping generator",
			zap.String("fingerprint", fingerprint))
	}
	return injected
}
