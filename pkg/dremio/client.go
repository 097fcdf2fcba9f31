// Package dremio is a REST client for the Dremio data lake: token login,
// SQL job submit/poll/fetch, catalog listings and wiki attachments.
package dremio

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/config"
	"github.com/neelkamal0666/dremio-mcp/pkg/logging"
	"github.com/neelkamal0666/dremio-mcp/pkg/retry"
)

// Client talks to a Dremio coordinator over its REST API.
type Client struct {
	cfg        config.DremioConfig
	baseURL    string
	httpClient *http.Client
	token      string
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// NewClient builds a client from configuration. Call Authenticate before
// issuing queries.
func NewClient(cfg config.DremioConfig, logger *zap.Logger) (*Client, error) {
	transport := &http.Transport{}

	if cfg.UseSSL {
		tlsCfg := &tls.Config{}
		if !cfg.VerifySSL {
			tlsCfg.InsecureSkipVerify = true
		} else if cfg.CertPath != "" {
			pem, err := os.ReadFile(cfg.CertPath)
			if err != nil {
				return nil, fmt.Errorf("read CA bundle: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("no certificates found in %s", cfg.CertPath)
			}
			tlsCfg.RootCAs = pool
		}
		transport.TLSClientConfig = tlsCfg
	}

	return &Client{
		cfg:     cfg,
		baseURL: cfg.BaseURL(),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   60 * time.Second,
		},
		retryCfg: retry.DefaultConfig(),
		logger:   logger.Named("dremio"),
	}, nil
}

// Authenticate logs in and stores the session token. Dremio expects the
// token echoed back as "Authorization: _dremio{token}" on every request.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(loginRequest{
		UserName: c.cfg.Username,
		Password: c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/apiv2/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: HTTP %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if lr.Token == "" {
		return fmt.Errorf("login succeeded but no token received")
	}

	c.token = lr.Token
	c.logger.Info("authenticated with Dremio", zap.String("host", c.cfg.Host))
	return nil
}

// ExecuteQuery submits SQL as a job, waits for completion and fetches all
// result pages.
func (c *Client) ExecuteQuery(ctx context.Context, sqlQuery string) (*ResultSet, error) {
	jobID, err := c.submitSQL(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("submitted SQL job",
		zap.String("job_id", jobID),
		zap.String("sql", logging.SanitizeQuery(sqlQuery)))

	if err := c.waitForJob(ctx, jobID); err != nil {
		return nil, err
	}

	return c.fetchResults(ctx, jobID)
}

func (c *Client) submitSQL(ctx context.Context, sqlQuery string) (string, error) {
	var submit sqlSubmitResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v3/sql", sqlSubmitRequest{SQL: sqlQuery}, &submit)
	if err != nil {
		return "", fmt.Errorf("submit SQL: %w", err)
	}
	if submit.ID == "" {
		return "", fmt.Errorf("submit SQL: no job id in response")
	}
	return submit.ID, nil
}

func (c *Client) waitForJob(ctx context.Context, jobID string) error {
	timeout := time.Duration(c.cfg.JobTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	interval := time.Duration(c.cfg.JobPollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 2 * time.Second
	}

	deadline := time.Now().Add(timeout)
	lastState := ""

	for {
		var status jobStatusResponse
		if err := c.doJSON(ctx, http.MethodGet, "/api/v3/job/"+url.PathEscape(jobID), nil, &status); err != nil {
			return fmt.Errorf("poll job %s: %w", jobID, err)
		}

		if status.JobState != lastState {
			c.logger.Debug("job state changed",
				zap.String("job_id", jobID),
				zap.String("state", status.JobState))
			lastState = status.JobState
		}

		switch status.JobState {
		case "COMPLETED":
			return nil
		case "FAILED", "CANCELED":
			return fmt.Errorf("job %s %s: %s", jobID, strings.ToLower(status.JobState),
				logging.SanitizeString(status.ErrorMessage))
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for job %s", jobID)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) fetchResults(ctx context.Context, jobID string) (*ResultSet, error) {
	pageSize := c.cfg.ResultPageSize
	if pageSize <= 0 {
		pageSize = 500
	}

	var (
		allRows []map[string]any
		schema  []resultColumn
		total   = -1
		offset  = 0
	)

	for total < 0 || offset < total {
		path := fmt.Sprintf("/api/v3/job/%s/results?offset=%d&limit=%d", url.PathEscape(jobID), offset, pageSize)
		var page jobResultsResponse
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, fmt.Errorf("fetch results for job %s: %w", jobID, err)
		}

		if total < 0 {
			total = page.RowCount
			schema = page.Schema
		}
		if len(page.Rows) == 0 {
			break
		}
		allRows = append(allRows, page.Rows...)
		offset += len(page.Rows)
	}

	rs := &ResultSet{
		Rows:        allRows,
		Columns:     make([]string, 0, len(schema)),
		ColumnTypes: make(map[string]string, len(schema)),
	}
	for _, col := range schema {
		rs.Columns = append(rs.Columns, col.Name)
		rs.ColumnTypes[col.Name] = normalizeTypeName(col.Type.Name)
	}
	// Jobs submitted by older Dremio versions omit the schema block; fall
	// back to the first row's keys.
	if len(rs.Columns) == 0 && len(allRows) > 0 {
		for name := range allRows[0] {
			rs.Columns = append(rs.Columns, name)
			rs.ColumnTypes[name] = "string"
		}
	}
	return rs, nil
}

// ListTables returns fully qualified "source.schema.table" paths from
// INFORMATION_SCHEMA, honoring the configured default source/schema scope
// when the arguments are empty.
func (c *Client) ListTables(ctx context.Context, source, schema string) ([]string, error) {
	if source == "" {
		source = c.cfg.DefaultSource
	}
	if schema == "" {
		schema = c.cfg.DefaultSchema
	}

	query := `SELECT table_schema, table_name FROM INFORMATION_SCHEMA."TABLES" WHERE table_type IN ('TABLE','VIEW')`
	switch {
	case source != "" && schema != "":
		query += fmt.Sprintf(" AND LOWER(table_schema) = LOWER('%s.%s')", escapeLiteral(source), escapeLiteral(schema))
	case source != "":
		query += fmt.Sprintf(" AND LOWER(table_schema) LIKE LOWER('%s.%%')", escapeLiteral(source))
	case schema != "":
		query += fmt.Sprintf(" AND LOWER(table_schema) LIKE LOWER('%%.%s')", escapeLiteral(schema))
	}
	query += " ORDER BY table_schema, table_name"

	rs, err := c.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	tables := make([]string, 0, rs.RowCount())
	for _, row := range rs.Rows {
		ts, _ := row["table_schema"].(string)
		tn, _ := row["table_name"].(string)
		if ts != "" && tn != "" {
			tables = append(tables, ts+"."+tn)
		}
	}
	return tables, nil
}

// GetTableSchema returns column metadata for a table, looked up by its
// leaf name in INFORMATION_SCHEMA.
func (c *Client) GetTableSchema(ctx context.Context, tablePath string) ([]ColumnInfo, error) {
	leaf := tablePath
	if idx := strings.LastIndex(tablePath, "."); idx >= 0 {
		leaf = tablePath[idx+1:]
	}

	query := fmt.Sprintf(`SELECT column_name, data_type, is_nullable FROM INFORMATION_SCHEMA."COLUMNS" WHERE table_name = '%s' ORDER BY ordinal_position`, escapeLiteral(leaf))

	rs, err := c.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get schema for %s: %w", tablePath, err)
	}

	columns := make([]ColumnInfo, 0, rs.RowCount())
	for _, row := range rs.Rows {
		col := ColumnInfo{}
		col.ColumnName, _ = row["column_name"].(string)
		col.DataType, _ = row["data_type"].(string)
		col.IsNullable, _ = row["is_nullable"].(string)
		if col.ColumnName != "" {
			columns = append(columns, col)
		}
	}
	return columns, nil
}

// GetCatalogItems lists top-level catalog entries.
func (c *Client) GetCatalogItems(ctx context.Context) ([]CatalogItem, error) {
	var list catalogListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v3/catalog", nil, &list); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return list.Data, nil
}

// GetWikiDescription fetches the raw wiki markdown attached to an entity,
// or "" when the entity has no wiki.
func (c *Client) GetWikiDescription(ctx context.Context, entityPath string) (string, error) {
	wiki, err := c.GetWiki(ctx, entityPath)
	if err != nil {
		return "", err
	}
	if wiki == nil {
		return "", nil
	}
	return wiki.Text, nil
}

// GetWiki fetches the wiki attachment of an entity, resolving the entity id
// by path first. Returns nil when no wiki exists.
func (c *Client) GetWiki(ctx context.Context, entityPath string) (*WikiContent, error) {
	entityID, err := c.entityIDByPath(ctx, entityPath)
	if err != nil {
		return nil, err
	}
	if entityID == "" {
		return nil, nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/v3/catalog/"+url.PathEscape(entityID)+"/collaboration/wiki", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch wiki for %s: %w", entityPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch wiki for %s: HTTP %d", entityPath, resp.StatusCode)
	}

	var wiki WikiContent
	if err := json.NewDecoder(resp.Body).Decode(&wiki); err != nil {
		return nil, fmt.Errorf("decode wiki for %s: %w", entityPath, err)
	}
	return &wiki, nil
}

// SearchDatasets queries the catalog search endpoint for datasets matching
// the term.
func (c *Client) SearchDatasets(ctx context.Context, term string) ([]CatalogItem, error) {
	path := "/api/v3/catalog/search?query=" + url.QueryEscape(term) + "&type=dataset"
	var list catalogListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("search datasets: %w", err)
	}
	return list.Data, nil
}

// entityIDByPath resolves a dotted entity path to a catalog id, trying the
// by-path endpoint first and falling back to a catalog scan (the by-path
// route rejects some source layouts).
func (c *Client) entityIDByPath(ctx context.Context, entityPath string) (string, error) {
	slashPath := strings.ReplaceAll(entityPath, ".", "/")
	if id, err := c.entityIDDirect(ctx, slashPath); err != nil {
		return "", fmt.Errorf("resolve entity %s: %w", entityPath, err)
	} else if id != "" {
		return id, nil
	}

	// Fallback: scan the catalog for a path match.
	items, err := c.GetCatalogItems(ctx)
	if err != nil {
		return "", err
	}

	target := strings.ToLower(entityPath)
	leaf := target
	if idx := strings.LastIndex(target, "."); idx >= 0 {
		leaf = target[idx+1:]
	}

	for _, item := range items {
		itemPath := strings.ToLower(strings.Join(item.Path, "."))
		if itemPath == target {
			return item.ID, nil
		}
		if strings.HasSuffix(itemPath, "."+leaf) {
			return item.ID, nil
		}
	}
	return "", nil
}

func (c *Client) entityIDDirect(ctx context.Context, slashPath string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v3/catalog/by-path/"+slashPath, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	var item CatalogItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return "", nil
	}
	return item.ID, nil
}

// doJSON performs a request with retries for transient failures, decoding a
// JSON response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	return retry.Do(ctx, c.retryCfg, func() error {
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("marshal request: %w", err)
			}
			reader = bytes.NewReader(raw)
		}

		req, err := c.newRequest(ctx, method, path, reader)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, logging.SanitizeString(string(raw)))
		}

		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "_dremio"+c.token)
	}
	return req, nil
}

// escapeLiteral doubles single quotes for safe embedding in a SQL string
// literal.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
