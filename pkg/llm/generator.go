// Package llm implements SQL generation via external model providers.
// Providers are tried in a fixed order and every failure is recovered by
// the caller falling back to heuristic synthesis, so nothing here is on the
// critical path.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
	"github.com/neelkamal0666/dremio-mcp/pkg/config"
	"github.com/neelkamal0666/dremio-mcp/pkg/logging"
)

// Generator produces SQL for a question given schema context.
type Generator interface {
	Name() string
	GenerateSQL(ctx context.Context, question string, snap *catalog.Snapshot) (string, error)
}

// Chain tries each generator in order and returns the first answer.
// Provider errors are logged and swallowed; only when every provider fails
// does the chain itself fail.
type Chain struct {
	generators []Generator
	timeout    time.Duration
	logger     *zap.Logger
}

// NewChain builds the provider chain from configuration, in priority order:
// Bedrock, then OpenAI, then Anthropic. Returns nil when no provider is
// configured, which callers treat as "heuristics only".
func NewChain(cfg config.AIConfig, logger *zap.Logger) *Chain {
	log := logger.Named("llm")

	var generators []Generator
	if cfg.Bedrock.IsAvailable() {
		g, err := NewBedrockGenerator(cfg.Bedrock, log)
		if err != nil {
			log.Warn("bedrock generator unavailable", zap.String("error", logging.SanitizeError(err)))
		} else {
			generators = append(generators, g)
		}
	}
	if cfg.OpenAI.IsAvailable() {
		generators = append(generators, NewOpenAIGenerator(cfg.OpenAI, log))
	}
	if cfg.Anthropic.IsAvailable() {
		generators = append(generators, NewAnthropicGenerator(cfg.Anthropic, log))
	}
	if len(generators) == 0 {
		return nil
	}

	names := make([]string, len(generators))
	for i, g := range generators {
		names[i] = g.Name()
	}
	log.Info("sql generation providers configured", zap.Strings("providers", names))

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Chain{generators: generators, timeout: timeout, logger: log}
}

func (c *Chain) GenerateSQL(ctx context.Context, question string, snap *catalog.Snapshot) (string, error) {
	var lastErr error
	for _, g := range c.generators {
		sql, err := c.tryOne(ctx, g, question, snap)
		if err != nil {
			c.logger.Debug("provider failed",
				zap.String("provider", g.Name()),
				zap.String("error", logging.SanitizeError(err)))
			lastErr = err
			continue
		}
		return sql, nil
	}
	return "", fmt.Errorf("all sql generation providers failed: %w", lastErr)
}

func (c *Chain) tryOne(ctx context.Context, g Generator, question string, snap *catalog.Snapshot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sql, err := g.GenerateSQL(ctx, question, snap)
	if err != nil {
		return "", err
	}
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return "", fmt.Errorf("%s returned an empty completion", g.Name())
	}
	return sql, nil
}
