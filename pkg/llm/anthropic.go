package llm

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
	"github.com/neelkamal0666/dremio-mcp/pkg/config"
)

// AnthropicGenerator generates SQL via the Anthropic Messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

func NewAnthropicGenerator(cfg config.AnthropicConfig, logger *zap.Logger) *AnthropicGenerator {
	return &AnthropicGenerator{
		client: anthropic.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: logger.Named("anthropic"),
	}
}

func (g *AnthropicGenerator) Name() string { return "anthropic" }

func (g *AnthropicGenerator) GenerateSQL(ctx context.Context, question string, snap *catalog.Snapshot) (string, error) {
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		MaxTokens: completionMaxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(BuildPrompt(question, snap)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion failed: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			return *block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in anthropic response")
}
