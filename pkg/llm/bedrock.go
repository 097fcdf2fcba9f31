package llm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
	"github.com/neelkamal0666/dremio-mcp/pkg/config"
)

// Shared completion bounds for every provider; SQL answers are short and
// should be near-deterministic.
const (
	completionMaxTokens   = 500
	completionTemperature = 0.1
)

// BedrockGenerator generates SQL via the AWS Bedrock Converse API.
type BedrockGenerator struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *zap.Logger
}

func NewBedrockGenerator(cfg config.BedrockConfig, logger *zap.Logger) (*BedrockGenerator, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &BedrockGenerator{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		logger:  logger.Named("bedrock"),
	}, nil
}

func (g *BedrockGenerator) Name() string { return "bedrock" }

func (g *BedrockGenerator) GenerateSQL(ctx context.Context, question string, snap *catalog.Snapshot) (string, error) {
	prompt := BuildPrompt(question, snap)

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		System: []bedrocktypes.SystemContentBlock{
			&bedrocktypes.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []bedrocktypes.Message{
			{
				Role: bedrocktypes.ConversationRoleUser,
				Content: []bedrocktypes.ContentBlock{
					&bedrocktypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: &bedrocktypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(completionMaxTokens),
			Temperature: aws.Float32(completionTemperature),
		},
	}

	output, err := g.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("bedrock converse failed: %w", err)
	}

	msg, ok := output.Output.(*bedrocktypes.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected bedrock output type %T", output.Output)
	}
	for _, block := range msg.Value.Content {
		if text, ok := block.(*bedrocktypes.ContentBlockMemberText); ok {
			return text.Value, nil
		}
	}
	return "", fmt.Errorf("no text content in bedrock response")
}
