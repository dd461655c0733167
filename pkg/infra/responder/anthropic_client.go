package responder

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"
)

type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type anthropicResponderClient struct {
	client    anthropic.Client
	logger    *logrus.Logger
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicResponderClient(cfg AnthropicConfig, logger *logrus.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	model := anthropic.ModelClaudeHaiku4_5
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &anthropicResponderClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		logger:    logger,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (c *anthropicResponderClient) Generate(ctx context.Context, text string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		c.logger.WithError(err).Error("anthropic generation failed")
		return "", fmt.Errorf("%w: %v", ErrResponderUnavailable, err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("%w: no completions returned", ErrResponderUnavailable)
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText = content.Text
			break
		}
	}
	if responseText == "" {
		return "", fmt.Errorf("%w: no text content returned", ErrResponderUnavailable)
	}

	return responseText, nil
}
