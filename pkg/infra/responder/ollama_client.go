package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	generatePath = "/api/generate"

	responsePrompt = "Respond to the following input:\n\n%s\n\nResponse:"
)

type OllamaResponderClient struct {
	client         httpx.Client
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	baseURL        string
	model          string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllamaResponderClient(
	cfg OllamaConfig,
	client httpx.Client,
	logger *logrus.Logger,
	circuitBreaker httpx.CircuitBreaker,
) Client {
	if client == nil {
		client = &http.Client{}
	}
	return &OllamaResponderClient{
		client:         client,
		logger:         logger,
		circuitBreaker: circuitBreaker,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		model:          cfg.Model,
	}
}

func (c *OllamaResponderClient) Generate(ctx context.Context, text string) (string, error) {
	var result string
	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		result, execErr = c.executeGenerateRequest(ctx, text)
		return execErr
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("ollama generation failed")
		}
		return "", fmt.Errorf("%w: %v", ErrResponderUnavailable, err)
	}
	return result, nil
}

func (c *OllamaResponderClient) executeGenerateRequest(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(responsePrompt, text),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Error("ollama returned non-200 status")
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("generate response read error: %w", err)
	}

	var generated ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return "", fmt.Errorf("invalid generate response: %w", err)
	}

	answer := strings.TrimSpace(generated.Response)
	if answer == "" {
		return "", fmt.Errorf("no response generated")
	}
	return answer, nil
}
