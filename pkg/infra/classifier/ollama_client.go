package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	generatePath = "/api/generate"

	classificationPrompt = "Classify the following input as 'SAFE' or 'UNSAFE' based on whether it contains malicious, harmful, " +
		"or suspicious content. Respond with only 'SAFE' or 'UNSAFE'.\n\n" +
		"Input: %s\n\nClassification:"
)

type OllamaClassifierClient struct {
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

func NewOllamaClassifierClient(
	cfg OllamaConfig,
	client httpx.Client,
	logger *logrus.Logger,
	circuitBreaker httpx.CircuitBreaker,
) Client {
	if client == nil {
		client = &http.Client{}
	}
	return &OllamaClassifierClient{
		client:         client,
		logger:         logger,
		circuitBreaker: circuitBreaker,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		model:          cfg.Model,
	}
}

func (c *OllamaClassifierClient) Score(ctx context.Context, text string) (checker.ScoreResult, error) {
	var result checker.ScoreResult
	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		result, execErr = c.executeScoreRequest(ctx, text)
		return execErr
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("ollama classification failed")
		}
		return checker.ScoreResult{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	return result, nil
}

func (c *OllamaClassifierClient) executeScoreRequest(ctx context.Context, text string) (checker.ScoreResult, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(classificationPrompt, text),
	})
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("failed to marshal classification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("failed to create classification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Error("ollama returned non-200 status")
		return checker.ScoreResult{}, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("classification response read error: %w", err)
	}

	var generated ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return checker.ScoreResult{}, fmt.Errorf("invalid classification response: %w", err)
	}

	return scoreFromCompletion(generated.Response), nil
}

// scoreFromCompletion maps the model's free-text classification to a score
// result. A clean SAFE/UNSAFE answer carries full confidence; anything else
// is uncertain.
func scoreFromCompletion(completion string) checker.ScoreResult {
	label := checker.ParseLabel(completion)
	if label == checker.LabelUncertain {
		return checker.ScoreResult{Score: 0.5, Label: label}
	}
	return checker.ScoreResult{Score: 1.0, Label: label}
}
