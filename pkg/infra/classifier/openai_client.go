package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	openAIModerationURL   = "https://api.openai.com/v1/moderations"
	openAIModerationModel = "omni-moderation-latest"
)

type OpenAIClassifierClient struct {
	client         httpx.Client
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	apiKey         string
	endpoint       string
}

type openAIModerationRequest struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

type openAIModerationResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []moderationResult `json:"results"`
}

type moderationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

func NewOpenAIClassifierClient(
	apiKey string,
	client httpx.Client,
	logger *logrus.Logger,
	circuitBreaker httpx.CircuitBreaker,
) Client {
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAIClassifierClient{
		client:         client,
		logger:         logger,
		circuitBreaker: circuitBreaker,
		apiKey:         apiKey,
		endpoint:       openAIModerationURL,
	}
}

// SetEndpoint overrides the moderation endpoint, used by tests.
func (c *OpenAIClassifierClient) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

func (c *OpenAIClassifierClient) Score(ctx context.Context, text string) (checker.ScoreResult, error) {
	var result checker.ScoreResult
	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		result, execErr = c.executeModerationRequest(ctx, text)
		return execErr
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("openai moderation failed")
		}
		return checker.ScoreResult{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	return result, nil
}

func (c *OpenAIClassifierClient) executeModerationRequest(ctx context.Context, text string) (checker.ScoreResult, error) {
	body, err := json.Marshal(openAIModerationRequest{Input: text, Model: openAIModerationModel})
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("failed to marshal moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("failed to create moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("failed to call moderation api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return checker.ScoreResult{}, fmt.Errorf("moderation response read error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Error("moderation api returned non-200 status")
		return checker.ScoreResult{}, fmt.Errorf("moderation api returned status %d", resp.StatusCode)
	}

	var moderation openAIModerationResponse
	if err := json.Unmarshal(respBody, &moderation); err != nil {
		return checker.ScoreResult{}, fmt.Errorf("invalid moderation response: %w", err)
	}
	if len(moderation.Results) == 0 {
		return checker.ScoreResult{}, fmt.Errorf("no moderation results returned")
	}

	return scoreFromModeration(moderation.Results[0]), nil
}

// scoreFromModeration converts a moderation result to a label-relative
// confidence. Flagged content carries the strongest category score; clean
// content carries the complement of it.
func scoreFromModeration(result moderationResult) checker.ScoreResult {
	var maxScore float64
	for _, score := range result.CategoryScores {
		if score > maxScore {
			maxScore = score
		}
	}

	if result.Flagged {
		return checker.ScoreResult{Score: maxScore, Label: checker.LabelUnsafe}
	}
	return checker.ScoreResult{Score: 1 - maxScore, Label: checker.LabelSafe}
}
