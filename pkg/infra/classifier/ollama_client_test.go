package classifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/classifier"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaClassifier(t *testing.T, serverURL string) classifier.Client {
	t.Helper()
	return classifier.NewOllamaClassifierClient(
		classifier.OllamaConfig{BaseURL: serverURL, Model: "llama2"},
		nil,
		logrus.New(),
		httpx.NewCircuitBreaker(t.Name(), time.Second, 3),
	)
}

func ollamaServer(t *testing.T, completion string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama2", body["model"])
		assert.NotEmpty(t, body["prompt"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": completion,
			"done":     true,
		})
	}))
}

func TestOllamaClassifierClient_Score(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		want       checker.ScoreResult
	}{
		{"safe completion", "SAFE", checker.ScoreResult{Score: 1.0, Label: checker.LabelSafe}},
		{"unsafe completion", "UNSAFE", checker.ScoreResult{Score: 1.0, Label: checker.LabelUnsafe}},
		{"completion with whitespace", "  unsafe\n", checker.ScoreResult{Score: 1.0, Label: checker.LabelUnsafe}},
		{"unparseable completion", "I cannot classify that.", checker.ScoreResult{Score: 0.5, Label: checker.LabelUncertain}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := ollamaServer(t, tt.completion)
			defer server.Close()

			sut := newOllamaClassifier(t, server.URL)
			result, err := sut.Score(context.Background(), "some input")

			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestOllamaClassifierClient_Score_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sut := newOllamaClassifier(t, server.URL)
	_, err := sut.Score(context.Background(), "some input")

	require.Error(t, err)
	assert.ErrorIs(t, err, classifier.ErrClassifierUnavailable)
}

func TestOllamaClassifierClient_Score_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	sut := newOllamaClassifier(t, server.URL)
	_, err := sut.Score(context.Background(), "some input")

	require.Error(t, err)
	assert.ErrorIs(t, err, classifier.ErrClassifierUnavailable)
}
