package responder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/httpx"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/responder"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaResponder(t *testing.T, serverURL string) responder.Client {
	t.Helper()
	return responder.NewOllamaResponderClient(
		responder.OllamaConfig{BaseURL: serverURL, Model: "llama2"},
		nil,
		logrus.New(),
		httpx.NewCircuitBreaker(t.Name(), time.Second, 3),
	)
}

func TestOllamaResponderClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama2", body["model"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "  Paris is the capital of France.\n",
			"done":     true,
		})
	}))
	defer server.Close()

	sut := newOllamaResponder(t, server.URL)
	response, err := sut.Generate(context.Background(), "what is the capital of France")

	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", response)
}

func TestOllamaResponderClient_Generate_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "   ", "done": true})
	}))
	defer server.Close()

	sut := newOllamaResponder(t, server.URL)
	_, err := sut.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, responder.ErrResponderUnavailable)
}

func TestOllamaResponderClient_Generate_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	sut := newOllamaResponder(t, server.URL)
	_, err := sut.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, responder.ErrResponderUnavailable)
}
