package responder

import (
	"fmt"
	"strings"
)

const (
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

//go:generate mockery --name=ClientFactory --dir=. --output=./mocks --filename=client_factory_mock.go --case=underscore --with-expecter
type ClientFactory interface {
	Get(provider string) (Client, error)
}

type clientFactory struct {
	clients       map[string]Client
	defaultClient Client
}

func NewClientFactory(ollama Client, anthropicClient Client) ClientFactory {
	clients := make(map[string]Client)

	if ollama != nil {
		clients[ProviderOllama] = ollama
	}
	if anthropicClient != nil {
		clients[ProviderAnthropic] = anthropicClient
	}

	return &clientFactory{
		clients:       clients,
		defaultClient: ollama,
	}
}

func (f *clientFactory) Get(provider string) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if name == "" {
		if f.defaultClient == nil {
			return nil, fmt.Errorf("ollama responder client not configured")
		}
		return f.defaultClient, nil
	}

	if client, ok := f.clients[name]; ok {
		return client, nil
	}

	return nil, fmt.Errorf("unknown responder provider: %s", provider)
}
