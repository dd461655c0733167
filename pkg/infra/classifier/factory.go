package classifier

import (
	"fmt"
	"strings"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

//go:generate mockery --name=ClientFactory --dir=. --output=./mocks --filename=client_factory_mock.go --case=underscore --with-expecter
type ClientFactory interface {
	Get(provider string) (Client, error)
}

type clientFactory struct {
	clients       map[string]Client
	defaultClient Client
}

func NewClientFactory(ollama Client, openai Client) ClientFactory {
	clients := make(map[string]Client)

	if ollama != nil {
		clients[ProviderOllama] = ollama
	}
	if openai != nil {
		clients[ProviderOpenAI] = openai
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
			return nil, fmt.Errorf("ollama classifier client not configured")
		}
		return f.defaultClient, nil
	}

	if client, ok := f.clients[name]; ok {
		return client, nil
	}

	return nil, fmt.Errorf("unknown classifier provider: %s", provider)
}
