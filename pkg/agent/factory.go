package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ventureforge/ventureforge/pkg/config"
)

// DefaultLLMServiceAddr is used when LLM_SERVICE_ADDR is unset.
const DefaultLLMServiceAddr = "localhost:50051"

// LLMServiceAddr returns the gRPC LLM service address from the environment.
func LLMServiceAddr() string {
	if addr := os.Getenv("LLM_SERVICE_ADDR"); addr != "" {
		return addr
	}
	return DefaultLLMServiceAddr
}

// ClientFactory creates LLMClients for configured providers and caches them
// by provider name. Every provider on the llm-service backend shares one
// gRPC connection.
type ClientFactory struct {
	serviceAddr string

	mu      sync.Mutex
	clients map[string]LLMClient
	service LLMClient

	// newGenAI and newService are swapped in tests.
	newGenAI   func(ctx context.Context, provider *config.LLMProviderConfig) (LLMClient, error)
	newService func(addr string) (LLMClient, error)
}

// NewClientFactory creates a ClientFactory; serviceAddr is the gRPC LLM
// service used for non-Google providers.
func NewClientFactory(serviceAddr string) *ClientFactory {
	return &ClientFactory{
		serviceAddr: serviceAddr,
		clients:     make(map[string]LLMClient),
		newGenAI: func(ctx context.Context, provider *config.LLMProviderConfig) (LLMClient, error) {
			return NewGenAIClient(ctx, provider)
		},
		newService: func(addr string) (LLMClient, error) {
			c, err := NewGRPCLLMClient(addr)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

// Client returns the client for the named provider, creating it on first use.
func (f *ClientFactory) Client(ctx context.Context, name string, provider *config.LLMProviderConfig) (LLMClient, error) {
	if provider == nil {
		return nil, fmt.Errorf("LLM provider %q has no configuration", name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[name]; ok {
		return c, nil
	}

	var (
		client LLMClient
		err    error
	)
	switch provider.ResolvedBackend() {
	case config.LLMBackendGenAI:
		client, err = f.newGenAI(ctx, provider)
	case config.LLMBackendService:
		if f.service == nil {
			var svc LLMClient
			if svc, err = f.newService(f.serviceAddr); err == nil {
				f.service = svc
			}
		}
		client = f.service
	default:
		err = fmt.Errorf("unsupported LLM backend %q", provider.ResolvedBackend())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client for provider %q: %w", name, err)
	}

	f.clients[name] = client
	return client, nil
}

// Close releases every client created by the factory.
func (f *ClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	closed := make(map[LLMClient]bool)
	for _, c := range f.clients {
		if closed[c] {
			continue
		}
		closed[c] = true
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.clients = make(map[string]LLMClient)
	f.service = nil
	return errors.Join(errs...)
}
