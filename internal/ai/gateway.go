package ai

import (
	"context"
	"fmt"
	"strings"
)

// ClientFactory builds a TextClient for one provider and credential.
type ClientFactory func(ctx context.Context, provider, apiKey, baseURL string) (TextClient, error)

// NewTextClient is the default ClientFactory.
func NewTextClient(ctx context.Context, provider, apiKey, baseURL string) (TextClient, error) {
	switch strings.ToLower(provider) {
	case ProviderGemini, "":
		return NewGemini(ctx, apiKey, baseURL)
	case ProviderOpenAI:
		return New(apiKey, baseURL)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// DefaultModels lists the models offered for provider before a refresh.
func DefaultModels(provider string) []string {
	if provider == ProviderOpenAI {
		return []string{"gpt-4o-mini", "gpt-4o"}
	}
	return append([]string(nil), DefaultGeminiModels...)
}

// Gateway holds the process-wide provider, credential and model
// selection. It is not synchronized: only the interactive goroutine
// mutates or reads it, and workers receive a Snapshot.
type Gateway struct {
	provider string
	apiKey   string
	model    string
	baseURL  string
	factory  ClientFactory
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithClientFactory replaces the constructor used by snapshots.
func WithClientFactory(f ClientFactory) GatewayOption {
	return func(g *Gateway) {
		if f != nil {
			g.factory = f
		}
	}
}

// NewGateway returns a gateway for provider. An empty model selects the
// provider's first default model.
func NewGateway(provider, apiKey, model, baseURL string, opts ...GatewayOption) *Gateway {
	if provider == "" {
		provider = ProviderGemini
	}
	if model == "" {
		model = DefaultModels(provider)[0]
	}
	g := &Gateway{provider: provider, apiKey: apiKey, model: model, baseURL: baseURL, factory: NewTextClient}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Provider() string    { return g.provider }
func (g *Gateway) APIKey() string      { return g.apiKey }
func (g *Gateway) Model() string       { return g.model }
func (g *Gateway) BaseURL() string     { return g.baseURL }
func (g *Gateway) HasCredential() bool { return strings.TrimSpace(g.apiKey) != "" }

// SetAPIKey installs key and returns the previous one.
func (g *Gateway) SetAPIKey(key string) string {
	prev := g.apiKey
	g.apiKey = strings.TrimSpace(key)
	return prev
}

// SetModel selects the model used by later snapshots.
func (g *Gateway) SetModel(model string) {
	if model = strings.TrimSpace(model); model != "" {
		g.model = model
	}
}

// Snapshot captures the current selection for use on a worker goroutine.
func (g *Gateway) Snapshot() Snapshot {
	return Snapshot{
		Provider: g.provider,
		APIKey:   g.apiKey,
		Model:    g.model,
		BaseURL:  g.baseURL,
		factory:  g.factory,
	}
}

// Snapshot is an immutable copy of the gateway selection. Its client is
// built on first use by the worker, so a missing credential surfaces as a
// task failure.
type Snapshot struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	factory ClientFactory
}

func (s Snapshot) client(ctx context.Context) (TextClient, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, ErrNoCredential
	}
	f := s.factory
	if f == nil {
		f = NewTextClient
	}
	return f(ctx, s.Provider, s.APIKey, s.BaseURL)
}

// Generate runs the snapshot's model over turns.
func (s Snapshot) Generate(ctx context.Context, system string, turns []Turn) (string, TokenUsage, error) {
	c, err := s.client(ctx)
	if err != nil {
		return "", TokenUsage{}, err
	}
	return c.Generate(ctx, s.Model, system, turns)
}

// ListModels lists the models visible to the snapshot's credential.
func (s Snapshot) ListModels(ctx context.Context) ([]string, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListModels(ctx)
}
