package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModels is offered before the model list has been refreshed.
var DefaultGeminiModels = []string{"gemini-2.0-flash", "gemini-1.5-flash"}

// GeminiClient talks to the Gemini API through the genai SDK.
type GeminiClient struct {
	apiKey  string
	baseURL string
	sdk     *genai.Client
}

// NewGemini constructs a Gemini client. The apiKey is required; baseURL
// overrides the API endpoint when non-empty.
func NewGemini(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY: %w", ErrNoCredential)
	}
	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}
	sdk, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{apiKey: apiKey, baseURL: baseURL, sdk: sdk}, nil
}

func (c *GeminiClient) APIKey() string  { return c.apiKey }
func (c *GeminiClient) BaseURL() string { return c.baseURL }

// Generate sends turns as user/model contents with system as the system
// instruction.
func (c *GeminiClient) Generate(ctx context.Context, model, system string, turns []Turn) (string, TokenUsage, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{SystemInstruction: genai.NewContentFromText(system, genai.RoleUser)}
	}
	resp, err := c.sdk.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", TokenUsage{}, classify(ProviderGemini, "generate", err)
	}
	text := resp.Text()
	if text == "" {
		return "", TokenUsage{}, &TransportError{Provider: ProviderGemini, Op: "generate", Err: errors.New("response has no text")}
	}
	return text, usageFromGemini(resp.UsageMetadata), nil
}

// ListModels returns the generateContent-capable models, without the
// "models/" prefix, sorted.
func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for m, err := range c.sdk.Models.All(ctx) {
		if err != nil {
			return nil, classify(ProviderGemini, "list models", err)
		}
		if len(m.SupportedActions) > 0 && !slices.Contains(m.SupportedActions, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	sort.Strings(names)
	return names, nil
}
