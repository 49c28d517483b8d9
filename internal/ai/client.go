package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// Client wraps the official OpenAI SDK. baseURL points it at any
// OpenAI-compatible endpoint.
type Client struct {
	apiKey  string
	baseURL string
	sdk     openai.Client
}

// New constructs an OpenAI client. The apiKey is required; an empty
// baseURL uses the default API endpoint.
func New(apiKey, baseURL string, extra ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY: %w", ErrNoCredential)
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &Client{apiKey: apiKey, baseURL: baseURL, sdk: openai.NewClient(opts...)}, nil
}

func (c *Client) APIKey() string  { return c.apiKey }
func (c *Client) BaseURL() string { return c.baseURL }

// Generate calls Chat Completions with the system prompt followed by turns.
func (c *Client) Generate(ctx context.Context, model, system string, turns []Turn) (string, TokenUsage, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	for _, t := range turns {
		if t.Role == RoleAssistant {
			msgs = append(msgs, openai.AssistantMessage(t.Content))
		} else {
			msgs = append(msgs, openai.UserMessage(t.Content))
		}
	}
	res, err := c.sdk.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	})
	if err != nil {
		return "", TokenUsage{}, classify(ProviderOpenAI, "generate", err)
	}
	if len(res.Choices) == 0 {
		return "", TokenUsage{}, &TransportError{Provider: ProviderOpenAI, Op: "generate", Err: errors.New("response has no choices")}
	}
	return res.Choices[0].Message.Content, usageFromCompletion(res.Usage), nil
}

// ListModels returns the model ids visible to the credential, sorted.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.sdk.Models.List(ctx)
	if err != nil {
		return nil, classify(ProviderOpenAI, "list models", err)
	}
	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	sort.Strings(names)
	return names, nil
}

// TTS writes MP3 audio to w using the Audio Speech API.
// model should be a TTS-capable model (e.g., gpt-4o-mini-tts) and voice is a supported voice name.
func (c *Client) TTS(ctx context.Context, model, voice, text string, speed float64, w io.Writer) error {
	req := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	if speed > 0 {
		req.Speed = param.NewOpt(clampSpeed(speed))
	}
	resp, err := c.sdk.Audio.Speech.New(ctx, req)
	if err != nil {
		return classify(ProviderOpenAI, "speech", err)
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return err
}

// OpenAIVoices are the voice names accepted by the Audio Speech API.
var OpenAIVoices = []string{"alloy", "ash", "ballad", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer", "verse"}

// clampSpeed keeps speed inside the 0.25-4.0 range the speech API accepts.
func clampSpeed(s float64) float64 {
	if s < 0.25 {
		return 0.25
	}
	if s > 4 {
		return 4
	}
	return s
}
