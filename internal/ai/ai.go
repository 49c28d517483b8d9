package ai

import (
	"context"
	"io"
)

// Provider names accepted by NewTextClient and the configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role    Role
	Content string
}

// HistoryWindow is how many stored turns accompany a new chat message.
const HistoryWindow = 10

// Window returns the last n turns of history, oldest first.
func Window(history []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return append([]Turn(nil), history...)
}

// Generator produces the next assistant turn for a conversation.
type Generator interface {
	Generate(ctx context.Context, model, system string, turns []Turn) (string, TokenUsage, error)
}

// ModelLister lists the models a credential can generate with.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// TextClient is a generation backend bound to one credential.
type TextClient interface {
	Generator
	ModelLister
}

// TTSClient synthesizes speech audio from text. speed is a multiplier
// around 1.0; zero leaves the backend default.
type TTSClient interface {
	TTS(ctx context.Context, model, voice, text string, speed float64, w io.Writer) error
}
