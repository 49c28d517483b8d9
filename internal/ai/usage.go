package ai

import (
	"log/slog"

	openai "github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// TokenUsage is the token accounting a provider reports for one call.
// Providers that omit a counter leave it at zero.
type TokenUsage struct {
	InputTokens     int64
	OutputTokens    int64
	TotalTokens     int64
	CachedTokens    int64
	ReasoningTokens int64
}

// LogValue groups the counters under one attribute.
func (u TokenUsage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("input", u.InputTokens),
		slog.Int64("output", u.OutputTokens),
		slog.Int64("total", u.TotalTokens),
		slog.Int64("cached", u.CachedTokens),
		slog.Int64("reasoning", u.ReasoningTokens),
	)
}

func usageFromCompletion(cu openai.CompletionUsage) TokenUsage {
	return TokenUsage{
		InputTokens:     cu.PromptTokens,
		OutputTokens:    cu.CompletionTokens,
		TotalTokens:     cu.TotalTokens,
		CachedTokens:    cu.PromptTokensDetails.CachedTokens,
		ReasoningTokens: cu.CompletionTokensDetails.ReasoningTokens,
	}
}

func usageFromGemini(md *genai.GenerateContentResponseUsageMetadata) TokenUsage {
	if md == nil {
		return TokenUsage{}
	}
	return TokenUsage{
		InputTokens:     int64(md.PromptTokenCount),
		OutputTokens:    int64(md.CandidatesTokenCount),
		TotalTokens:     int64(md.TotalTokenCount),
		CachedTokens:    int64(md.CachedContentTokenCount),
		ReasoningTokens: int64(md.ThoughtsTokenCount),
	}
}
