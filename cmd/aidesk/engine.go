package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aidesk/internal/ai"
	cfgpkg "aidesk/internal/config"
	"aidesk/internal/paths"
	"aidesk/internal/speech"
)

const (
	elevenLabsDefaultModel = "eleven_multilingual_v2"
	voiceListTimeout       = 15 * time.Second
)

var newGateway = func(cfg cfgpkg.Config) *ai.Gateway {
	return ai.NewGateway(cfg.Provider, cfg.APIKey, cfg.Model, cfg.BaseURL)
}

var newSpeechEngine = func(cfg cfgpkg.Config, builder *paths.Builder) (speech.Engine, error) {
	if cfg.SpeechEngine == cfgpkg.EngineCommand {
		e, err := speech.NewCommandEngine(cfg.SpeechBinary)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	if err := cfgpkg.ValidateForCloudSpeech(cfg); err != nil {
		return nil, err
	}
	player, err := speech.DetectPlayer(cfg.Player)
	if err != nil {
		return nil, err
	}
	file := func() string { return builder.SpeechFile(time.Now()) }
	var opts []speech.SynthOption
	if cfg.Debug {
		opts = append(opts, speech.KeepAudio())
	}
	key := cfg.Credentials.Get(cfg.SpeechEngine)

	switch cfg.SpeechEngine {
	case cfgpkg.EngineOpenAI:
		client, err := ai.New(key, "")
		if err != nil {
			return nil, err
		}
		return speech.NewSynthEngine("openai", client, cfg.TTSModel, speech.OpenAIVoices, player, file, opts...), nil
	case cfgpkg.EngineElevenLabs:
		client, err := ai.NewElevenLabs(key)
		if err != nil {
			return nil, err
		}
		model := cfg.TTSModel
		if model == cfgpkg.Default().TTSModel {
			model = elevenLabsDefaultModel
		}
		return speech.NewSynthEngine("elevenlabs", client, model, speech.ElevenLabsVoices(client), player, file, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported speech engine: %s", cfg.SpeechEngine)
	}
}

// loadCatalog asks the engine for its voices and groups them. A failure
// leaves an empty catalog so the rest of the application still works.
func loadCatalog(ctx context.Context, e speech.Engine) *speech.Catalog {
	if e == nil {
		return speech.NewCatalog(nil, nil)
	}
	ctx, cancel := context.WithTimeout(ctx, voiceListTimeout)
	defer cancel()
	voices, err := e.Voices(ctx)
	if err != nil {
		slog.Warn("failed to list voices", "err", err)
	}
	cat := speech.NewCatalog(voices, nil)
	slog.Info("voices loaded", "count", cat.Len())
	return cat
}

// initialVoice prefers the configured voice and falls back to the first
// voice of the catalog.
func initialVoice(cfg cfgpkg.Config, cat *speech.Catalog) string {
	if cfg.Voice != "" {
		return cfg.Voice
	}
	if v, ok := cat.First(); ok {
		return v.ID
	}
	return ""
}
