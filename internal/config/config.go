package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"aidesk/internal/speech"
)

// Speech engine names.
const (
	EngineCommand    = "command"
	EngineOpenAI     = "openai"
	EngineElevenLabs = "elevenlabs"
)

// Config holds resolved configuration values after merging file, env, and flags.
type Config struct {
	Provider     string  `json:"provider,omitempty"`
	Model        string  `json:"model,omitempty"`
	BaseURL      string  `json:"baseURL,omitempty"`
	SpeechEngine string  `json:"speechEngine,omitempty"`
	SpeechBinary string  `json:"speechBinary,omitempty"`
	Voice        string  `json:"voice,omitempty"`
	Rate         int     `json:"rate,omitempty"`
	Chunking     bool    `json:"chunking"`
	ChunkSize    int     `json:"chunkSize,omitempty"`
	PauseSeconds float64 `json:"pauseSeconds,omitempty"`
	TTSModel     string  `json:"ttsModel,omitempty"`
	Player       string  `json:"player,omitempty"`
	TestPhrase   string  `json:"testPhrase,omitempty"`
	Debug        bool    `json:"debug,omitempty"`

	// Not persisted to the JSON file; sourced from env or the .env file.
	APIKey      string      `json:"-"`
	Credentials Credentials `json:"-"`
}

// Overrides represents optional overrides from env or flags.
// Only non-nil pointers are applied during merge.
type Overrides struct {
	Provider     *string
	Model        *string
	BaseURL      *string
	SpeechEngine *string
	SpeechBinary *string
	Voice        *string
	Rate         *int
	Chunking     *bool
	ChunkSize    *int
	PauseSeconds *float64
	TTSModel     *string
	Player       *string
	Debug        *bool
}

func Default() Config {
	return Config{
		Provider:     "gemini",
		SpeechEngine: EngineCommand,
		Rate:         speech.DefaultRate,
		Chunking:     true,
		ChunkSize:    speech.DefaultChunkSize,
		PauseSeconds: speech.DefaultPause,
		TTSModel:     "gpt-4o-mini-tts",
		TestPhrase:   "Xin chào, đây là bài kiểm tra giọng nói.",
	}
}

// LoadFile reads a JSON config. If file not found, returns defaults and no error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// FromEnv reads AIDESK_* variables. Unparseable numbers and bools are
// ignored.
func FromEnv() Overrides {
	var ov Overrides
	str := func(name string, dst **string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = &v
		}
	}
	str("AIDESK_PROVIDER", &ov.Provider)
	str("AIDESK_MODEL", &ov.Model)
	str("AIDESK_BASE_URL", &ov.BaseURL)
	str("AIDESK_SPEECH_ENGINE", &ov.SpeechEngine)
	str("AIDESK_SPEECH_BINARY", &ov.SpeechBinary)
	str("AIDESK_VOICE", &ov.Voice)
	str("AIDESK_TTS_MODEL", &ov.TTSModel)
	str("AIDESK_PLAYER", &ov.Player)

	if v, ok := os.LookupEnv("AIDESK_RATE"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			ov.Rate = &n
		}
	}
	if v, ok := os.LookupEnv("AIDESK_CHUNK_SIZE"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			ov.ChunkSize = &n
		}
	}
	if v, ok := os.LookupEnv("AIDESK_PAUSE"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			ov.PauseSeconds = &f
		}
	}
	if v, ok := os.LookupEnv("AIDESK_CHUNKING"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Chunking = &b
		}
	}
	if v, ok := os.LookupEnv("AIDESK_DEBUG"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Debug = &b
		}
	}
	return ov
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return false, fmt.Errorf("empty bool")
	}
	if s == "1" || s == "t" || s == "true" || s == "y" || s == "yes" || s == "on" {
		return true, nil
	}
	if s == "0" || s == "f" || s == "false" || s == "n" || s == "no" || s == "off" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Merge applies overrides in order: file -> env -> flags, then attaches
// creds and the generation key for the resolved provider.
func Merge(fileCfg Config, env Overrides, flags Overrides, creds Credentials) Config {
	cfg := fileCfg

	apply := func(ov Overrides) {
		if ov.Provider != nil {
			cfg.Provider = *ov.Provider
		}
		if ov.Model != nil {
			cfg.Model = *ov.Model
		}
		if ov.BaseURL != nil {
			cfg.BaseURL = *ov.BaseURL
		}
		if ov.SpeechEngine != nil {
			cfg.SpeechEngine = *ov.SpeechEngine
		}
		if ov.SpeechBinary != nil {
			cfg.SpeechBinary = *ov.SpeechBinary
		}
		if ov.Voice != nil {
			cfg.Voice = *ov.Voice
		}
		if ov.Rate != nil {
			cfg.Rate = *ov.Rate
		}
		if ov.Chunking != nil {
			cfg.Chunking = *ov.Chunking
		}
		if ov.ChunkSize != nil {
			cfg.ChunkSize = *ov.ChunkSize
		}
		if ov.PauseSeconds != nil {
			cfg.PauseSeconds = *ov.PauseSeconds
		}
		if ov.TTSModel != nil {
			cfg.TTSModel = *ov.TTSModel
		}
		if ov.Player != nil {
			cfg.Player = *ov.Player
		}
		if ov.Debug != nil {
			cfg.Debug = *ov.Debug
		}
	}

	apply(env)
	apply(flags)

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.SpeechEngine = strings.ToLower(strings.TrimSpace(cfg.SpeechEngine))
	cfg.Normalize()
	cfg.Credentials = creds
	cfg.APIKey = creds.Get(cfg.Provider)
	return cfg
}

// Normalize replaces out-of-range speech options with their defaults.
func (c *Config) Normalize() {
	if c.Provider == "" {
		c.Provider = "gemini"
	}
	if c.SpeechEngine == "" {
		c.SpeechEngine = EngineCommand
	}
	if c.Rate < speech.MinRate || c.Rate > speech.MaxRate {
		c.Rate = speech.DefaultRate
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = speech.DefaultChunkSize
	}
	if c.PauseSeconds < 0 || math.IsNaN(c.PauseSeconds) || math.IsInf(c.PauseSeconds, 0) {
		c.PauseSeconds = speech.DefaultPause
	}
}

// Validation helpers
func Validate(cfg Config) error {
	switch cfg.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown provider %q (want gemini or openai)", cfg.Provider)
	}
	switch cfg.SpeechEngine {
	case EngineCommand, EngineOpenAI, EngineElevenLabs:
	default:
		return fmt.Errorf("unknown speech engine %q (want command, openai or elevenlabs)", cfg.SpeechEngine)
	}
	return nil
}

func ValidateForGeneration(cfg Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("%s is required for generation", CredentialEnv(cfg.Provider))
	}
	return nil
}

func ValidateForCloudSpeech(cfg Config) error {
	if cfg.SpeechEngine == EngineCommand {
		return nil
	}
	if cfg.Credentials.Get(cfg.SpeechEngine) == "" {
		return fmt.Errorf("%s is required for the %s speech engine", CredentialEnv(cfg.SpeechEngine), cfg.SpeechEngine)
	}
	if cfg.SpeechEngine == EngineOpenAI && cfg.TTSModel == "" {
		return errors.New("tts model is required")
	}
	return nil
}
