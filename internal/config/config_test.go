package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aidesk/internal/speech"
)

func TestMergePrecedence(t *testing.T) {
	file := Default()
	file.Voice = "file-voice"
	file.Model = "file-model"

	env := Overrides{}
	env.Voice = strPtr("env-voice")
	env.Model = strPtr("env-model")

	flags := Overrides{}
	flags.Voice = strPtr("flag-voice")

	cfg := Merge(file, env, flags, Credentials{"GEMINI_API_KEY": "g-key"})
	if cfg.Voice != "flag-voice" {
		t.Fatalf("voice precedence wrong: %s", cfg.Voice)
	}
	if cfg.Model != "env-model" {
		t.Fatalf("model precedence wrong: %s", cfg.Model)
	}
	if cfg.APIKey != "g-key" {
		t.Fatalf("apikey not set")
	}
}

func TestMergePicksKeyForProvider(t *testing.T) {
	creds := Credentials{"GEMINI_API_KEY": "g-key", "OPENAI_API_KEY": "o-key"}
	cfg := Merge(Default(), Overrides{Provider: strPtr("OpenAI")}, Overrides{}, creds)
	if cfg.Provider != "openai" || cfg.APIKey != "o-key" {
		t.Fatalf("provider %q key %q", cfg.Provider, cfg.APIKey)
	}
}

func TestNormalizeFallsBackToDefaults(t *testing.T) {
	cfg := Config{Rate: 50, ChunkSize: -3, PauseSeconds: -1}
	cfg.Normalize()
	if cfg.Rate != speech.DefaultRate || cfg.ChunkSize != speech.DefaultChunkSize || cfg.PauseSeconds != speech.DefaultPause {
		t.Fatalf("normalize: %+v", cfg)
	}
	if cfg.Provider != "gemini" || cfg.SpeechEngine != EngineCommand {
		t.Fatalf("normalize names: %+v", cfg)
	}
	cfg = Config{Rate: 300, ChunkSize: 80, PauseSeconds: 0}
	cfg.Normalize()
	if cfg.Rate != 300 || cfg.ChunkSize != 80 || cfg.PauseSeconds != 0 {
		t.Fatalf("valid values changed: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.Provider = "bard"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected provider error")
	}
	cfg = Default()
	cfg.SpeechEngine = "pyttsx"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected engine error")
	}
}

func TestValidateForGenerationRequiresAPIKey(t *testing.T) {
	cfg := Default()
	err := ValidateForGeneration(cfg)
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected error naming GEMINI_API_KEY, got %v", err)
	}
	cfg.APIKey = "g-key"
	if err := ValidateForGeneration(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateForCloudSpeech(t *testing.T) {
	cfg := Default()
	if err := ValidateForCloudSpeech(cfg); err != nil {
		t.Fatalf("command engine needs no key: %v", err)
	}
	cfg.SpeechEngine = EngineElevenLabs
	if err := ValidateForCloudSpeech(cfg); err == nil {
		t.Fatalf("expected missing ELEVENLABS_API_KEY")
	}
	cfg.Credentials = Credentials{"ELEVENLABS_API_KEY": "el"}
	if err := ValidateForCloudSpeech(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AIDESK_VOICE", "env-voice")
	t.Setenv("AIDESK_DEBUG", "1")
	t.Setenv("AIDESK_RATE", "150")
	t.Setenv("AIDESK_CHUNKING", "off")
	t.Setenv("AIDESK_PAUSE", "not-a-number")
	ov := FromEnv()
	if ov.Voice == nil || *ov.Voice != "env-voice" {
		t.Fatalf("voice not read from env")
	}
	if ov.Debug == nil || *ov.Debug != true {
		t.Fatalf("debug not parsed as true")
	}
	if ov.Rate == nil || *ov.Rate != 150 {
		t.Fatalf("rate not parsed")
	}
	if ov.Chunking == nil || *ov.Chunking {
		t.Fatalf("chunking not parsed as false")
	}
	if ov.PauseSeconds != nil {
		t.Fatalf("bad pause should be ignored")
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Rate != speech.DefaultRate || !cfg.Chunking {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFileKeepsDefaultsForUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"provider":"openai","rate":120,"chunking":false}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Rate != 120 || cfg.Chunking {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.ChunkSize != speech.DefaultChunkSize {
		t.Fatalf("default chunk size lost: %d", cfg.ChunkSize)
	}
}

func strPtr(s string) *string { return &s }
