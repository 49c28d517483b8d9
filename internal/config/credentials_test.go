package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCredentialEnv(t *testing.T) {
	cases := map[string]string{
		"gemini":     "GEMINI_API_KEY",
		"":           "GEMINI_API_KEY",
		"openai":     "OPENAI_API_KEY",
		"elevenlabs": "ELEVENLABS_API_KEY",
	}
	for provider, want := range cases {
		if got := CredentialEnv(provider); got != want {
			t.Fatalf("CredentialEnv(%q) = %q want %q", provider, got, want)
		}
	}
}

func TestSaveCredentialKeepsOtherEntries(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "sub", ".env")
	if err := SaveCredential(envFile, "openai", "o-key"); err != nil {
		t.Fatalf("save openai: %v", err)
	}
	if err := SaveCredential(envFile, "gemini", "  g-key \n"); err != nil {
		t.Fatalf("save gemini: %v", err)
	}
	b, err := os.ReadFile(envFile)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `GEMINI_API_KEY="g-key"`) || !strings.Contains(string(b), `OPENAI_API_KEY="o-key"`) {
		t.Fatalf("unexpected file contents:\n%s", b)
	}
	fi, err := os.Stat(envFile)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v", fi.Mode().Perm())
	}
}

func TestLoadCredentialsEnvWins(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("GEMINI_API_KEY=file-key\nOPENAI_API_KEY=file-openai\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")

	creds, err := LoadCredentials(envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if creds.Get("gemini") != "env-key" {
		t.Fatalf("gemini = %q", creds.Get("gemini"))
	}
	if creds.Get("openai") != "file-openai" {
		t.Fatalf("empty env var should not hide the file value, got %q", creds.Get("openai"))
	}
	if creds.Get("elevenlabs") != "" {
		t.Fatalf("elevenlabs should be empty")
	}
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")
	creds, err := LoadCredentials(filepath.Join(t.TempDir(), "none.env"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(creds) != 0 {
		t.Fatalf("creds = %v", creds)
	}
}
