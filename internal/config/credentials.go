package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// CredentialEnv returns the variable that holds the API key for a
// generation provider or cloud speech engine.
func CredentialEnv(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case EngineElevenLabs:
		return "ELEVENLABS_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Credentials maps credential variable names to values.
type Credentials map[string]string

// Get returns the key for provider, or "".
func (c Credentials) Get(provider string) string {
	return strings.TrimSpace(c[CredentialEnv(provider)])
}

var credentialVars = []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ELEVENLABS_API_KEY"}

// LoadCredentials reads envFile (KEY=value lines) and lets process
// environment variables take precedence. A missing file is not an error.
func LoadCredentials(envFile string) (Credentials, error) {
	creds := Credentials{}
	if envFile != "" {
		fileVals, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return creds, fmt.Errorf("read credentials: %w", err)
		}
		for k, v := range fileVals {
			creds[k] = v
		}
	}
	for _, name := range credentialVars {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			creds[name] = v
		}
	}
	return creds, nil
}

// SaveCredential stores key for provider in envFile, keeping any other
// entries already there.
func SaveCredential(envFile, provider, key string) error {
	vals, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read credentials: %w", err)
		}
		vals = map[string]string{}
	}
	vals[CredentialEnv(provider)] = strings.TrimSpace(key)

	if err := os.MkdirAll(filepath.Dir(envFile), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := godotenv.Write(vals, envFile); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return os.Chmod(envFile, 0o600)
}
