package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ErrNoCredential is returned when a client is built without an API key.
var ErrNoCredential = errors.New("API key not configured")

// AuthError reports a credential the provider rejected.
type AuthError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected the API key (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError reports a network or API failure other than a rejected
// credential.
type TransportError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d): %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuth reports whether err is a missing or rejected credential.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.Is(err, ErrNoCredential) || errors.As(err, &ae)
}

// classify maps SDK errors onto AuthError or TransportError. Context
// cancellation passes through untouched.
func classify(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrNoCredential) {
		return err
	}
	status, keyRejected := statusOf(err)
	if keyRejected || status == http.StatusUnauthorized || status == http.StatusForbidden {
		return &AuthError{Provider: provider, StatusCode: status, Err: err}
	}
	return &TransportError{Provider: provider, Op: op, StatusCode: status, Err: err}
}

func statusOf(err error) (int, bool) {
	var oe *openai.Error
	if errors.As(err, &oe) {
		return oe.StatusCode, false
	}
	var ge genai.APIError
	if errors.As(err, &ge) {
		// The Gemini API answers a malformed key with 400 INVALID_ARGUMENT.
		return ge.Code, ge.Code == http.StatusBadRequest && strings.Contains(ge.Message, "API key")
	}
	var ee *ElevenLabsAPIError
	if errors.As(err, &ee) {
		return ee.StatusCode, false
	}
	return 0, false
}
