package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestGeminiGenerateMapsRoles(t *testing.T) {
	var got struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		SystemInstruction *struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"xin chào"}]}}],
			"usageMetadata":{"promptTokenCount":5,"candidatesTokenCount":2,"totalTokenCount":7}}`)
	}))
	defer srv.Close()

	c, err := NewGemini(context.Background(), "test-key", srv.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	turns := []Turn{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "say hi in vietnamese"},
	}
	text, usage, err := c.Generate(context.Background(), "gemini-test", "be brief", turns)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "xin chào" {
		t.Fatalf("text = %q", text)
	}
	if usage.TotalTokens != 7 {
		t.Fatalf("usage = %+v", usage)
	}
	wantRoles := []string{"user", "model", "user"}
	if len(got.Contents) != len(wantRoles) {
		t.Fatalf("contents = %+v", got.Contents)
	}
	for i, role := range wantRoles {
		if got.Contents[i].Role != role {
			t.Fatalf("content %d role = %q want %q", i, got.Contents[i].Role, role)
		}
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("system instruction missing: %+v", got.SystemInstruction)
	}
}

func TestGeminiInvalidKeyIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	c, err := NewGemini(context.Background(), "bad-key", srv.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, _, err = c.Generate(context.Background(), "gemini-test", "", []Turn{{Role: RoleUser, Content: "x"}})
	if !IsAuth(err) {
		t.Fatalf("expected auth error, got %T %v", err, err)
	}
}
