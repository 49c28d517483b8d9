package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeText struct {
	key    string
	turns  []Turn
	models []string
}

func (f *fakeText) Generate(_ context.Context, model, _ string, turns []Turn) (string, TokenUsage, error) {
	f.turns = turns
	return "reply from " + model, TokenUsage{}, nil
}

func (f *fakeText) ListModels(context.Context) ([]string, error) {
	if f.key != "good" {
		return nil, &AuthError{Provider: "fake", StatusCode: 401, Err: errors.New("bad key")}
	}
	return f.models, nil
}

func TestWindowKeepsLastTurns(t *testing.T) {
	var history []Turn
	for i := 0; i < 14; i++ {
		history = append(history, Turn{Role: RoleUser, Content: fmt.Sprint(i)})
	}
	got := Window(history, HistoryWindow)
	if len(got) != HistoryWindow {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Content != "4" || got[len(got)-1].Content != "13" {
		t.Fatalf("window = %v", got)
	}
	got[0].Content = "changed"
	if history[4].Content != "4" {
		t.Fatalf("window must not alias history")
	}
	if len(Window(history[:3], HistoryWindow)) != 3 {
		t.Fatalf("short history should be returned whole")
	}
	if Window(history, 0) != nil {
		t.Fatalf("zero window should be empty")
	}
}

func TestGatewayDefaults(t *testing.T) {
	g := NewGateway("", "", "", "")
	if g.Provider() != ProviderGemini {
		t.Fatalf("provider = %q", g.Provider())
	}
	if g.Model() != "gemini-2.0-flash" {
		t.Fatalf("model = %q", g.Model())
	}
	if g.HasCredential() {
		t.Fatalf("no credential expected")
	}
}

func TestSnapshotIsDetachedFromGateway(t *testing.T) {
	var built []string
	factory := func(_ context.Context, provider, key, _ string) (TextClient, error) {
		built = append(built, key)
		return &fakeText{key: key}, nil
	}
	g := NewGateway(ProviderGemini, "first", "m1", "", WithClientFactory(factory))
	snap := g.Snapshot()

	if prev := g.SetAPIKey("second"); prev != "first" {
		t.Fatalf("prev = %q", prev)
	}
	g.SetModel("m2")

	text, _, err := snap.Generate(context.Background(), "", []Turn{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "reply from m1" {
		t.Fatalf("text = %q", text)
	}
	if len(built) != 1 || built[0] != "first" {
		t.Fatalf("built with %v", built)
	}
}

func TestSnapshotWithoutCredential(t *testing.T) {
	g := NewGateway(ProviderOpenAI, "", "", "")
	_, err := g.Snapshot().ListModels(context.Background())
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if !IsAuth(err) {
		t.Fatalf("missing credential should count as auth failure")
	}
}

func TestSetModelIgnoresBlank(t *testing.T) {
	g := NewGateway(ProviderGemini, "k", "m1", "")
	g.SetModel("  ")
	if g.Model() != "m1" {
		t.Fatalf("model = %q", g.Model())
	}
}

func TestNewTextClientUnknownProvider(t *testing.T) {
	if _, err := NewTextClient(context.Background(), "nope", "k", ""); err == nil {
		t.Fatalf("expected error")
	}
}
