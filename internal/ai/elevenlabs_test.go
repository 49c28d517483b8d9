package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewElevenLabsRequiresKey(t *testing.T) {
	if _, err := NewElevenLabs(""); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestElevenLabsTTS(t *testing.T) {
	var body struct {
		Text          string                  `json:"text"`
		ModelID       string                  `json:"model_id"`
		VoiceSettings ElevenLabsVoiceSettings `json:"voice_settings"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/voice-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("output_format") != elevenLabsDefaultOutputFormat {
			t.Errorf("output_format = %q", r.URL.Query().Get("output_format"))
		}
		if r.Header.Get("xi-api-key") != "el-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	c, err := NewElevenLabs("el-key", WithElevenLabsBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	if err := c.TTS(context.Background(), "eleven_multilingual_v2", "voice-1", "hello", 2, &buf); err != nil {
		t.Fatalf("tts: %v", err)
	}
	if buf.String() != "mp3" {
		t.Fatalf("audio = %q", buf.String())
	}
	if body.Text != "hello" || body.ModelID != "eleven_multilingual_v2" {
		t.Fatalf("body = %+v", body)
	}
	if body.VoiceSettings.Speed != 1.2 {
		t.Fatalf("speed = %v, want clamped 1.2", body.VoiceSettings.Speed)
	}
}

func TestElevenLabsListVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voices" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"voices":[{"voice_id":"v1","name":"Rachel","category":"premade","labels":{"gender":"female","accent":"american"}}]}`)
	}))
	defer srv.Close()

	c, _ := NewElevenLabs("el-key", WithElevenLabsBaseURL(srv.URL))
	voices, err := c.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(voices) != 1 || voices[0].VoiceID != "v1" || voices[0].Labels["gender"] != "female" {
		t.Fatalf("voices = %+v", voices)
	}
}

func TestElevenLabsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":{"status":"invalid_api_key"}}`)
	}))
	defer srv.Close()

	c, _ := NewElevenLabs("bad", WithElevenLabsBaseURL(srv.URL))
	_, err := c.ListVoices(context.Background())
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %T %v", err, err)
	}
	var apiErr *ElevenLabsAPIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected wrapped ElevenLabsAPIError, got %v", err)
	}
}
