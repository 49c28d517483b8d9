package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	elevenLabsDefaultBaseURL      = "https://api.elevenlabs.io"
	elevenLabsDefaultOutputFormat = "mp3_44100_128"

	elevenLabsMinSpeed = 0.7
	elevenLabsMaxSpeed = 1.2
)

// ElevenLabs talks to the ElevenLabs REST API. Only the two endpoints the
// speech engine needs are covered.
type ElevenLabs struct {
	key  string
	base string
	hc   *http.Client
}

// ElevenLabsOption adjusts an ElevenLabs client at construction time.
type ElevenLabsOption func(*ElevenLabs)

// WithElevenLabsBaseURL points the client at another host, typically a test
// server. An empty value keeps the default.
func WithElevenLabsBaseURL(base string) ElevenLabsOption {
	return func(e *ElevenLabs) {
		if base != "" {
			e.base = strings.TrimRight(base, "/")
		}
	}
}

// WithElevenLabsHTTPClient replaces the HTTP client. nil is ignored.
func WithElevenLabsHTTPClient(hc *http.Client) ElevenLabsOption {
	return func(e *ElevenLabs) {
		if hc != nil {
			e.hc = hc
		}
	}
}

// NewElevenLabs returns a client authenticated with key.
func NewElevenLabs(key string, opts ...ElevenLabsOption) (*ElevenLabs, error) {
	if key == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY: %w", ErrNoCredential)
	}
	e := &ElevenLabs{
		key:  key,
		base: elevenLabsDefaultBaseURL,
		hc:   &http.Client{Timeout: 2 * time.Minute},
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// ElevenLabsVoiceSettings is the voice_settings object of a synthesis
// request.
type ElevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability,omitempty"`
	SimilarityBoost float64 `json:"similarity_boost,omitempty"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
	Speed           float64 `json:"speed,omitempty"`
}

type elevenLabsSynthesis struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id,omitempty"`
	VoiceSettings ElevenLabsVoiceSettings `json:"voice_settings"`
}

// ElevenLabsVoice is one entry of the account's voice library.
type ElevenLabsVoice struct {
	VoiceID  string            `json:"voice_id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Labels   map[string]string `json:"labels"`
}

// ElevenLabsAPIError is returned for any non-2xx response.
type ElevenLabsAPIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ElevenLabsAPIError) Error() string {
	if e.Body == "" {
		return "elevenlabs api error: " + e.Status
	}
	return "elevenlabs api error: " + e.Status + ": " + e.Body
}

// TTS renders text with the given voice and streams MP3 audio into w. A
// positive speed is clamped to the range the API accepts; zero leaves the
// voice's own pace.
func (e *ElevenLabs) TTS(ctx context.Context, model, voice, text string, speed float64, w io.Writer) error {
	if strings.TrimSpace(voice) == "" {
		return classify("elevenlabs", "speech", fmt.Errorf("voice id is required"))
	}
	if strings.TrimSpace(text) == "" {
		return classify("elevenlabs", "speech", fmt.Errorf("text is required"))
	}
	payload := elevenLabsSynthesis{
		Text:    text,
		ModelID: model,
		VoiceSettings: ElevenLabsVoiceSettings{
			SimilarityBoost: 0.75,
			UseSpeakerBoost: true,
		},
	}
	if speed > 0 {
		payload.VoiceSettings.Speed = min(max(speed, elevenLabsMinSpeed), elevenLabsMaxSpeed)
	}
	q := url.Values{"output_format": {elevenLabsDefaultOutputFormat}}

	body, err := e.do(ctx, http.MethodPost, "/v1/text-to-speech/"+url.PathEscape(voice), q, "audio/mpeg", payload)
	if err != nil {
		return classify("elevenlabs", "speech", err)
	}
	defer body.Close()
	if _, err := io.Copy(w, body); err != nil {
		return classify("elevenlabs", "speech", err)
	}
	return nil
}

// ListVoices returns every voice the account can use.
func (e *ElevenLabs) ListVoices(ctx context.Context) ([]ElevenLabsVoice, error) {
	body, err := e.do(ctx, http.MethodGet, "/v1/voices", nil, "application/json", nil)
	if err != nil {
		return nil, classify("elevenlabs", "list voices", err)
	}
	defer body.Close()
	var resp struct {
		Voices []ElevenLabsVoice `json:"voices"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode elevenlabs voices: %w", err)
	}
	return resp.Voices, nil
}

// do sends one authenticated request. payload, when non-nil, is sent as
// JSON. The caller owns the returned body.
func (e *ElevenLabs) do(ctx context.Context, method, path string, q url.Values, accept string, payload any) (io.ReadCloser, error) {
	u, err := url.Parse(e.base + path)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs url: %w", err)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode elevenlabs request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.key)
	req.Header.Set("Accept", accept)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ElevenLabsAPIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(msg)),
		}
	}
	return resp.Body, nil
}
