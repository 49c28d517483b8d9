package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"aidesk/internal/ai"
	"aidesk/internal/speech"
	"aidesk/internal/task"
)

const (
	slotKeyTest = "settings.key"
	slotModels  = "settings.models"
)

// Settings edits the credential, the model and the voice.
type Settings struct {
	runner     *task.Runner
	gateway    *ai.Gateway
	speaker    *Speaker
	catalog    *speech.Catalog
	shell      Shell
	save       func(provider, key string) error
	testPhrase string

	Key Field

	showKey    bool
	testing    bool
	refreshing bool

	models []string
	model  string

	lang   speech.Language
	gender speech.Gender
	voice  string
	rate   int
}

// NewSettings returns a Settings screen preselecting the gateway model
// and the speaker voice.
func NewSettings(r *task.Runner, gw *ai.Gateway, sp *Speaker, cat *speech.Catalog, sh Shell, save func(provider, key string) error, testPhrase string) *Settings {
	s := &Settings{
		runner:     r,
		gateway:    gw,
		speaker:    sp,
		catalog:    cat,
		shell:      sh,
		save:       save,
		testPhrase: testPhrase,
		models:     ai.DefaultModels(gw.Provider()),
		model:      gw.Model(),
		rate:       sp.Rate(),
	}
	if s.testPhrase == "" {
		s.testPhrase = "Hello, this is a voice test."
	}
	if !slices.Contains(s.models, s.model) {
		s.models = append([]string{s.model}, s.models...)
	}
	s.Key.Set(gw.APIKey())

	v, ok := cat.ByID(sp.VoiceID())
	if !ok {
		v, ok = cat.First()
	}
	if ok {
		s.lang, s.gender, s.voice = v.Language, v.Gender, v.ID
	}
	return s
}

func (s *Settings) Testing() bool    { return s.testing }
func (s *Settings) Refreshing() bool { return s.refreshing }

// probing reports whether a key test or model refresh is running. Both
// read the gateway credential, which a key test swaps temporarily.
func (s *Settings) probing() bool { return s.testing || s.refreshing }
func (s *Settings) ShowKey() bool    { return s.showKey }

// ToggleShowKey switches between masked and plain key display.
func (s *Settings) ToggleShowKey() { s.showKey = !s.showKey }

// SaveKey persists the key and makes it the active credential.
func (s *Settings) SaveKey() error {
	key := strings.TrimSpace(s.Key.Value())
	if key == "" {
		return invalid(s.shell, "Enter an API key")
	}
	if s.save != nil {
		if err := s.save(s.gateway.Provider(), key); err != nil {
			s.shell.Notify(LevelError, "Error", fmt.Sprintf("Could not save API key: %v", err))
			s.shell.SetStatus("Saving API key failed", LevelError)
			return err
		}
	}
	s.gateway.SetAPIKey(key)
	s.shell.SetStatus("API key saved", LevelSuccess)
	return nil
}

// TestKey checks the entered key by listing models with it. The key is
// installed while the check runs and the previous one comes back unless
// the check succeeds.
func (s *Settings) TestKey() error {
	candidate := strings.TrimSpace(s.Key.Value())
	if candidate == "" {
		return invalid(s.shell, "Enter an API key")
	}
	if s.probing() {
		return task.ErrBusy
	}

	prev := s.gateway.SetAPIKey(candidate)
	snap := s.gateway.Snapshot()
	work := func(ctx context.Context, _ *task.Progress) ([]string, error) {
		return snap.ListModels(ctx)
	}
	_, err := task.Submit(s.runner, slotKeyTest, work, func(o task.Outcome[[]string]) {
		s.testing = false
		if !o.OK() {
			// Another save may have replaced the candidate meanwhile.
			if s.gateway.APIKey() == candidate {
				s.gateway.SetAPIKey(prev)
			}
		}
		switch o.State {
		case task.Completed:
			s.setModels(o.Value)
			s.shell.Notify(LevelSuccess, "Success", "The API key works")
			s.shell.SetStatus("API key is valid", LevelSuccess)
		case task.Cancelled:
			s.shell.SetStatus("Key test cancelled", LevelWarning)
		default:
			msg := fmt.Sprintf("API key test failed: %v", o.Err)
			if ai.IsAuth(o.Err) {
				msg = "The API key was rejected"
			}
			s.shell.Notify(LevelError, "Error", msg)
			s.shell.SetStatus("API key is invalid", LevelError)
		}
	})
	if err != nil {
		s.gateway.SetAPIKey(prev)
		return err
	}
	s.testing = true
	s.shell.SetStatus("Testing API key...", LevelBusy)
	return nil
}

// RefreshModels replaces the model list with the models visible to the
// current credential.
func (s *Settings) RefreshModels() error {
	if !s.gateway.HasCredential() {
		return invalid(s.shell, "Configure an API key first")
	}
	if s.probing() {
		return task.ErrBusy
	}
	snap := s.gateway.Snapshot()
	work := func(ctx context.Context, _ *task.Progress) ([]string, error) {
		return snap.ListModels(ctx)
	}
	_, err := task.Submit(s.runner, slotModels, work, func(o task.Outcome[[]string]) {
		s.refreshing = false
		switch o.State {
		case task.Completed:
			s.setModels(o.Value)
			s.shell.SetStatus(fmt.Sprintf("Found %d models", len(s.models)), LevelSuccess)
		case task.Cancelled:
			s.shell.SetStatus("Cancelled", LevelWarning)
		default:
			s.shell.Notify(LevelError, "Error", fmt.Sprintf("Could not list models: %v", o.Err))
			s.shell.SetStatus("Model refresh failed", LevelError)
		}
	})
	if err != nil {
		return err
	}
	s.refreshing = true
	s.shell.SetStatus("Loading models...", LevelBusy)
	return nil
}

func (s *Settings) setModels(models []string) {
	if len(models) == 0 {
		slog.Warn("provider returned no models", "provider", s.gateway.Provider())
		return
	}
	s.models = models
	if !slices.Contains(models, s.model) {
		s.model = models[0]
	}
}

// Models returns the selectable models.
func (s *Settings) Models() []string { return append([]string(nil), s.models...) }

// Model returns the highlighted model, which may differ from the
// applied one.
func (s *Settings) Model() string { return s.model }

// SelectModel highlights a model from the list.
func (s *Settings) SelectModel(name string) bool {
	if !slices.Contains(s.models, name) {
		return false
	}
	s.model = name
	return true
}

// ApplyModel makes the highlighted model the one used for generation.
func (s *Settings) ApplyModel() error {
	if s.model == "" {
		return invalid(s.shell, "Select a model")
	}
	s.gateway.SetModel(s.model)
	slog.Info("model selected", "provider", s.gateway.Provider(), "model", s.model)
	s.shell.SetStatus("Using model "+s.model, LevelSuccess)
	return nil
}

// Languages returns the languages that have voices.
func (s *Settings) Languages() []speech.Language {
	var out []speech.Language
	for _, l := range speech.Languages {
		if len(s.catalog.Genders(l)) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func (s *Settings) Language() speech.Language { return s.lang }
func (s *Settings) Gender() speech.Gender     { return s.gender }

// Genders returns the genders available for the selected language.
func (s *Settings) Genders() []speech.Gender { return s.catalog.Genders(s.lang) }

// Voices returns the voices of the selected language and gender.
func (s *Settings) Voices() []speech.Voice { return s.catalog.Voices(s.lang, s.gender) }

// SetLanguage selects a language and resets gender and voice to the
// first available ones.
func (s *Settings) SetLanguage(lang speech.Language) {
	s.lang = lang
	genders := s.catalog.Genders(lang)
	if len(genders) == 0 {
		s.gender, s.voice = "", ""
		return
	}
	s.SetGender(genders[0])
}

// SetGender selects a gender and resets the voice to the first one.
func (s *Settings) SetGender(g speech.Gender) {
	s.gender = g
	s.voice = ""
	if vs := s.catalog.Voices(s.lang, g); len(vs) > 0 {
		s.voice = vs[0].ID
	}
}

// SelectVoice highlights a voice of the current group.
func (s *Settings) SelectVoice(id string) bool {
	for _, v := range s.catalog.Voices(s.lang, s.gender) {
		if v.ID == id {
			s.voice = id
			return true
		}
	}
	return false
}

// Voice returns the highlighted voice.
func (s *Settings) Voice() (speech.Voice, bool) {
	if s.voice == "" {
		return speech.Voice{}, false
	}
	return s.catalog.ByID(s.voice)
}

func (s *Settings) Rate() int { return s.rate }

// SetRate sets the candidate rate, clamped to the supported range.
func (s *Settings) SetRate(rate int) {
	s.rate = min(max(rate, speech.MinRate), speech.MaxRate)
}

func (s *Settings) candidate() (speech.Voice, error) {
	v, ok := s.Voice()
	if !ok {
		return speech.Voice{}, invalid(s.shell, "Select a voice")
	}
	return v, nil
}

// TestVoice speaks the test phrase with the candidate voice and rate
// without applying them.
func (s *Settings) TestVoice() error {
	v, err := s.candidate()
	if err != nil {
		return err
	}
	return s.speaker.SpeakWith(s.testPhrase, v.ID, s.rate)
}

// ApplyVoice makes the candidate voice and rate the ones used for speech.
func (s *Settings) ApplyVoice() error {
	v, err := s.candidate()
	if err != nil {
		return err
	}
	s.speaker.SetVoice(v.ID, s.rate)
	slog.Info("voice selected", "voice", v.ID, "rate", s.rate)
	s.shell.SetStatus(fmt.Sprintf("Voice set to %s at %d", v.Name, s.rate), LevelSuccess)
	return nil
}
