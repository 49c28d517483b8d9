package speech

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// CommandEngine speaks through a local synthesizer binary: espeak-ng on
// Linux, say on macOS. Text goes in on stdin.
type CommandEngine struct {
	binary string
	kind   string

	output func(ctx context.Context, name string, args ...string) ([]byte, error)
	proc   tracked
}

var lookPath = exec.LookPath

// NewCommandEngine resolves binary on PATH. An empty binary picks the
// platform default.
func NewCommandEngine(binary string) (*CommandEngine, error) {
	candidates := []string{binary}
	if binary == "" {
		if runtime.GOOS == "darwin" {
			candidates = []string{"say"}
		} else {
			candidates = []string{"espeak-ng", "espeak"}
		}
	}
	var lastErr error
	for _, c := range candidates {
		path, err := lookPath(c)
		if err != nil {
			lastErr = err
			continue
		}
		return &CommandEngine{
			binary: path,
			kind:   engineKind(path),
			output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
				return exec.CommandContext(ctx, name, args...).Output()
			},
		}, nil
	}
	return nil, &EngineError{Engine: "command", Err: fmt.Errorf("no synthesizer found (%s): %w", strings.Join(candidates, ", "), lastErr)}
}

func engineKind(path string) string {
	if filepath.Base(path) == "say" {
		return "say"
	}
	return "espeak"
}

func (e *CommandEngine) Name() string { return filepath.Base(e.binary) }

// Voices lists the synthesizer's installed voices.
func (e *CommandEngine) Voices(ctx context.Context) ([]Voice, error) {
	var args []string
	if e.kind == "say" {
		args = []string{"-v", "?"}
	} else {
		args = []string{"--voices"}
	}
	out, err := e.output(ctx, e.binary, args...)
	if err != nil {
		return nil, &EngineError{Engine: e.Name(), Err: fmt.Errorf("list voices: %w", err)}
	}
	if e.kind == "say" {
		return parseSayVoices(string(out)), nil
	}
	return parseEspeakVoices(string(out)), nil
}

func (e *CommandEngine) args(voiceID string, rate int) []string {
	var args []string
	if e.kind == "say" {
		if voiceID != "" {
			args = append(args, "-v", voiceID)
		}
		if rate > 0 {
			args = append(args, "-r", strconv.Itoa(rate))
		}
		return args
	}
	if voiceID != "" {
		args = append(args, "-v", voiceID)
	}
	if rate > 0 {
		args = append(args, "-s", strconv.Itoa(rate))
	}
	return args
}

// Speak runs the synthesizer and waits for it. A Stop while speaking ends
// the utterance early and is not reported as an error.
func (e *CommandEngine) Speak(ctx context.Context, text, voiceID string, rate int) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.proc.reset()
	cmd := exec.Command(e.binary, e.args(voiceID, rate)...)
	cmd.Stdin = strings.NewReader(text)
	halted, err := e.proc.run(cmd)
	if err != nil && !halted {
		return &EngineError{Engine: e.Name(), Err: err}
	}
	return nil
}

// Stop kills the utterance in progress, if any.
func (e *CommandEngine) Stop() error {
	if err := e.proc.kill(); err != nil {
		return &EngineError{Engine: e.Name(), Err: err}
	}
	return nil
}

// parseEspeakVoices reads `espeak-ng --voices` output:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US     (en 10)
func parseEspeakVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{
			ID:     fields[1],
			Name:   strings.ReplaceAll(fields[3], "_", " "),
			Locale: fields[1],
		})
	}
	return voices
}

var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}_[A-Za-z0-9]+)\s+#`)

// parseSayVoices reads `say -v ?` output:
//
//	Alex                en_US    # Most people recognize me by my voice.
func parseSayVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		m := sayVoiceLine.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, Voice{ID: name, Name: name, Locale: m[2]})
	}
	return voices
}
