package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appDirName       = "aidesk"
	configFilename   = "config.json"
	envFilename      = ".env"
	logFilename      = "aidesk.log"
	speechDirName    = "speech"
	fallbackBaseDir  = ".aidesk"
	speechFileLayout = "20060102-150405.000000000"
)

// Builder constructs the application's file locations rooted at Base.
type Builder struct {
	Base string
}

// New returns a Builder rooted at base. An empty base resolves to the
// user config directory (for example ~/.config/aidesk).
func New(base string) *Builder {
	if base == "" {
		base = DefaultBase()
	}
	return &Builder{Base: base}
}

// DefaultBase returns <user config dir>/aidesk, or ./.aidesk when the
// user config directory is unknown.
func DefaultBase() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return fallbackBaseDir
	}
	return filepath.Join(dir, appDirName)
}

func (b *Builder) ConfigFile() string { return filepath.Join(b.Base, configFilename) }
func (b *Builder) EnvFile() string    { return filepath.Join(b.Base, envFilename) }
func (b *Builder) LogFile() string    { return filepath.Join(b.Base, logFilename) }
func (b *Builder) SpeechDir() string  { return filepath.Join(b.Base, speechDirName) }

// SpeechFile returns a fresh audio file name under SpeechDir for t.
func (b *Builder) SpeechFile(t time.Time) string {
	return filepath.Join(b.SpeechDir(), fmt.Sprintf("%s.mp3", t.UTC().Format(speechFileLayout)))
}

// EnsureBase creates the base directory if it does not exist.
func (b *Builder) EnsureBase() error {
	return os.MkdirAll(b.Base, 0o700)
}

// EnsureSpeechDir creates the speech cache directory if it does not exist.
func (b *Builder) EnsureSpeechDir() error {
	return os.MkdirAll(b.SpeechDir(), 0o755)
}
