package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"

	cfgpkg "aidesk/internal/config"
	"aidesk/internal/paths"
)

// set up slog logger according to level; defaults to info.
func setupLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if w == nil {
		w = os.Stderr
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// Common flags shared by every subcommand.
type commonFlags struct {
	home     string
	config   string
	logLevel string

	provider     stringFlag
	model        stringFlag
	baseURL      stringFlag
	speechEngine stringFlag
	speechBinary stringFlag
	voice        stringFlag
	rate         intFlag
	chunking     boolFlag
	chunkSize    intFlag
	pause        floatFlag
	ttsModel     stringFlag
	player       stringFlag
	debug        boolFlag
}

func addCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.home, "home", os.Getenv("AIDESK_HOME"), "Configuration directory; default: <user config dir>/aidesk")
	fs.StringVar(&cf.config, "config", "", "Path to config file; default: <home>/config.json")
	fs.StringVar(&cf.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.Var(&cf.provider, "provider", "Generation provider: gemini or openai")
	fs.Var(&cf.model, "model", "Generation model")
	fs.Var(&cf.baseURL, "base-url", "Base URL of an OpenAI-compatible endpoint")
	fs.Var(&cf.speechEngine, "speech-engine", "Speech engine: command, openai or elevenlabs")
	fs.Var(&cf.speechBinary, "speech-binary", "Synthesizer binary for the command engine")
	fs.Var(&cf.voice, "voice", "Voice id")
	fs.Var(&cf.rate, "rate", "Speech rate in words per minute (100-300)")
	fs.Var(&cf.chunking, "chunking", "Speak long text in chunks")
	fs.Var(&cf.chunkSize, "chunk-size", "Maximum characters per chunk")
	fs.Var(&cf.pause, "pause", "Pause between chunks in seconds")
	fs.Var(&cf.ttsModel, "tts-model", "Model for cloud speech engines")
	fs.Var(&cf.player, "player", "Audio player command for cloud speech engines")
	fs.Var(&cf.debug, "debug", "Keep rendered audio and log at debug level")
}

func (cf *commonFlags) overrides() cfgpkg.Overrides {
	var ov cfgpkg.Overrides
	str := func(f *stringFlag, dst **string) {
		if f.set {
			*dst = &f.v
		}
	}
	str(&cf.provider, &ov.Provider)
	str(&cf.model, &ov.Model)
	str(&cf.baseURL, &ov.BaseURL)
	str(&cf.speechEngine, &ov.SpeechEngine)
	str(&cf.speechBinary, &ov.SpeechBinary)
	str(&cf.voice, &ov.Voice)
	str(&cf.ttsModel, &ov.TTSModel)
	str(&cf.player, &ov.Player)
	if cf.rate.set {
		ov.Rate = &cf.rate.v
	}
	if cf.chunkSize.set {
		ov.ChunkSize = &cf.chunkSize.v
	}
	if cf.pause.set {
		ov.PauseSeconds = &cf.pause.v
	}
	if cf.chunking.set {
		ov.Chunking = &cf.chunking.v
	}
	if cf.debug.set {
		ov.Debug = &cf.debug.v
	}
	return ov
}

// loadConfig layers the config file, AIDESK_* variables and flags, and
// attaches credentials from the environment and the .env file.
func loadConfig(cf *commonFlags) (cfgpkg.Config, *paths.Builder, error) {
	builder := paths.New(cf.home)
	cfgPath := cf.config
	if cfgPath == "" {
		cfgPath = builder.ConfigFile()
	}
	fileCfg, err := cfgpkg.LoadFile(cfgPath)
	if err != nil {
		return cfgpkg.Config{}, nil, err
	}
	creds, err := cfgpkg.LoadCredentials(builder.EnvFile())
	if err != nil {
		return cfgpkg.Config{}, nil, err
	}
	cfg := cfgpkg.Merge(fileCfg, cfgpkg.FromEnv(), cf.overrides(), creds)
	if err := cfgpkg.Validate(cfg); err != nil {
		return cfgpkg.Config{}, nil, err
	}
	return cfg, builder, nil
}

func logLevel(cf *commonFlags, cfg cfgpkg.Config) string {
	if cfg.Debug {
		return "debug"
	}
	return cf.logLevel
}
