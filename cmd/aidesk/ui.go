package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"aidesk/internal/assistant"
	cfgpkg "aidesk/internal/config"
	"aidesk/internal/speech"
	"aidesk/internal/tui"
	"aidesk/internal/web"
)

var runProgram = func(m tea.Model, d *tui.Dispatcher) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	d.Attach(p)
	_, err := p.Run()
	return err
}

// aidesk ui
func cmdUI(args []string) error {
	var cf commonFlags
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, builder, err := loadConfig(&cf)
	if err != nil {
		return err
	}
	// The terminal belongs to the interface, so logs go to a file.
	if err := builder.EnsureBase(); err != nil {
		return err
	}
	logFile, err := os.OpenFile(builder.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", cerr)
		}
	}()
	setupLogger(logLevel(&cf, cfg), logFile)

	var engine speech.Engine
	if e, err := newSpeechEngine(cfg, builder); err != nil {
		slog.Warn("speech engine unavailable", "engine", cfg.SpeechEngine, "err", err)
	} else {
		engine = e
	}
	catalog := loadCatalog(context.Background(), engine)

	disp := tui.NewDispatcher()
	app := assistant.New(assistant.Deps{
		Dispatcher: disp,
		Gateway:    newGateway(cfg),
		Engine:     engine,
		Catalog:    catalog,
		Fetcher:    web.NewFetcher(),
		SaveCredential: func(provider, key string) error {
			return cfgpkg.SaveCredential(builder.EnvFile(), provider, key)
		},
		ReadFile: os.ReadFile,
		Options: assistant.SpeechOptions{
			Chunking:     cfg.Chunking,
			ChunkSize:    cfg.ChunkSize,
			PauseSeconds: cfg.PauseSeconds,
		},
		VoiceID:    initialVoice(cfg, catalog),
		Rate:       cfg.Rate,
		TestPhrase: cfg.TestPhrase,
		Version:    version,
	})
	app.Start()
	if engine == nil {
		app.Notify(assistant.LevelWarning, "Speech unavailable",
			fmt.Sprintf("The %s speech engine could not be started; see %s.", cfg.SpeechEngine, builder.LogFile()))
	}
	slog.Info("ui started",
		"provider", cfg.Provider,
		"model", app.Gateway.Model(),
		"speechEngine", cfg.SpeechEngine,
		"voices", catalog.Len(),
		"credential", app.Gateway.HasCredential(),
	)

	err = runProgram(tui.New(app), disp)
	app.Shutdown()
	if err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	slog.Info("ui stopped")
	return nil
}
