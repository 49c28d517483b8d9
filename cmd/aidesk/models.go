package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	cfgpkg "aidesk/internal/config"
)

// aidesk models
func cmdModels(args []string) error {
	var cf commonFlags
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel, os.Stderr)

	cfg, _, err := loadConfig(&cf)
	if err != nil {
		return err
	}
	if err := cfgpkg.ValidateForGeneration(cfg); err != nil {
		return err
	}
	gw := newGateway(cfg)
	models, err := gw.Snapshot().ListModels(context.Background())
	if err != nil {
		return err
	}
	for _, m := range models {
		marker := " "
		if m == gw.Model() {
			marker = "*"
		}
		fmt.Fprintf(stdout, "%s %s\n", marker, m)
	}
	slog.Debug("models listed", "provider", cfg.Provider, "count", len(models))
	return nil
}
