package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"aidesk/internal/speech"
)

var stdout io.Writer = os.Stdout

// aidesk voices
func cmdVoices(args []string) error {
	var cf commonFlags
	fs := flag.NewFlagSet("voices", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel, os.Stderr)

	cfg, builder, err := loadConfig(&cf)
	if err != nil {
		return err
	}
	engine, err := newSpeechEngine(cfg, builder)
	if err != nil {
		return err
	}
	voices, err := engine.Voices(context.Background())
	if err != nil {
		return err
	}
	printCatalog(stdout, speech.NewCatalog(voices, nil))
	return nil
}

func printCatalog(w io.Writer, cat *speech.Catalog) {
	for _, lang := range speech.Languages {
		genders := cat.Genders(lang)
		if len(genders) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", lang)
		for _, g := range genders {
			fmt.Fprintf(w, "  %s\n", g)
			for _, v := range cat.Voices(lang, g) {
				fmt.Fprintf(w, "    %-28s %s\n", v.ID, v.Name)
			}
		}
	}
	fmt.Fprintf(w, "%d voices\n", cat.Len())
}
