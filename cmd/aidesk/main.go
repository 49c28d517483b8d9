package main

import (
	"fmt"
	"log/slog"
	"os"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help" || args[0] == "help") {
		printUsage()
		return 0
	}

	sub := "ui"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "ui":
		if err := cmdUI(args); err != nil {
			slog.Error("ui failed", "err", err)
			fmt.Fprintf(os.Stderr, "aidesk: %v\n", err)
			return 1
		}
		return 0
	case "voices":
		if err := cmdVoices(args); err != nil {
			slog.Error("voices failed", "err", err)
			return 1
		}
		return 0
	case "models":
		if err := cmdModels(args); err != nil {
			slog.Error("models failed", "err", err)
			return 1
		}
		return 0
	case "version":
		fmt.Println(version)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", sub)
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `aidesk %s

Usage:
  aidesk [subcommand] [flags]

Subcommands:
  ui       Start the terminal interface (default)
  voices   List the voices of the speech engine by language and gender
  models   List the models available to the configured API key
  version  Print version

Run "aidesk <subcommand> -h" for flags.
`, version)
}
