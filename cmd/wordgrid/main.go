// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordgrid search CLI and IPC server.

wordgrid finds which candidate words occur as contiguous runs in the rows
or columns of a rectangular grid of symbols, and returns the top k of them.
Results are ordered by weight, and words of equal weight keep the order
they were first seen in.

# Usage

Search a grid file for the words in a word list:

	wordgrid find --grid grid.txt --words words.txt -k 10

Words can be piped in instead:

	echo "cold wind snow chill" | wordgrid find -g grid.txt

Query interactively, one line of words per query:

	wordgrid repl -g grid.txt

Start the MessagePack IPC server, optionally with a grid already loaded:

	wordgrid serve -g grid.txt

# Input Files

Grid files hold one row per line. Surrounding whitespace is trimmed and
blank lines or lines starting with '#' are skipped; every remaining row
must have the same number of symbols. Word lists are split on whitespace.

# Strategies

Every strategy returns the same matches; they differ only in cost.

	scan   search each row and column directly
	hash   index every run by length and xxhash (default)
	trie   patricia trie of every row and column suffix

# Configuration

Defaults live in a TOML file created on first run under ~/.config/wordgrid:

	[engine]
	top_k = 10
	strategy = "hash"
	workers = 0
	weight = "presence"
	max_word_len = 64
	max_index_runs = 4194304

	[server]
	max_words = 100000
	max_rows = 1024
	max_cols = 1024

	[cli]
	color = true
	show_weight = true

workers = 1 selects the single goroutine engine and 0 uses one worker per
CPU. Grids with more runs than max_index_runs (rows*cols*(rows+cols+2)/2)
are searched with scan instead of building a hash or trie index; 0 lifts
the cap. weight = "lines" ranks words by the number of lines holding them.
Command line flags override the file for one run; `wordgrid config` shows
or updates it.

# IPC Protocol

The server reads msgpack requests on stdin and writes one msgpack response
per request on stdout; see package server for the message types.

	{"id": "1", "action": "load", "rows": ["cats", "dogs", "rats", "mice"]}
	{"id": "2", "action": "find", "w": ["cat", "dog", "fox"], "k": 10}
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordgrid/internal/logger"
	"github.com/bastiangx/wordgrid/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

const (
	Version = "0.1.0"
	AppName = "wordgrid"
	gh      = "https://github.com/bastiangx/wordgrid"
)

var (
	appConfig  = config.DefaultConfig()
	configPath string
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow; each command lives in commands.go.
func main() {
	sigHandler()
	cli.VersionPrinter = func(*cli.Context) { showVersion() }

	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   AppName,
		Usage:                  "Find which words hide in the rows and columns of a grid",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: ~/.config/wordgrid/config.toml)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Toggle debug logging on stderr",
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(c.Bool("debug"))
			cfg, path, err := config.LoadConfigWithPriority(c.String("config"))
			if err != nil {
				return err
			}
			appConfig, configPath = cfg, path
			log.Debugf("Using config: %s", config.GetActiveConfigPath(configPath))
			return nil
		},
		Commands: []*cli.Command{
			findCommand(),
			replCommand(),
			serveCommand(),
			configCommand(),
		},
	}
}

// showVersion prints a small styled banner on stderr.
func showVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordgrid ] Finds words hiding in grids")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}
