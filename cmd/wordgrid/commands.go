package main

import (
	"fmt"
	"os"
	"time"

	gridcli "github.com/bastiangx/wordgrid/internal/cli"
	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/config"
	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/bastiangx/wordgrid/pkg/loader"
	"github.com/bastiangx/wordgrid/pkg/search"
	"github.com/bastiangx/wordgrid/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

// engineFlags override the [engine] section for one run.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "grid",
			Aliases:  []string{"g"},
			Usage:    "Grid file, one row per line",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"k"},
			Usage:   "Number of matches to return (default from config)",
		},
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Usage:   "Presence strategy: scan, hash or trie",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Worker goroutines; 1 searches on one goroutine, 0 uses every CPU",
		},
		&cli.StringFlag{
			Name:  "weight",
			Usage: "Weight mode: presence or lines",
		},
		&cli.IntFlag{
			Name:  "max-word-len",
			Usage: "Drop candidates longer than this many symbols (0 for no cap)",
		},
		&cli.IntFlag{
			Name:  "max-index-runs",
			Usage: "Search larger grids with scan instead of indexing them (0 for no cap)",
		},
	}
}

// engineConfig returns the config engine section with flags applied.
func engineConfig(c *cli.Context) (config.EngineConfig, error) {
	cfg := *appConfig
	if c.IsSet("top") {
		cfg.Engine.TopK = c.Int("top")
	}
	if c.IsSet("strategy") {
		cfg.Engine.Strategy = c.String("strategy")
	}
	if c.IsSet("workers") {
		cfg.Engine.Workers = c.Int("workers")
	}
	if c.IsSet("weight") {
		cfg.Engine.Weight = c.String("weight")
	}
	if c.IsSet("max-word-len") {
		cfg.Engine.MaxWordLen = c.Int("max-word-len")
	}
	if c.IsSet("max-index-runs") {
		cfg.Engine.MaxIndexRuns = c.Int("max-index-runs")
	}
	if err := cfg.Validate(); err != nil {
		return cfg.Engine, err
	}
	log.Debug("Engine config",
		"topK", cfg.Engine.TopK,
		"strategy", cfg.Engine.Strategy,
		"workers", cfg.Engine.Workers,
		"weight", cfg.Engine.Weight)
	return cfg.Engine, nil
}

func loadGridFlag(c *cli.Context) (*grid.Grid, error) {
	path, err := utils.ResolveInput(c.String("grid"))
	if err != nil {
		return nil, err
	}
	return loader.LoadGrid(path)
}

func display(c *cli.Context) gridcli.Display {
	return gridcli.Display{
		Color:      appConfig.CLI.Color && !c.Bool("no-color"),
		ShowWeight: appConfig.CLI.ShowWeight,
	}
}

func noColorFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable styled output",
	}
}

func findCommand() *cli.Command {
	return &cli.Command{
		Name:    "find",
		Aliases: []string{"f"},
		Usage:   "Rank the words of a word list found in a grid",
		Flags: append(engineFlags(),
			&cli.StringFlag{
				Name:    "words",
				Aliases: []string{"w"},
				Usage:   "Word list file (default: read words from stdin)",
			},
			noColorFlag(),
		),
		Action: findAction,
	}
}

func findAction(c *cli.Context) error {
	engine, err := engineConfig(c)
	if err != nil {
		return err
	}
	g, err := loadGridFlag(c)
	if err != nil {
		return err
	}

	var words []string
	if c.IsSet("words") {
		path, err := utils.ResolveInput(c.String("words"))
		if err != nil {
			return err
		}
		if words, err = loader.LoadWords(path); err != nil {
			return err
		}
	} else {
		log.Debug("Reading words from stdin")
		if words, err = loader.ReadWords(os.Stdin); err != nil {
			return err
		}
	}

	finder := engine.NewFinder(g)
	start := time.Now()
	matches := finder.Find(words, engine.TopK)
	elapsed := time.Since(start)

	gridcli.NewPrinter(c.App.Writer, display(c)).Print(matches, len(words), elapsed)
	log.Debug("Search stats", statsKeyvals(finder)...)
	return nil
}

func replCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"r"},
		Usage:   "Query a grid interactively, one line of words per query",
		Flags:   append(engineFlags(), noColorFlag()),
		Action: func(c *cli.Context) error {
			engine, err := engineConfig(c)
			if err != nil {
				return err
			}
			g, err := loadGridFlag(c)
			if err != nil {
				return err
			}
			log.SetReportTimestamp(false)

			h := gridcli.NewInputHandler(engine.NewFinder(g), engine.TopK, os.Stdin, c.App.Writer, display(c))
			return h.Start(c.Context)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the msgpack IPC server on stdin/stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "grid",
				Aliases: []string{"g"},
				Usage:   "Grid file to load before the first request",
			},
		},
		Action: func(c *cli.Context) error {
			srv := server.NewServer(appConfig)
			if c.IsSet("grid") {
				g, err := loadGridFlag(c)
				if err != nil {
					return err
				}
				srv.SetGrid(g)
			}
			showStartupInfo()
			return srv.Start(c.Context)
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the active config file or update its engine defaults",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rebuild",
				Usage: "Rewrite the default config file with builtin defaults",
			},
			&cli.IntFlag{Name: "top-k", Usage: "Set engine.top_k"},
			&cli.StringFlag{Name: "strategy", Usage: "Set engine.strategy"},
			&cli.IntFlag{Name: "workers", Usage: "Set engine.workers"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("rebuild") {
				path, err := config.RebuildConfigFile()
				if err != nil {
					return fmt.Errorf("rebuild config: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "Rebuilt %s\n", path)
				return nil
			}

			var topK, workers *int
			var strategy *string
			if c.IsSet("top-k") {
				v := c.Int("top-k")
				topK = &v
			}
			if c.IsSet("workers") {
				v := c.Int("workers")
				workers = &v
			}
			if c.IsSet("strategy") {
				v := c.String("strategy")
				strategy = &v
			}
			if topK != nil || workers != nil || strategy != nil {
				if configPath == "" {
					return fmt.Errorf("no config file in use, nothing to update")
				}
				if err := appConfig.Update(configPath, topK, strategy, workers); err != nil {
					return err
				}
			}

			fmt.Fprintf(c.App.Writer, "config: %s\n", config.GetActiveConfigPath(configPath))
			e := appConfig.Engine
			fmt.Fprintf(c.App.Writer, "top_k=%d strategy=%s workers=%d weight=%s max_word_len=%d\n",
				e.TopK, e.Strategy, e.Workers, e.Weight, e.MaxWordLen)
			return nil
		},
	}
}

// statsKeyvals flattens engine stats for structured logging.
func statsKeyvals(f search.Finder) []any {
	stats := f.Stats()
	kv := make([]any, 0, 2*len(stats))
	for k, v := range stats {
		kv = append(kv, k, v)
	}
	return kv
}

// showStartupInfo displays some basic info about the server on stderr.
func showStartupInfo() {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" wordgrid  ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Infof("strategy: %s, workers: %d", appConfig.Engine.Strategy, appConfig.Engine.Workers)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
