/*
Package config manages TOML config for wordgrid.

The file has three sections: [engine] for search defaults, [server] for the
IPC limits and [cli] for terminal output. Missing keys keep their defaults
and a file that fails to decode as a whole is salvaged key by key.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/bastiangx/wordgrid/pkg/search"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig has the search defaults shared by every command.
type EngineConfig struct {
	TopK         int    `toml:"top_k"`
	Strategy     string `toml:"strategy"`
	Workers      int    `toml:"workers"`
	Weight       string `toml:"weight"`
	MaxWordLen   int    `toml:"max_word_len"`
	MaxIndexRuns int    `toml:"max_index_runs"`
}

// ServerConfig holds request limits for the IPC server.
type ServerConfig struct {
	MaxWords int `toml:"max_words"`
	MaxRows  int `toml:"max_rows"`
	MaxCols  int `toml:"max_cols"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Color      bool `toml:"color"`
	ShowWeight bool `toml:"show_weight"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordgrid")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordgrid")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordgrid/config.toml
// 3. Builtin defaults
//
// The returned path is empty when builtin defaults are in use.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			TopK:         10,
			Strategy:     search.StrategyHash.String(),
			Workers:      0,
			Weight:       search.WeightPresence.String(),
			MaxWordLen:   64,
			MaxIndexRuns: search.DefaultMaxIndexRuns,
		},
		Server: ServerConfig{
			MaxWords: 100000,
			MaxRows:  1024,
			MaxCols:  1024,
		},
		CLI: CliConfig{
			Color:      true,
			ShowWeight: true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file with syntax errors falls back
// to partial recovery; values that parse but are out of range are an error.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return config, nil
}

// tryPartialParse keeps every well typed key it can find.
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "top_k"); ok {
		engine.TopK = val
	}
	if val, ok := utils.ExtractString(data, "strategy"); ok {
		engine.Strategy = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		engine.Workers = val
	}
	if val, ok := utils.ExtractString(data, "weight"); ok {
		engine.Weight = val
	}
	if val, ok := utils.ExtractInt64(data, "max_word_len"); ok {
		engine.MaxWordLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_index_runs"); ok {
		engine.MaxIndexRuns = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		server.MaxWords = val
	}
	if val, ok := utils.ExtractInt64(data, "max_rows"); ok {
		server.MaxRows = val
	}
	if val, ok := utils.ExtractInt64(data, "max_cols"); ok {
		server.MaxCols = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
	if val, ok := utils.ExtractBool(data, "show_weight"); ok {
		cli.ShowWeight = val
	}
}

// Validate reports the first value that no engine or server could use.
func (c *Config) Validate() error {
	if _, err := search.ParseStrategy(c.Engine.Strategy); err != nil {
		return fmt.Errorf("engine.strategy: %w", err)
	}
	if _, err := search.ParseWeightMode(c.Engine.Weight); err != nil {
		return fmt.Errorf("engine.weight: %w", err)
	}
	switch {
	case c.Engine.TopK <= 0:
		return fmt.Errorf("engine.top_k must be positive, got %d", c.Engine.TopK)
	case c.Engine.MaxWordLen < 0:
		return fmt.Errorf("engine.max_word_len must not be negative, got %d", c.Engine.MaxWordLen)
	case c.Engine.MaxIndexRuns < 0:
		return fmt.Errorf("engine.max_index_runs must not be negative, got %d", c.Engine.MaxIndexRuns)
	case c.Server.MaxWords <= 0:
		return fmt.Errorf("server.max_words must be positive, got %d", c.Server.MaxWords)
	case c.Server.MaxRows <= 0:
		return fmt.Errorf("server.max_rows must be positive, got %d", c.Server.MaxRows)
	case c.Server.MaxCols <= 0:
		return fmt.Errorf("server.max_cols must be positive, got %d", c.Server.MaxCols)
	}
	return nil
}

// SearchOptions turns the [engine] section into engine options.
// Call Validate first; unknown names fall back to the engine defaults.
func (e EngineConfig) SearchOptions() []search.Option {
	opts := []search.Option{
		search.WithMaxWordLen(e.MaxWordLen),
		search.WithMaxIndexRuns(e.MaxIndexRuns),
	}
	if s, err := search.ParseStrategy(e.Strategy); err == nil {
		opts = append(opts, search.WithStrategy(s))
	}
	if m, err := search.ParseWeightMode(e.Weight); err == nil {
		opts = append(opts, search.WithWeightMode(m))
	}
	return opts
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes engine defaults and saves to file.
// Nil arguments leave the current value alone. c is only changed when the
// result validates.
func (c *Config) Update(configPath string, topK *int, strategy *string, workers *int) error {
	next := *c
	if topK != nil {
		next.Engine.TopK = *topK
	}
	if strategy != nil {
		next.Engine.Strategy = *strategy
	}
	if workers != nil {
		next.Engine.Workers = *workers
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return SaveConfig(c, configPath)
}

// NewFinder binds an engine to g using the [engine] section. Workers == 1
// selects the sequential engine; anything else the concurrent one.
func (e EngineConfig) NewFinder(g *grid.Grid, opts ...search.Option) search.Finder {
	opts = append(e.SearchOptions(), opts...)
	if e.Workers == 1 {
		return search.NewEngine(g, opts...)
	}
	return search.NewConcurrentEngine(g, e.Workers, opts...)
}
