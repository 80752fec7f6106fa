package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/bastiangx/wordgrid/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 10, c.Engine.TopK)
	assert.Equal(t, "hash", c.Engine.Strategy)
	assert.Equal(t, "presence", c.Engine.Weight)
	assert.Equal(t, 100000, c.Server.MaxWords)
	assert.Equal(t, search.DefaultMaxIndexRuns, c.Engine.MaxIndexRuns)
	assert.True(t, c.CLI.Color)
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wordgrid", "config.toml")

	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	require.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), reloaded)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[engine]
top_k = 3
strategy = "trie"
weight = "lines"

[server]
max_rows = 16

[cli]
color = false
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Engine.TopK)
	assert.Equal(t, "trie", c.Engine.Strategy)
	assert.Equal(t, "lines", c.Engine.Weight)
	assert.Equal(t, 64, c.Engine.MaxWordLen)
	assert.Equal(t, 16, c.Server.MaxRows)
	assert.Equal(t, 1024, c.Server.MaxCols)
	assert.False(t, c.CLI.Color)
	assert.True(t, c.CLI.ShowWeight)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[engine]
top_k = "ten"
strategy = "scan"

[server]
max_words = 7
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Engine.TopK, "mistyped key keeps its default")
	assert.Equal(t, "scan", c.Engine.Strategy)
	assert.Equal(t, 7, c.Server.MaxWords)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"strategy", "[engine]\nstrategy = \"bloom\"\n"},
		{"weight", "[engine]\nweight = \"positions\"\n"},
		{"top_k", "[engine]\ntop_k = 0\n"},
		{"max_index_runs", "[engine]\nmax_index_runs = -1\n"},
		{"max_rows", "[server]\nmax_rows = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestLoadConfigWithPriority(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	custom := writeConfig(t, "[engine]\ntop_k = 2\n")
	c, path, err := LoadConfigWithPriority(custom)
	require.NoError(t, err)
	assert.Equal(t, custom, path)
	assert.Equal(t, 2, c.Engine.TopK)

	// A broken custom file falls through to the default location.
	broken := writeConfig(t, "[engine]\nstrategy = \"bloom\"\n")
	c, path, err = LoadConfigWithPriority(broken)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "wordgrid", "config.toml"), path)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)
}

func TestUpdate(t *testing.T) {
	path := writeConfig(t, "")
	c := DefaultConfig()

	k, s := 5, "scan"
	require.NoError(t, c.Update(path, &k, &s, nil))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Engine.TopK)
	assert.Equal(t, "scan", reloaded.Engine.Strategy)
	assert.Equal(t, 0, reloaded.Engine.Workers)

	bad := "bloom"
	k = 9
	assert.Error(t, c.Update(path, &k, &bad, nil))
	assert.Equal(t, 5, c.Engine.TopK, "rejected update leaves config alone")
	assert.Equal(t, "scan", c.Engine.Strategy)

	zero := 0
	assert.Error(t, c.Update(path, &zero, nil, nil))
	assert.Equal(t, 5, c.Engine.TopK)

	reloaded, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "scan", reloaded.Engine.Strategy)
}

func TestSearchOptions(t *testing.T) {
	g, err := grid.New([]string{"cats", "dogs", "rats", "mice"})
	require.NoError(t, err)

	engine := EngineConfig{Strategy: "trie", Weight: "lines", MaxWordLen: 3}
	e := search.NewEngine(g, engine.SearchOptions()...)
	assert.Equal(t, search.StrategyTrie, e.Strategy())

	got := e.Find([]string{"cats", "ats", "s"}, 10)
	assert.Equal(t, []search.Match{{Word: "s", Weight: 4}, {Word: "ats", Weight: 2}}, got)

	engine.MaxIndexRuns = 10
	assert.Equal(t, search.StrategyScan, search.NewEngine(g, engine.SearchOptions()...).Strategy())
}

func TestGetActiveConfigPath(t *testing.T) {
	assert.Equal(t, "builtin defaults", GetActiveConfigPath(""))
	abs := filepath.Join(t.TempDir(), "c.toml")
	assert.Equal(t, abs, GetActiveConfigPath(abs))
}

func TestNewFinder(t *testing.T) {
	g, err := grid.New([]string{"cats", "dogs", "rats", "mice"})
	require.NoError(t, err)

	_, ok := EngineConfig{Workers: 1}.NewFinder(g).(*search.Engine)
	assert.True(t, ok)

	ce, ok := EngineConfig{Workers: 3, Strategy: "hash"}.NewFinder(g).(*search.ConcurrentEngine)
	require.True(t, ok)
	assert.Equal(t, 3, ce.Workers())
	assert.Equal(t, search.StrategyHash, ce.Strategy())
	assert.Len(t, ce.Find([]string{"cat", "fox"}, 10), 1)
}
