// Package loader reads grids and candidate word lists from text input.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/charmbracelet/log"
)

// MaxLineBytes bounds a single input line for every reader built with
// NewScanner.
const MaxLineBytes = 1 << 20

// LoadGrid validates and reads a grid file.
func LoadGrid(path string) (*grid.Grid, error) {
	if err := ValidateFileFormat(path, FormatGrid); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid %s: %w", path, err)
	}
	defer file.Close()

	g, err := ReadGrid(file)
	if err != nil {
		return nil, fmt.Errorf("grid %s: %w", path, err)
	}
	log.Debugf("Loaded %dx%d grid from %s", g.RowCount(), g.ColCount(), path)
	return g, nil
}

// ReadGrid reads one row per line. Surrounding whitespace is trimmed and
// blank lines or lines starting with '#' are skipped.
func ReadGrid(r io.Reader) (*grid.Grid, error) {
	var rows []string
	scanner := NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || utils.IsComment(line) {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	return grid.New(rows)
}

// LoadWords validates and reads a word list file.
func LoadWords(path string) ([]string, error) {
	if err := ValidateFileFormat(path, FormatWords); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	words, err := ReadWords(file)
	if err != nil {
		return nil, fmt.Errorf("word list %s: %w", path, err)
	}
	log.Debugf("Loaded %s words from %s", utils.FormatWithCommas(len(words)), path)
	return words, nil
}

// ReadWords splits the input on any whitespace, keeping order and duplicates.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := NewScanner(r)
	for scanner.Scan() {
		words = append(words, utils.SplitWords(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}
	return words, nil
}

// NewScanner splits r into lines of up to MaxLineBytes.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	return scanner
}
