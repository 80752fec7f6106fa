// Package cli handles interactive queries against a loaded grid
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/loader"
	"github.com/bastiangx/wordgrid/pkg/search"
	"github.com/charmbracelet/log"
)

// InputHandler reads one query per line, each a whitespace separated list
// of candidate words, and prints the top matches.
type InputHandler struct {
	finder       search.Finder
	limit        int
	in           io.Reader
	out          io.Writer
	printer      *Printer
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(finder search.Finder, limit int, in io.Reader, out io.Writer, display Display) *InputHandler {
	return &InputHandler{
		finder:  finder,
		limit:   limit,
		in:      in,
		out:     out,
		printer: NewPrinter(out, display),
	}
}

// Start begins the interface loop. It returns nil when the input ends or
// ctx is done, and the read error otherwise.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, h.printer.header.Render("wordgrid"))
	fmt.Fprintln(h.out, "type candidate words separated by spaces and press Enter (Ctrl+D to exit):")

	scanner := loader.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		h.handleInput(scanner.Text())
	}
}

// handleInput runs a single query.
func (h *InputHandler) handleInput(line string) {
	var words []string
	for _, w := range utils.SplitWords(line) {
		if !utils.IsValidWord(w) {
			log.Warnf("Skipping invalid word %q", w)
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return
	}
	h.requestCount++

	start := time.Now()
	matches := h.finder.Find(words, h.limit)
	elapsed := time.Since(start)
	log.Debugf("Query %d took [ %v ] for %d words", h.requestCount, elapsed, len(words))

	h.printer.Print(matches, len(words), elapsed)
}
