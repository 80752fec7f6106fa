package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bastiangx/wordgrid/pkg/config"
	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/bastiangx/wordgrid/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for grid searches
type Server struct {
	cfg *config.Config
	dec *msgpack.Decoder
	enc *msgpack.Encoder

	mu     sync.RWMutex
	finder search.Finder

	requests int
}

// NewServer creates a server using stdin/stdout for IPC
func NewServer(cfg *config.Config) *Server {
	return NewServerWithIO(cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over any reader and writer pair.
func NewServerWithIO(cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		cfg: cfg,
		dec: msgpack.NewDecoder(bufio.NewReader(r)),
		enc: msgpack.NewEncoder(w),
	}
}

// SetGrid replaces the active engine with one bound to g.
func (s *Server) SetGrid(g *grid.Grid) {
	finder := s.cfg.Engine.NewFinder(g)
	s.mu.Lock()
	s.finder = finder
	s.mu.Unlock()
	log.Debugf("Active grid is now %dx%d", g.RowCount(), g.ColCount())
}

// Start begins listening for IPC requests. It returns nil on EOF or when
// ctx is done between requests.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping server")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			if sendErr := s.sendError("", "Invalid msgpack request", CodeBadRequest); sendErr != nil {
				return sendErr
			}
			return fmt.Errorf("decode request: %w", err)
		}
		s.requests++
		if err := s.handleRequest(request); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action. Only a failed write is returned.
func (s *Server) handleRequest(request Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Request %s panicked: %v", request.ID, r)
			err = s.sendError(request.ID, fmt.Sprintf("internal error: %v", r), CodeInternal)
		}
	}()

	switch request.Action {
	case "load":
		return s.handleLoad(request)
	case "find":
		return s.handleFind(request)
	case "stats":
		return s.send(StatsResponse{ID: request.ID, Stats: s.stats()})
	case "health":
		return s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		return s.sendError(request.ID, fmt.Sprintf("Unknown action: %q", request.Action), CodeBadRequest)
	}
}

func (s *Server) handleLoad(request Request) error {
	limits := s.cfg.Server
	if len(request.Rows) > limits.MaxRows {
		return s.sendError(request.ID,
			fmt.Sprintf("Grid has %d rows, limit is %d", len(request.Rows), limits.MaxRows), CodeBadRequest)
	}

	g, err := grid.New(request.Rows)
	if err != nil {
		log.Debugf("Rejected grid in %s: %v", request.ID, err)
		return s.sendError(request.ID, err.Error(), CodeBadRequest)
	}
	if g.ColCount() > limits.MaxCols {
		return s.sendError(request.ID,
			fmt.Sprintf("Grid has %d columns, limit is %d", g.ColCount(), limits.MaxCols), CodeBadRequest)
	}

	s.SetGrid(g)
	return s.send(StatusResponse{ID: request.ID, Status: "ok", Rows: g.RowCount(), Cols: g.ColCount()})
}

func (s *Server) handleFind(request Request) error {
	s.mu.RLock()
	finder := s.finder
	s.mu.RUnlock()

	if finder == nil {
		return s.sendError(request.ID, "No grid loaded", CodeNoGrid)
	}
	if len(request.Words) > s.cfg.Server.MaxWords {
		return s.sendError(request.ID,
			fmt.Sprintf("Request has %d words, limit is %d", len(request.Words), s.cfg.Server.MaxWords), CodeBadRequest)
	}

	k := request.K
	if k <= 0 {
		k = s.cfg.Engine.TopK
	}

	start := time.Now()
	matches := finder.Find(request.Words, k)
	elapsed := time.Since(start)

	entries := make([]MatchEntry, len(matches))
	for i, m := range matches {
		entries[i] = MatchEntry{Word: m.Word, Weight: m.Weight}
	}
	log.Debugf("Find %s: %d words, %d matches in %v", request.ID, len(request.Words), len(entries), elapsed)

	return s.send(FindResponse{
		ID:        request.ID,
		Matches:   entries,
		Count:     len(entries),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) stats() map[string]int {
	s.mu.RLock()
	finder := s.finder
	s.mu.RUnlock()

	stats := map[string]int{}
	if finder != nil {
		stats = finder.Stats()
	}
	stats["requests"] = s.requests
	return stats
}

// send encodes one response onto the output stream.
func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
