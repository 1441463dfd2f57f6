package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/internal/logger"
	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/metrics"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/bastiangx/wordrank/pkg/term"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for word completions
type Server struct {
	completer *suggest.Completer
	config    config.ServerConfig
	metrics   *metrics.Metrics
	decoder   *msgpack.Decoder
	encoder   *msgpack.Encoder
	log       *log.Logger
}

// NewServer creates a server reading requests from r and writing responses
// to w. m may be nil.
func NewServer(completer *suggest.Completer, cfg config.ServerConfig, m *metrics.Metrics, r io.Reader, w io.Writer) *Server {
	return &Server{
		completer: completer,
		config:    cfg,
		metrics:   m,
		decoder:   msgpack.NewDecoder(r),
		encoder:   msgpack.NewEncoder(w),
		log:       logger.New("ipc"),
	}
}

// Start serves requests until the input ends, ctx is cancelled or the stream
// can no longer be decoded. A clean end of input returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server", "index", s.completer.Kind())

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		// EOF is only clean between messages
		if _, err := s.decoder.PeekCode(); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				s.log.Debug("Input closed")
				return nil
			}
			return fmt.Errorf("reading request: %w", err)
		}
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			return fmt.Errorf("reading request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Warnf("Malformed request: %v", err)
			if err := s.sendError("", "malformed request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest answers one request. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	switch req.Action {
	case "", ActionComplete:
		return s.handleComplete(req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case ActionStats:
		return s.send(StatsResponse{ID: req.ID, Index: s.completer.Kind(), Stats: s.completer.Stats()})
	case ActionAdd:
		return s.handleAdd(req)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleComplete(req Request) error {
	start := time.Now()
	kind := s.completer.Kind()

	invalid := func(msg string) error {
		s.log.Debug("Rejected request", "id", req.ID, "reason", msg)
		s.metrics.ObserveQuery(kind, metrics.ResultInvalid, time.Since(start), 0)
		return s.sendError(req.ID, msg, 400)
	}

	if req.Prefix == nil {
		return invalid("missing prefix")
	}
	prefix := *req.Prefix
	if !utf8.ValidString(prefix) {
		return invalid("prefix is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(prefix); n < s.config.MinPrefix {
		return invalid(fmt.Sprintf("prefix must be at least %d characters", s.config.MinPrefix))
	} else if n > s.config.MaxPrefix {
		return invalid(fmt.Sprintf("prefix exceeds maximum length of %d characters", s.config.MaxPrefix))
	}

	limit, err := s.limit(req.Limit)
	if err != nil {
		return invalid(err.Error())
	}

	var suggestions []suggest.Suggestion
	switch {
	case s.config.EnableFilter && prefix != "" && !utils.IsValidInput(prefix):
		suggestions = []suggest.Suggestion{}
	case req.Top:
		suggestions, err = s.top(prefix)
	default:
		suggestions, err = s.completer.Complete(prefix, limit)
	}
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, term.ErrInvalidInput) {
			return invalid(err.Error())
		}
		s.log.Errorf("Completing %q: %v", prefix, err)
		s.metrics.ObserveQuery(kind, metrics.ResultError, elapsed, 0)
		return s.sendError(req.ID, "internal error", 500)
	}

	result := metrics.ResultOK
	if len(suggestions) == 0 {
		result = metrics.ResultEmpty
	}
	s.metrics.ObserveQuery(kind, result, elapsed, len(suggestions))

	return s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: rankSuggestions(suggestions),
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// limit applies the configured default and cap. A missing limit decodes as 0.
func (s *Server) limit(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("limit must not be negative")
	case requested == 0:
		return s.config.DefaultLimit, nil
	default:
		return min(requested, s.config.MaxLimit), nil
	}
}

func (s *Server) top(prefix string) ([]suggest.Suggestion, error) {
	word, err := s.completer.Top(prefix)
	if err != nil {
		return nil, err
	}
	if word == "" {
		return []suggest.Suggestion{}, nil
	}
	weight, _ := s.completer.Weight(word)
	return []suggest.Suggestion{{Word: word, Weight: weight}}, nil
}

func (s *Server) handleAdd(req Request) error {
	if req.Weight == nil {
		return s.sendError(req.ID, "missing weight", 400)
	}
	err := s.completer.AddWord(req.Word, *req.Weight)
	switch {
	case err == nil:
		if s.metrics != nil {
			s.metrics.WordsAdded.Inc()
			s.metrics.VocabularySize.Set(float64(s.completer.Stats()["totalWords"]))
		}
		s.log.Debug("Added word", "word", req.Word, "weight", *req.Weight)
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case errors.Is(err, term.ErrInvalidInput), errors.Is(err, term.ErrInvalidWeight), errors.Is(err, suggest.ErrReadOnly):
		return s.sendError(req.ID, err.Error(), 400)
	default:
		s.log.Errorf("Adding %q: %v", req.Word, err)
		return s.sendError(req.ID, "internal error", 500)
	}
}

// rankSuggestions numbers suggestions from 1, saturating at the largest uint16.
func rankSuggestions(suggestions []suggest.Suggestion) []CompletionSuggestion {
	result := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		result[i] = CompletionSuggestion{
			Word:   sg.Word,
			Rank:   uint16(min(i+1, math.MaxUint16)),
			Weight: sg.Weight,
		}
	}
	return result
}

func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
