package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lox/holdem-mcts/internal/config"
	"github.com/lox/holdem-mcts/internal/deck"
	"github.com/lox/holdem-mcts/internal/mcts"
	"github.com/lox/holdem-mcts/internal/randutil"
)

// Server exposes equity searches over HTTP
type Server struct {
	cfg    *config.Config
	logger *log.Logger
	router chi.Router
}

// EquityResponse is the JSON body returned by /v1/equity
type EquityResponse struct {
	Hand       string     `json:"hand"`
	Seed       int64      `json:"seed"`
	Iterations int        `json:"iterations"`
	Equity     float64    `json:"equity"`
	WinRate    float64    `json:"win_rate"`
	TieRate    float64    `json:"tie_rate"`
	StdError   float64    `json:"std_error"`
	CI95       [2]float64 `json:"ci95"`
	Nodes      int        `json:"nodes"`
	ElapsedMS  int64      `json:"elapsed_ms"`
}

// NewEquityResponse summarises a search result for hero
func NewEquityResponse(hero [2]deck.Card, seed int64, result mcts.Result) EquityResponse {
	lo, hi := result.Stats.ConfidenceInterval95()
	return EquityResponse{
		Hand:       deck.FormatCards(hero[:], ""),
		Seed:       seed,
		Iterations: result.Iterations,
		Equity:     result.Equity,
		WinRate:    result.Stats.WinRate(),
		TieRate:    result.Stats.TieRate(),
		StdError:   result.Stats.StdError(),
		CI95:       [2]float64{lo, hi},
		Nodes:      result.Nodes,
		ElapsedMS:  result.Elapsed.Milliseconds(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a server using cfg for search defaults and limits
func NewServer(cfg *config.Config, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/v1/equity", s.handleEquity)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", s.cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cards, err := deck.ParseUniqueCards(q.Get("hand"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("hand: %w", err))
		return
	}
	if len(cards) != 2 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("hand: need exactly 2 cards, got %d", len(cards)))
		return
	}
	hero := [2]deck.Card(cards)

	iterations := s.cfg.Iterations
	if v := q.Get("iterations"); v != "" {
		iterations, err = strconv.Atoi(v)
		if err != nil || iterations < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("iterations: invalid value %q", v))
			return
		}
	}
	iterations = min(iterations, s.cfg.MaxIterations)

	seedFlag := s.cfg.Seed
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("seed: invalid value %q", v))
			return
		}
		seedFlag = &seed
	}
	seed := randutil.Seed(seedFlag)

	result, err := mcts.RunParallel(r.Context(), hero, iterations, s.cfg.Workers, seed,
		mcts.WithConfig(s.cfg.Search()),
		mcts.WithLogger(s.logger))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("Search cancelled by client", "hand", q.Get("hand"))
			return
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := NewEquityResponse(hero, seed, result)

	s.logger.Info("Equity search",
		"hand", resp.Hand,
		"iterations", resp.Iterations,
		"equity", fmt.Sprintf("%.4f", resp.Equity),
		"elapsed", result.Elapsed)

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
