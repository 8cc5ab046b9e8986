// Package api exposes the REST surface: read endpoints over the economy
// (balances, ledger history, bet history, leaderboard) and a message
// ingest endpoint that webhook-style chat transports post lines to.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/model"
	"twitch-casino-bot/internal/repository"
)

const defaultHistoryLimit = 20

// BalanceReader resolves an account, creating it lazily like chat commands do.
type BalanceReader interface {
	GetOrCreateBalance(ctx context.Context, channel, username string) (*model.BalanceAccount, error)
}

// LeaderboardReader lists the channel's richest accounts.
type LeaderboardReader interface {
	TopByBalance(ctx context.Context, channel string, limit int) ([]*model.BalanceAccount, error)
}

// HistoryReader reads an account's ledger entries.
type HistoryReader interface {
	History(ctx context.Context, channel, username string, limit int) ([]*model.LedgerEntry, error)
}

// BetReader reads a user's roll records and aggregate stats.
type BetReader interface {
	ByUser(ctx context.Context, channel, username string, limit int) ([]*model.BetRecord, error)
	StatsByUser(ctx context.Context, channel, username string) (*model.BetStats, error)
}

// CommandSource handles one chat line and returns the bot's reply.
type CommandSource interface {
	Handle(ctx context.Context, channel, username, text string) string
}

// ChannelChecker reports whether the bot serves a channel. Message ingest
// for unknown channels is rejected so arbitrary POSTs cannot create
// accounts in channels the bot never joined.
type ChannelChecker func(channel string) bool

// Server is the HTTP API server.
type Server struct {
	balances    BalanceReader
	leaderboard LeaderboardReader
	history     HistoryReader
	bets        BetReader
	commands    CommandSource
	known       ChannelChecker
	router      chi.Router
}

// NewServer creates the server and mounts its routes.
func NewServer(balances BalanceReader, leaderboard LeaderboardReader, history HistoryReader, bets BetReader, commands CommandSource, known ChannelChecker, allowedOrigins []string) *Server {
	s := &Server{
		balances:    balances,
		leaderboard: leaderboard,
		history:     history,
		bets:        bets,
		commands:    commands,
		known:       known,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/channels/{channel}", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Post("/messages", s.handleMessage)
		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/balance", s.handleBalance)
			r.Get("/history", s.handleHistory)
			r.Get("/bets", s.handleBets)
			r.Get("/bets/stats", s.handleBetStats)
		})
	})

	s.router = r
	return s
}

// Handler returns the mounted router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is cancelled. It only
// returns once the graceful shutdown has finished draining connections.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Msg("API server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// ErrServerClosed means Shutdown was called; wait for it to finish.
	<-shutdownDone
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type messageRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

// handleMessage feeds one chat line through the command router and
// returns the reply, empty when the line needed none.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	if s.known != nil && !s.known(channel) {
		http.Error(w, "unknown channel", http.StatusNotFound)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	reply := s.commands.Handle(r.Context(), channel, req.Username, req.Text)
	writeJSON(w, http.StatusOK, messageResponse{Reply: reply})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	username := chi.URLParam(r, "username")

	account, err := s.balances.GetOrCreateBalance(r.Context(), channel, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	accounts, err := s.leaderboard.TopByBalance(r.Context(), channel, queryLimit(r, 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	username := chi.URLParam(r, "username")

	entries, err := s.history.History(r.Context(), channel, username, queryLimit(r, defaultHistoryLimit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleBets(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	username := chi.URLParam(r, "username")

	records, err := s.bets.ByUser(r.Context(), channel, username, queryLimit(r, defaultHistoryLimit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleBetStats(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	username := chi.URLParam(r, "username")

	stats, err := s.bets.StatsByUser(r.Context(), channel, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// queryLimit parses the limit query parameter, capped at 100.
func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("API request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
