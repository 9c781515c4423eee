// internal/httpserver/server.go
//
// HTTP server wiring for the number guessing game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/highscore".
//   - Game endpoints (session token required except /game/new).
//   - Per-IP rate limiting on mutating routes.
//   - Periodic pruning of idle sessions and limiter entries.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the session cookie works
//     from a browser client on another port.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/highscore"
	"github.com/robalobadob/numguess/internal/store"
)

// Options configures a Server.
type Options struct {
	Game game.Config

	// NewSource returns the secret source for a new or reset session.
	// Nil means crypto randomness.
	NewSource func() game.Source

	ClientOrigin   string
	SessionSecret  string
	SessionTTL     time.Duration
	SecureCookies  bool
	RateLimitRPS   int
	RateLimitBurst int
}

// Server bundles router, session store and high score store.
type Server struct {
	r       *chi.Mux
	opts    Options
	store   store.Store
	scores  *highscore.Store
	limiter *ipLimiter
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, scores *highscore.Store, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 3 * time.Hour
	}
	if opts.NewSource == nil {
		opts.NewSource = func() game.Source { return game.CryptoSource{} }
	}
	s := &Server{
		r:       chi.NewRouter(),
		opts:    opts,
		store:   st,
		scores:  scores,
		limiter: newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"numguess","endpoints":["/health","/highscore","POST /game/new","POST /game/guess","POST /game/reset","GET /game"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/highscore", s.handleHighScore)

	s.r.Route("/game", func(r chi.Router) {
		r.With(s.limiter.middleware).Post("/new", s.handleNewGame)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleState)
			r.With(s.limiter.middleware).Post("/guess", s.handleGuess)
			r.With(s.limiter.middleware).Post("/reset", s.handleReset)
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.janitor(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// janitor sweeps idle state every interval until ctx ends.
func (s *Server) janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now)
		}
	}
}

// sweep drops sessions and limiter entries idle longer than SessionTTL.
func (s *Server) sweep(ctx context.Context, now time.Time) {
	cutoff := now.Add(-s.opts.SessionTTL)
	sessions := s.store.Prune(ctx, cutoff)
	clients := s.limiter.prune(cutoff)
	if sessions > 0 || clients > 0 {
		log.Debug().Int("sessions", sessions).Int("clients", clients).Msg("pruned idle state")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", sessionTokenHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
