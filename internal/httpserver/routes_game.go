// internal/httpserver/routes_game.go
//
// Game and high score endpoints:
//   - POST /game/new   → start a session, issue its token
//   - POST /game/guess → submit one guess for the caller's session
//   - POST /game/reset → start over in the caller's session
//   - GET  /game       → current session snapshot
//   - GET  /highscore  → best recorded attempt count

package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/highscore"
	"github.com/robalobadob/numguess/internal/store"
	"github.com/robalobadob/numguess/internal/view"
)

type stateRes struct {
	Token   string       `json:"token,omitempty"`
	Title   string       `json:"title"`
	Message view.Message `json:"message"`
	State   game.State   `json:"state"`
	Best    string       `json:"best"`
}

// guessInput accepts both "42" and 42 so form-driven and numeric clients
// work alike. Validation is left to the engine.
type guessInput string

func (g *guessInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = guessInput(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*g = ""
		return nil
	}
	*g = guessInput(b)
	return nil
}

type guessReq struct {
	Guess guessInput `json:"guess"`
}

type highScoreRes struct {
	Updated   bool           `json:"updated"`
	Persisted bool           `json:"persisted"`
	Best      highscore.Best `json:"best"`
	Label     string         `json:"label"`
}

type guessRes struct {
	Outcome   game.Outcome  `json:"outcome"`
	Message   view.Message  `json:"message"`
	State     game.State    `json:"state"`
	HighScore *highScoreRes `json:"highscore,omitempty"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	g, err := game.New(s.opts.Game, s.opts.NewSource())
	if err != nil {
		log.Error().Err(err).Msg("new game")
		http.Error(w, `{"error":"invalid_config"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signSession(g.ID(), time.Now())
	if err != nil {
		log.Error().Err(err).Msg("sign session")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, tok, exp)

	log.Info().Str("session", g.ID()).Msg("game started")
	res := s.stateResponse(g.State(), view.Greeting(s.opts.Game))
	res.Token = tok
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id, _ := sessionID(r.Context())

	var (
		out   game.Outcome
		state game.State
	)
	err := s.store.Update(r.Context(), id, func(g *game.Session) error {
		out = g.SubmitGuess(string(req.Guess))
		state = g.State()
		return nil
	})
	if s.storeError(w, err) {
		return
	}

	res := guessRes{Outcome: out, Message: view.Render(out, s.opts.Game), State: state}
	if out.Kind == game.KindCorrect {
		res.HighScore = s.recordWin(r, id, out.AttemptsUsed)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// recordWin offers a winning attempt count to the high score store. A failed
// write is reported as persisted=false, not as a request error.
func (s *Server) recordWin(r *http.Request, id string, attempts int) *highScoreRes {
	saved, err := s.scores.SaveIfBetter(r.Context(), attempts)
	hs := &highScoreRes{Updated: saved.Updated, Persisted: err == nil, Best: saved.Best, Label: view.BestLabel(saved.Best)}
	if err != nil {
		log.Warn().Err(err).Str("session", id).Int("attempts", attempts).Msg("high score kept in memory only")
	}
	return hs
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, _ := sessionID(r.Context())
	var state game.State
	err := s.store.Update(r.Context(), id, func(g *game.Session) error {
		if err := g.Reset(s.opts.Game, s.opts.NewSource()); err != nil {
			return err
		}
		state = g.State()
		return nil
	})
	if s.storeError(w, err) {
		return
	}
	_ = json.NewEncoder(w).Encode(s.stateResponse(state, view.Greeting(s.opts.Game)))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id, _ := sessionID(r.Context())
	state, err := s.store.Get(r.Context(), id)
	if s.storeError(w, err) {
		return
	}
	msg := view.Greeting(s.opts.Game)
	if state.Status.Terminal() {
		msg = view.Render(game.Outcome{Kind: game.KindSessionTerminated}, s.opts.Game)
	}
	_ = json.NewEncoder(w).Encode(s.stateResponse(state, msg))
}

func (s *Server) handleHighScore(w http.ResponseWriter, r *http.Request) {
	best := s.scores.Best()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"best":  best,
		"label": view.BestLabel(best),
	})
}

func (s *Server) stateResponse(st game.State, msg view.Message) stateRes {
	return stateRes{
		Title:   view.Title(s.opts.Game),
		Message: msg,
		State:   st,
		Best:    view.BestLabel(s.scores.Best()),
	}
}

// storeError writes the HTTP error for err and reports whether it did.
func (s *Server) storeError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"session_not_found"}`, http.StatusNotFound)
	case errors.Is(err, game.ErrInvalidConfig):
		log.Error().Err(err).Msg("reset game")
		http.Error(w, `{"error":"invalid_config"}`, http.StatusInternalServerError)
	default:
		log.Error().Err(err).Msg("session store")
		http.Error(w, `{"error":"store_failed"}`, http.StatusInternalServerError)
	}
	return true
}
