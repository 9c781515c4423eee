// main.go
//
// numguess entry point.
//
//	numguess [play|serve]
//
// play (default) runs the terminal game on stdin/stdout. serve exposes the
// same game over HTTP. Both share the configured high score backend.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/robalobadob/numguess/internal/config"
	"github.com/robalobadob/numguess/internal/console"
	"github.com/robalobadob/numguess/internal/daily"
	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/highscore"
	"github.com/robalobadob/numguess/internal/httpserver"
	"github.com/robalobadob/numguess/internal/store"
)

func main() {
	cmd := "play"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd == "play" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	switch cmd {
	case "play":
		err = play(cfg)
	case "serve":
		err = serve(cfg)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [play|serve]\n", os.Args[0])
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("exited")
	}
}

func play(cfg *config.Config) error {
	ctx := context.Background()
	scores, err := openScores(ctx, cfg)
	if err != nil {
		return err
	}
	defer scores.Close()

	return console.Run(ctx, os.Stdin, os.Stdout, console.Options{
		Game:        cfg.Game(),
		Source:      sourceFactory(cfg)(),
		Scores:      scores,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	})
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scores, err := openScores(ctx, cfg)
	if err != nil {
		return err
	}
	defer scores.Close()

	srv := httpserver.New(store.NewMemoryStore(), scores, httpserver.Options{
		Game:           cfg.Game(),
		NewSource:      sourceFactory(cfg),
		ClientOrigin:   cfg.ClientOrigin,
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		SecureCookies:  cfg.CookieSecure,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	log.Info().Str("port", cfg.Port).Str("backend", cfg.HighScoreBackend).Msg("starting numguess server")
	return srv.Start(ctx, ":"+cfg.Port)
}

// openScores opens the configured backend and loads the recorded best.
func openScores(ctx context.Context, cfg *config.Config) (*highscore.Store, error) {
	var backend highscore.Backend
	switch cfg.HighScoreBackend {
	case config.BackendSQLite:
		b, err := highscore.OpenSQLite(ctx, cfg.HighScoreDSN)
		if err != nil {
			return nil, fmt.Errorf("open high score db: %w", err)
		}
		backend = b
	default:
		backend = highscore.NewFileBackend(cfg.HighScoreFile)
	}
	scores := highscore.New(backend)
	best := scores.Load(ctx)
	log.Debug().Str("best", best.String()).Msg("high score loaded")
	return scores, nil
}

// sourceFactory picks the daily stream when a salt is configured. The stream
// is shared so each new game or reset draws the next value of the day.
func sourceFactory(cfg *config.Config) func() game.Source {
	if cfg.DailySalt == "" {
		return func() game.Source { return game.CryptoSource{} }
	}
	stream := daily.NewStream(cfg.DailySalt, nil)
	return func() game.Source { return stream }
}
