// internal/console/console.go
//
// Line-oriented terminal front end.
// Responsibilities:
//   - Read one guess per line and print the rendered outcome.
//   - Offer the best score to the high score store after every win.
//   - Ask to play again once a session ends; "quit" or EOF leaves at any time.

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/highscore"
	"github.com/robalobadob/numguess/internal/view"
)

// Options configures a console game.
type Options struct {
	Game   game.Config
	Source game.Source
	Scores *highscore.Store

	// Interactive turns on input prompts and coloured output.
	Interactive bool
}

type console struct {
	opts Options
	in   *bufio.Scanner
	out  io.Writer
}

var errQuit = errors.New("quit")

// Run plays games on in/out until the player quits, declines another round,
// input ends or ctx is cancelled. A clean exit returns nil.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	if opts.Scores == nil {
		return errors.New("console: nil high score store")
	}
	sess, err := game.New(opts.Game, opts.Source)
	if err != nil {
		return err
	}
	c := &console{opts: opts, in: bufio.NewScanner(in), out: out}
	log.Debug().Str("session", sess.ID()).Msg("console game started")

	c.banner()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := c.read("Your guess: ")
		if errors.Is(err, errQuit) {
			c.println("Bye!")
			return nil
		}
		if err != nil {
			return err
		}

		o := sess.SubmitGuess(line)
		c.show(view.Render(o, opts.Game))
		if o.Kind == game.KindCorrect {
			c.record(ctx, o.AttemptsUsed)
		}
		if !o.Terminal() {
			continue
		}

		again, err := c.playAgain()
		if err != nil && !errors.Is(err, errQuit) {
			return err
		}
		if !again {
			c.println("Bye!")
			return nil
		}
		if err := sess.Reset(opts.Game, opts.Source); err != nil {
			return err
		}
		c.banner()
	}
}

func (c *console) banner() {
	c.println(view.Title(c.opts.Game))
	c.println(view.BestLabel(c.opts.Scores.Best()))
	c.show(view.Greeting(c.opts.Game))
}

func (c *console) record(ctx context.Context, attempts int) {
	res, err := c.opts.Scores.SaveIfBetter(ctx, attempts)
	if err != nil {
		log.Warn().Err(err).Int("attempts", attempts).Msg("high score kept in memory only")
	}
	if res.Updated {
		c.show(view.Message{Text: "🏅 New high score!", Tone: view.ToneSuccess})
	}
	c.println(view.BestLabel(res.Best))
}

func (c *console) playAgain() (bool, error) {
	for {
		line, err := c.read("Play again? (y/n) ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.println("Please answer y or n.")
	}
}

// read returns the next trimmed line. EOF and the quit words map to errQuit.
func (c *console) read(prompt string) (string, error) {
	if c.opts.Interactive {
		fmt.Fprint(c.out, prompt)
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errQuit
	}
	line := strings.TrimSpace(c.in.Text())
	switch strings.ToLower(line) {
	case "quit", "q", "exit":
		return "", errQuit
	}
	return line, nil
}

const ansiReset = "\x1b[0m"

var toneColour = map[view.Tone]string{
	view.ToneWarning: "\x1b[33m",
	view.ToneHint:    "\x1b[36m",
	view.ToneSuccess: "\x1b[32m",
	view.ToneDanger:  "\x1b[31m",
}

func (c *console) show(m view.Message) {
	if col, ok := toneColour[m.Tone]; ok && c.opts.Interactive {
		c.println(col + m.Text + ansiReset)
		return
	}
	c.println(m.Text)
}

func (c *console) println(s string) {
	fmt.Fprintln(c.out, s)
}
