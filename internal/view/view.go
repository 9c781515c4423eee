// Package view turns game outcomes into player-facing text.
//
// The engine knows nothing about wording or colour; every presentation
// front end (console, HTTP) goes through Render so they say the same thing.
package view

import (
	"fmt"

	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/highscore"
)

// Tone is a rendering hint, mapped to colours by front ends.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneHint    Tone = "hint"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// Message is rendered text plus its tone.
type Message struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// Title is the heading shown above the input.
func Title(cfg game.Config) string {
	return fmt.Sprintf("🎯 Guess a number between %d and %d", cfg.Low, cfg.High)
}

// Greeting is the status line for a freshly started session.
func Greeting(cfg game.Config) Message {
	return Message{Text: fmt.Sprintf("You have %d attempts.", cfg.MaxAttempts), Tone: ToneInfo}
}

// BestLabel renders the best score line.
func BestLabel(b highscore.Best) string {
	return "🏆 High Score: " + b.String()
}

// Render maps an outcome to its message.
func Render(o game.Outcome, cfg game.Config) Message {
	switch o.Kind {
	case game.KindEmptyInput:
		return Message{Text: "Please enter a number.", Tone: ToneWarning}
	case game.KindNotANumber:
		return Message{Text: "Invalid input. Please enter a number.", Tone: ToneWarning}
	case game.KindOutOfRange:
		return Message{Text: fmt.Sprintf("Enter a number between %d and %d.", cfg.Low, cfg.High), Tone: ToneWarning}
	case game.KindTooLow:
		return Message{Text: fmt.Sprintf("📉 Too low! Attempts left: %d", o.AttemptsLeft), Tone: ToneHint}
	case game.KindTooHigh:
		return Message{Text: fmt.Sprintf("📈 Too high! Attempts left: %d", o.AttemptsLeft), Tone: ToneHint}
	case game.KindCorrect:
		return Message{Text: fmt.Sprintf("🎉 Correct! You guessed it in %d %s.", o.AttemptsUsed, plural(o.AttemptsUsed, "attempt")), Tone: ToneSuccess}
	case game.KindOutOfAttempts:
		return Message{Text: fmt.Sprintf("😢 Out of attempts! Number was %d", o.Secret), Tone: ToneDanger}
	case game.KindSessionTerminated:
		return Message{Text: "This game is over. Start a new game to keep playing.", Tone: ToneWarning}
	}
	return Message{Text: string(o.Kind), Tone: ToneInfo}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
