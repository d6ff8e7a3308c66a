package runner

import (
	"context"

	"github.com/aretw0/formflow"
)

// Screen is one rendered turn of the loop.
type Screen struct {
	View formflow.View
	// Markdown is the human readable rendition of View.
	Markdown string
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current screen.
	Output(ctx context.Context, screen Screen) error

	// Input reads one line from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. "Checking...").
	// This is distinct from screen rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
