package runner

import (
	"context"

	"github.com/senacirak/DEU-DevClubGames/internal/dto"
)

// IOHandler defines the strategy for interacting with the player.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current scene.
	Output(ctx context.Context, view dto.SceneView) error

	// Input reads one command line. io.EOF ends the loop.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (invalid input, saved session, ...).
	// This is distinct from scene rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms Markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
