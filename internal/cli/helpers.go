// Package cli holds the command implementations behind cmd/devclub.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	devclub "github.com/senacirak/DEU-DevClubGames"
	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/file"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// errAborted reports that the player left before a story was picked.
var errAborted = errors.New("aborted")

// NewLogger configures the application logger for a level name.
// Logs go to stderr so stdout stays free for the story.
func NewLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// SessionStore returns the file store of saved playthroughs below dir.
// An empty dir means the working directory.
func SessionStore(dir string) *file.Store {
	return file.NewStore(filepath.Join(dir, file.DefaultPath))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createEngine(ctx context.Context, dir string, logger *slog.Logger) (*devclub.Engine, error) {
	eng, err := devclub.New(ctx, dir,
		devclub.WithLogger(logger),
		devclub.WithLifecycleHooks(debugHooks(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return eng, nil
}

// debugHooks traces every lifecycle event at debug level.
func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	scene := func(msg string) func(*domain.SceneEvent) {
		return func(e *domain.SceneEvent) {
			logger.Debug(msg, "story_id", e.StoryID, "scene_id", e.SceneID, "from", e.FromSceneID, "depth", e.Depth)
		}
	}
	return domain.LifecycleHooks{
		OnSceneEnter: scene("Enter Scene"),
		OnChoice:     scene("Choice"),
		OnBack:       scene("Back"),
		OnEnding:     scene("Ending Reached"),
		OnRestart:    scene("Restart"),
		OnStateChange: func(e *domain.StateEvent) {
			logger.Debug("State Change", "story_id", e.StoryID, "from", e.From, "to", e.To)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || errors.Is(err, errAborted)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
