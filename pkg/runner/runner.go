package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/senacirak/DEU-DevClubGames/internal/dto"
	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
)

// Messages shown through IOHandler.SystemOutput.
const (
	MsgInvalidChoice = "Bu seçim şu an yapılamaz."
	MsgPaused        = "Oyun duraklatıldı. Devam etmek için p."
	MsgCannotGoBack  = "Daha geriye gidilemez."
	MsgNoStory       = "Seçili bir hikaye yok."
)

// Runner handles the play loop of one session using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store is the persistence adapter for resumable playthroughs.
	// If nil (or SessionID is empty), sessions are ephemeral.
	Store     ports.SessionStore
	SessionID string

	// Renderer is handed to the default TextHandler.
	Renderer ContentRenderer
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the session until the player quits, input ends or ctx is cancelled.
// The session must already have a story selected (see player.Session.SelectStory
// or Restore).
func (r *Runner) Run(ctx context.Context, s *player.Session) error {
	if s.Story() == nil {
		return errors.New(MsgNoStory)
	}
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	if err := r.saveState(ctx, s); err != nil {
		return err
	}

	redraw := true
	for {
		if redraw {
			if err := handler.Output(ctx, dto.NewSceneView(r.SessionID, s)); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}

		line, err := handler.Input(ctx)
		if err != nil {
			signals.CheckRace()
			if ctx.Err() != nil {
				r.Logger.Debug("runner interrupted", "err", ctx.Err())
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			redraw = false
			if err := handler.SystemOutput(ctx, err.Error()); err != nil {
				return err
			}
			continue
		}
		if cmd.Kind == CommandQuit {
			return nil
		}

		before := s.Snapshot()
		if msg := r.apply(s, cmd); msg != "" {
			redraw = false
			if err := handler.SystemOutput(ctx, msg); err != nil {
				return err
			}
			continue
		}
		redraw = true

		if domain.Diff(before, s.Snapshot()) == nil {
			continue
		}
		if err := r.saveState(ctx, s); err != nil {
			return fmt.Errorf("critical persistence error: %w", err)
		}
	}
}

// apply executes cmd and returns a message for the player when it was refused.
func (r *Runner) apply(s *player.Session, cmd Command) string {
	paused := s.GameState() == domain.StatePaused

	switch cmd.Kind {
	case CommandChoose:
		if paused {
			return MsgPaused
		}
		if !s.Choose(cmd.Index) {
			return MsgInvalidChoice
		}
	case CommandBack:
		if paused {
			return MsgPaused
		}
		if !s.GoBack() {
			return MsgCannotGoBack
		}
	case CommandRestart:
		s.RestartStory()
	case CommandPause:
		switch s.GameState() {
		case domain.StatePaused:
			s.ResumeGame()
		case domain.StatePlaying:
			s.PauseGame()
		default:
			return MsgInvalidChoice
		}
	}
	return ""
}

func (r *Runner) saveState(ctx context.Context, s *player.Session) error {
	if r.Store == nil || r.SessionID == "" {
		return nil
	}
	snap := s.Snapshot()
	if err := r.Store.Save(ctx, r.SessionID, snap); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "scene_id", snap.CurrentSceneID())
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	r.Handler = NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}
