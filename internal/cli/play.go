package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	devclub "github.com/senacirak/DEU-DevClubGames"
	"github.com/senacirak/DEU-DevClubGames/internal/presentation/tui"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
	"github.com/senacirak/DEU-DevClubGames/pkg/runner"
)

// PlayOptions configures the play command.
type PlayOptions struct {
	Dir       string
	StoryID   string
	SessionID string // Saves progress under this name when set
	Fresh     bool   // Discards the saved progress of SessionID first
	JSON      bool
	Watch     bool
	LogLevel  string

	In  io.Reader
	Out io.Writer
}

func (o *PlayOptions) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
}

// terminal returns stdout when it is an interactive terminal.
func (o *PlayOptions) terminal() (*os.File, bool) {
	f, ok := o.Out.(*os.File)
	if !ok || o.JSON || !tui.IsTerminal(f) {
		return nil, false
	}
	return f, true
}

// Play runs one interactive playthrough, or a watch loop with Watch.
func Play(ctx context.Context, opts PlayOptions) error {
	opts.defaults()
	logger, err := NewLogger(opts.LogLevel)
	if err != nil {
		return err
	}
	if opts.Watch {
		return Watch(ctx, opts, logger)
	}

	signals := runner.NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	if f, ok := opts.terminal(); ok {
		tui.PrintBanner(f, devclub.Version)
	}

	eng, err := createEngine(ctx, opts.Dir, logger)
	if err != nil {
		return err
	}

	var store ports.SessionStore
	if opts.SessionID != "" {
		store = SessionStore(opts.Dir)
	}

	handler := newHandler(opts, logger)
	s, err := openSession(ctx, eng, store, handler, opts, logger)
	if err != nil {
		return handleExecutionError(err)
	}

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithStore(store),
		runner.WithSessionID(opts.SessionID),
	)
	runErr := r.Run(ctx, s)
	logCompletion(opts, s)
	return handleExecutionError(runErr)
}

func newHandler(opts PlayOptions, logger *slog.Logger) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(opts.In, opts.Out)
	}

	var handlerOpts []runner.TextHandlerOption
	if f, ok := opts.terminal(); ok {
		render, err := tui.NewRendererWidth(tui.Width(f))
		if err != nil {
			logger.Warn("Markdown renderer unavailable", "err", err)
		} else {
			handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(render))
		}
	}
	return runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)
}

// openSession resumes the saved playthrough of opts.SessionID or starts a new one.
func openSession(ctx context.Context, eng *devclub.Engine, store ports.SessionStore, handler runner.IOHandler, opts PlayOptions, logger *slog.Logger) (*player.Session, error) {
	if store != nil {
		if opts.Fresh {
			if err := store.Delete(ctx, opts.SessionID); err != nil {
				return nil, fmt.Errorf("failed to reset session: %w", err)
			}
		}

		snap, err := store.Load(ctx, opts.SessionID)
		switch {
		case err == nil:
			if opts.StoryID != "" && snap.StoryID != opts.StoryID {
				return nil, fmt.Errorf("session '%s' belongs to story '%s'", opts.SessionID, snap.StoryID)
			}
			s, err := eng.Resume(snap)
			if err != nil {
				return nil, fmt.Errorf("session '%s' cannot be resumed: %w", opts.SessionID, err)
			}
			logger.Info("Session Resumed", "session_id", opts.SessionID, "scene_id", snap.CurrentSceneID())
			if !opts.JSON {
				printSystemMessage(opts.Out, "'%s' sahnesinden devam ediliyor...", snap.CurrentSceneID())
			}
			return s, nil
		case !errors.Is(err, domain.ErrSessionNotFound):
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	storyID := opts.StoryID
	if storyID == "" {
		if opts.JSON {
			return nil, errors.New("a story id is required in JSON mode")
		}
		var err error
		if storyID, err = pickStory(ctx, handler, opts.Out, eng.Stories()); err != nil {
			return nil, err
		}
	}

	s, err := eng.NewSession(storyID)
	if err != nil {
		return nil, err
	}
	if opts.SessionID != "" {
		logger.Info("Session Created", "session_id", opts.SessionID, "story_id", storyID)
	}
	return s, nil
}

// pickStory lists the catalog and reads a number or a story ID.
func pickStory(ctx context.Context, handler runner.IOHandler, w io.Writer, stories []*domain.Story) (string, error) {
	if len(stories) == 1 {
		return stories[0].ID, nil
	}

	fmt.Fprintln(w, "Hikayeler:")
	for i, story := range stories {
		fmt.Fprintf(w, "  %d. %s", i+1, story.Title)
		if story.Description != "" {
			fmt.Fprintf(w, ": %s", story.Description)
		}
		fmt.Fprintln(w)
	}

	for {
		line, err := handler.Input(ctx)
		if err != nil {
			if isInterrupted(err) {
				return "", errAborted
			}
			return "", err
		}
		line = strings.TrimSpace(line)
		if cmd, err := runner.ParseCommand(line); err == nil && cmd.Kind == runner.CommandQuit {
			return "", errAborted
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(stories) {
			return stories[n-1].ID, nil
		}
		for _, story := range stories {
			if story.ID == line {
				return story.ID, nil
			}
		}
		if err := handler.SystemOutput(ctx, fmt.Sprintf("Geçersiz seçim: 1-%d arası bir numara girin.", len(stories))); err != nil {
			return "", err
		}
	}
}

func logCompletion(opts PlayOptions, s *player.Session) {
	if opts.JSON {
		return
	}
	if s.IsGameEnded() {
		printSystemMessage(opts.Out, "Hikaye sona erdi.")
	} else {
		printSystemMessage(opts.Out, "Oyun '%s' sahnesinde bırakıldı.", s.Snapshot().CurrentSceneID())
	}
	if opts.SessionID != "" {
		printSystemMessage(opts.Out, "Devam etmek için: devclub play --session %s", opts.SessionID)
	}
}
