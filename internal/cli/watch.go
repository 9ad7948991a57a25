package cli

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	devclub "github.com/senacirak/DEU-DevClubGames"
	"github.com/senacirak/DEU-DevClubGames/internal/presentation/tui"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
	"github.com/senacirak/DEU-DevClubGames/pkg/runner"
)

// settleDelay lets editors finish writing before the stories are reloaded.
const settleDelay = 100 * time.Millisecond

// Watch plays a story from opts.Dir and reloads the catalog whenever a story
// file changes. Progress is kept in the session store across reloads, so the
// player stays on the same scene as long as the edited story still has it.
func Watch(ctx context.Context, opts PlayOptions, logger *slog.Logger) error {
	opts.defaults()
	if opts.Dir == "" {
		return errors.New("--watch needs a story directory (--dir)")
	}
	if opts.JSON {
		return errors.New("--watch and --json cannot be used together")
	}
	abs, err := filepath.Abs(opts.Dir)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	opts.Dir = abs

	// Watch mode is always stateful; the default session is scoped by path.
	if opts.SessionID == "" {
		hash := md5.Sum([]byte(abs))
		opts.SessionID = fmt.Sprintf("watch-%x", hash[:4])
	}
	store := SessionStore(opts.Dir)
	if opts.Fresh {
		if err := store.Delete(ctx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		opts.Fresh = false
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()
	if err := addTree(watcher, opts.Dir); err != nil {
		return err
	}

	signals := runner.NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	changes := make(chan string, 1)
	go forwardChanges(ctx, watcher, changes, logger)

	if f, ok := opts.terminal(); ok {
		tui.PrintBanner(f, devclub.Version)
	}
	logger.Info("Starting Watcher", "path", opts.Dir, "session_id", opts.SessionID)
	printSystemMessage(opts.Out, "'%s' izleniyor.", opts.Dir)

	// One handler for every iteration so only one goroutine reads stdin.
	handler := newHandler(opts, logger)
	for {
		reload, err := watchIteration(ctx, opts, store, handler, changes, logger)
		if err != nil || !reload {
			return handleExecutionError(err)
		}
		logger.Info("Watcher restarting")
	}
}

// watchIteration plays until the player quits (false), a story file
// changes (true) or ctx is done (false).
func watchIteration(ctx context.Context, opts PlayOptions, store ports.SessionStore, handler runner.IOHandler, changes <-chan string, logger *slog.Logger) (bool, error) {
	eng, err := createEngine(ctx, opts.Dir, logger)
	if err != nil {
		logger.Error("Engine initialization failed", "err", err)
		printSystemMessage(opts.Out, "Hikayeler yüklenemedi: %v", err)
		printSystemMessage(opts.Out, "Değişiklik bekleniyor...")
		return waitForChange(ctx, changes)
	}

	s, err := openSession(ctx, eng, store, handler, opts, logger)
	if errors.Is(err, domain.ErrInvalidSnapshot) || errors.Is(err, domain.ErrStoryNotFound) {
		// The edit removed the path the player was on.
		printSystemMessage(opts.Out, "Kayıtlı ilerleme artık geçerli değil, hikaye baştan başlıyor.")
		if err := store.Delete(ctx, opts.SessionID); err != nil {
			return false, err
		}
		s, err = openSession(ctx, eng, store, handler, opts, logger)
	}
	if err != nil {
		return false, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithStore(store),
		runner.WithSessionID(opts.SessionID),
	)
	done := make(chan error, 1)
	go func() {
		done <- r.Run(runCtx, s)
	}()

	select {
	case <-ctx.Done():
		cancel()
		<-done
		logger.Info("Stopping watcher (signal received)")
		return false, nil
	case name := <-changes:
		cancel()
		<-done
		fmt.Fprintln(opts.Out)
		printSystemMessage(opts.Out, "'%s' değişti, yeniden yükleniyor.", filepath.Base(name))
		return true, nil
	case err := <-done:
		logCompletion(opts, s)
		return false, err
	}
}

func waitForChange(ctx context.Context, changes <-chan string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, nil
	case <-changes:
		return true, nil
	}
}

// forwardChanges relays story file events, coalescing bursts into one.
func forwardChanges(ctx context.Context, w *fsnotify.Watcher, out chan<- string, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", "err", err)
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				// New story repositories must be watched too.
				_ = addTree(w, ev.Name)
			}
			if !isStorySource(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("Change detected", "file", ev.Name, "op", ev.Op.String())
			time.Sleep(settleDelay)
			select {
			case out <- ev.Name:
			default:
			}
		}
	}
}

// addTree watches root and every directory below it, skipping hidden ones
// such as the session store.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func isStorySource(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".yaml", ".yml":
		return true
	}
	return false
}
