package devclub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/internal/samples"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/loam"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/yaml"
	"github.com/senacirak/DEU-DevClubGames/pkg/catalog"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
)

// Engine is the high-level entry point of the library.
// It owns a loaded catalog and creates sessions wired with its hooks and logger.
type Engine struct {
	Catalog *catalog.Catalog
	Name    string

	loader ports.StoryLoader
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom StoryLoader, bypassing directory detection.
func WithLoader(l ports.StoryLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLifecycleHooks registers observability hooks on every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New loads every story found at dir into a fresh catalog.
// An empty dir selects the built-in sample stories; see LoaderFor.
func New(ctx context.Context, dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		logger: logging.NewNop(),
		Name:   "samples",
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if dir != "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return nil, fmt.Errorf("invalid path: %w", err)
			}
			dir = abs
			eng.Name = filepath.Base(abs)
		}
		eng.loader = LoaderFor(dir)
	} else {
		eng.Name = "custom"
	}

	eng.Catalog = catalog.New(catalog.WithLogger(eng.logger))
	if err := eng.Catalog.Load(ctx, eng.loader); err != nil {
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}
	if eng.Catalog.Len() == 0 {
		return nil, fmt.Errorf("no stories found in %s", eng.Name)
	}
	eng.logger.Debug("catalog loaded", "source", eng.Name, "stories", eng.Catalog.Len())
	return eng, nil
}

// Loader returns the story loader the catalog was built from.
func (e *Engine) Loader() ports.StoryLoader {
	return e.loader
}

// Hooks returns the lifecycle hooks applied to new sessions.
func (e *Engine) Hooks() domain.LifecycleHooks {
	return e.hooks
}

// Stories lists the catalog in load order.
func (e *Engine) Stories() []*domain.Story {
	return e.Catalog.List()
}

// NewSession starts a playthrough of storyID.
func (e *Engine) NewSession(storyID string) (*player.Session, error) {
	story, err := e.Catalog.Get(storyID)
	if err != nil {
		return nil, err
	}
	s := e.session()
	if !s.SelectStory(story) {
		return nil, fmt.Errorf("story %s cannot be started", storyID)
	}
	return s, nil
}

// Resume rebuilds a playthrough from a snapshot.
func (e *Engine) Resume(snap domain.Snapshot) (*player.Session, error) {
	story, err := e.Catalog.Get(snap.StoryID)
	if err != nil {
		return nil, err
	}
	s := e.session()
	if err := s.Restore(story, snap); err != nil {
		return nil, err
	}
	return s, nil
}

func (e *Engine) session() *player.Session {
	return player.New(player.WithLogger(e.logger), player.WithHooks(e.hooks))
}

// LoaderFor picks the story source for dir:
//   - "" yields the embedded sample stories;
//   - a Markdown story repository (story.md at its root) is one story;
//   - any other directory yields its YAML story files plus every
//     Markdown repository directly below it.
func LoaderFor(dir string) ports.StoryLoader {
	if dir == "" {
		return samples.Loader()
	}
	if loam.IsRepository(dir) {
		return loam.NewDirLoader(dir)
	}
	return multiLoader{yaml.NewDirLoader(dir), loam.NewDirLoader(dir)}
}

// multiLoader concatenates the stories of several loaders.
type multiLoader []ports.StoryLoader

func (m multiLoader) LoadStories(ctx context.Context) ([]*domain.Story, error) {
	var (
		stories []*domain.Story
		errs    []error
	)
	for _, l := range m {
		loaded, err := l.LoadStories(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stories = append(stories, loaded...)
	}
	return stories, errors.Join(errs...)
}
