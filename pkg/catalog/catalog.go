// Package catalog holds the set of playable stories.
//
// Stories are validated and indexed when registered, so every story handed
// out by a Catalog is a well-formed scene graph. A Catalog is safe for
// concurrent reads once populated.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
)

// Catalog is an ordered registry of stories keyed by ID.
type Catalog struct {
	mu      sync.RWMutex
	stories []*domain.Story
	byID    map[string]*domain.Story
	logger  *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets a structured logger for the catalog.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		byID:   make(map[string]*domain.Story),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register validates a story, builds its scene index and adds it.
func (c *Catalog) Register(story *domain.Story) error {
	if story == nil {
		return errors.New("nil story")
	}
	if err := story.Validate(); err != nil {
		return err
	}
	story.Compile()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[story.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateStory, story.ID)
	}
	c.byID[story.ID] = story
	c.stories = append(c.stories, story)

	c.logger.Debug("story registered", "story_id", story.ID, "scenes", len(story.Scenes))
	return nil
}

// Load registers every story returned by loader.
// Invalid stories are skipped; their errors are returned together.
func (c *Catalog) Load(ctx context.Context, loader ports.StoryLoader) error {
	stories, err := loader.LoadStories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stories: %w", err)
	}

	var errs []error
	for i, story := range stories {
		if err := c.Register(story); err != nil {
			c.logger.Warn("story rejected", "index", i, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Get returns the story with the given ID.
func (c *Catalog) Get(id string) (*domain.Story, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	story, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoryNotFound, id)
	}
	return story, nil
}

// List returns the stories in registration order.
func (c *Catalog) List() []*domain.Story {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.Story(nil), c.stories...)
}

// Len returns the number of registered stories.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stories)
}
