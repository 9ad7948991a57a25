package memory

import (
	"context"
	"fmt"

	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// Loader implements ports.StoryLoader over stories built in code.
type Loader struct {
	stories []*domain.Story
}

// NewLoader creates a loader that returns the given stories in order.
func NewLoader(stories ...*domain.Story) (*Loader, error) {
	for i, s := range stories {
		if s == nil {
			return nil, fmt.Errorf("story %d is nil", i)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("story %d missing ID", i)
		}
	}
	return &Loader{stories: stories}, nil
}

// LoadStories returns the stored stories.
func (l *Loader) LoadStories(ctx context.Context) ([]*domain.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]*domain.Story(nil), l.stories...), nil
}
