package ports

import (
	"context"

	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// StoryLoader defines how the catalog retrieves story definitions.
// Loaders return stories as authored; validation happens on registration.
type StoryLoader interface {
	// LoadStories returns every story the source holds, in a stable order.
	LoadStories(ctx context.Context) ([]*domain.Story, error)
}
