package dsl

import (
	"fmt"

	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/memory"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// Builder manages story construction.
type Builder struct {
	story  domain.Story
	scenes []*SceneBuilder
	byID   map[string]*SceneBuilder
}

// New creates a builder for a story.
func New(id, title string) *Builder {
	return &Builder{
		story: domain.Story{ID: id, Title: title},
		byID:  make(map[string]*SceneBuilder),
	}
}

// Description sets the catalog blurb.
func (b *Builder) Description(text string) *Builder {
	b.story.Description = text
	return b
}

// Character adds a cast entry.
func (b *Builder) Character(name, role string) *Builder {
	b.story.Characters = append(b.story.Characters, domain.Character{Name: name, Role: role})
	return b
}

// Start sets the entry scene.
func (b *Builder) Start(sceneID string) *Builder {
	b.story.StartSceneID = sceneID
	return b
}

// Scene adds a scene to the story.
// If the scene already exists, it returns the existing builder.
func (b *Builder) Scene(id string) *SceneBuilder {
	if sb, ok := b.byID[id]; ok {
		return sb
	}
	sb := &SceneBuilder{scene: domain.Scene{ID: id}}
	b.byID[id] = sb
	b.scenes = append(b.scenes, sb)
	return sb
}

// Build validates and returns the story.
// The first scene added is the start scene unless Start was called.
func (b *Builder) Build() (*domain.Story, error) {
	story := b.story
	story.Characters = append([]domain.Character(nil), b.story.Characters...)
	story.Scenes = make([]domain.Scene, 0, len(b.scenes))
	for _, sb := range b.scenes {
		story.Scenes = append(story.Scenes, sb.Build())
	}
	if story.StartSceneID == "" && len(story.Scenes) > 0 {
		story.StartSceneID = story.Scenes[0].ID
	}

	if err := story.Validate(); err != nil {
		return nil, fmt.Errorf("invalid story %s: %w", story.ID, err)
	}
	story.Compile()
	return &story, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *domain.Story {
	story, err := b.Build()
	if err != nil {
		panic(err)
	}
	return story
}

// Loader builds the story and wraps it in a memory loader.
func (b *Builder) Loader() (*memory.Loader, error) {
	story, err := b.Build()
	if err != nil {
		return nil, err
	}
	return memory.NewLoader(story)
}
