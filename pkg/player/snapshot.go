package player

import (
	"fmt"

	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// Snapshot captures the session for persistence.
func (s *Session) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		History: s.History(),
		State:   s.state,
	}
	if s.story != nil {
		snap.StoryID = s.story.ID
	}
	return snap
}

// Restore replaces the session with a snapshot taken against story.
// The history must start at the story's start scene and every step must
// follow one of the previous scene's choices.
func (s *Session) Restore(story *domain.Story, snap domain.Snapshot) error {
	if story == nil {
		return fmt.Errorf("%w: no story", domain.ErrInvalidSnapshot)
	}
	if snap.StoryID != story.ID {
		return fmt.Errorf("%w: snapshot belongs to story '%s', not '%s'", domain.ErrInvalidSnapshot, snap.StoryID, story.ID)
	}
	if !snap.State.Valid() || snap.State == domain.StateSelection {
		return fmt.Errorf("%w: unexpected state '%s'", domain.ErrInvalidSnapshot, snap.State)
	}
	if len(snap.History) == 0 {
		return fmt.Errorf("%w: empty history", domain.ErrInvalidSnapshot)
	}
	if snap.History[0] != story.StartSceneID {
		return fmt.Errorf("%w: history starts at '%s', not the start scene", domain.ErrInvalidSnapshot, snap.History[0])
	}

	var current *domain.Scene
	for i, id := range snap.History {
		scene, ok := story.Scene(id)
		if !ok {
			return fmt.Errorf("%w: unknown scene '%s'", domain.ErrInvalidSnapshot, id)
		}
		if i > 0 && !leadsTo(current, id) {
			return fmt.Errorf("%w: no choice leads from '%s' to '%s'", domain.ErrInvalidSnapshot, current.ID, id)
		}
		current = scene
	}

	s.story = story
	s.characters = append([]domain.Character(nil), story.Characters...)
	s.scene = current
	s.history = append([]string(nil), snap.History...)
	s.state = snap.State
	s.logger = s.base.With("story_id", story.ID)
	return nil
}

func leadsTo(from *domain.Scene, id string) bool {
	for _, c := range from.Choices {
		if c.NextSceneID == id {
			return true
		}
	}
	return false
}
