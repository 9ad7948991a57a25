package player

import "github.com/senacirak/DEU-DevClubGames/pkg/domain"

// CurrentScene returns the active scene, if any.
func (s *Session) CurrentScene() (*domain.Scene, bool) {
	return s.scene, s.scene != nil
}

// CurrentSceneTitle returns the active scene's title, or "".
func (s *Session) CurrentSceneTitle() string {
	if s.scene == nil {
		return ""
	}
	return s.scene.Title
}

// CurrentSceneContent returns the active scene's raw content, or "".
func (s *Session) CurrentSceneContent() string {
	if s.scene == nil {
		return ""
	}
	return s.scene.Content
}

// CurrentChoices returns the active scene's choices, or nil.
func (s *Session) CurrentChoices() []domain.Choice {
	if s.scene == nil {
		return nil
	}
	return s.scene.Choices
}

// CurrentCharacterInfo returns the active scene's cast blurb, or "".
func (s *Session) CurrentCharacterInfo() string {
	if s.scene == nil {
		return ""
	}
	return s.scene.CharacterInfo
}

// CanGoBack reports whether GoBack would move.
func (s *Session) CanGoBack() bool {
	return len(s.history) > 1
}

// IsGameEnded reports whether the session is in the ended state.
func (s *Session) IsGameEnded() bool {
	return s.state == domain.StateEnded
}

// GameState returns the current phase.
func (s *Session) GameState() domain.GameState {
	return s.state
}

// History returns a copy of the visited scene identifiers, oldest first.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// Story returns the loaded story, or nil.
func (s *Session) Story() *domain.Story {
	return s.story
}

// Characters returns the cast of the loaded story.
func (s *Session) Characters() []domain.Character {
	return append([]domain.Character(nil), s.characters...)
}
