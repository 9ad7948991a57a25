package player

import "github.com/senacirak/DEU-DevClubGames/pkg/domain"

// View is a read-only picture of a session.
// It is one of NoStory, Playing, Paused or Ended.
type View interface {
	isView()
}

// NoStory is the view while no story is active.
type NoStory struct{}

// Position is the part of a view shared by every active state.
type Position struct {
	Story   *domain.Story
	Scene   *domain.Scene
	History []string
}

// Playing is the view while choices are accepted.
type Playing struct{ Position }

// Paused is the view while input is suspended.
type Paused struct{ Position }

// Ended is the view once a terminal scene has been reached.
type Ended struct{ Position }

func (NoStory) isView() {}
func (Playing) isView() {}
func (Paused) isView()  {}
func (Ended) isView()   {}

// View returns the current state of the session as a tagged value.
func (s *Session) View() View {
	if s.story == nil || s.scene == nil {
		return NoStory{}
	}

	pos := Position{Story: s.story, Scene: s.scene, History: s.History()}
	switch s.state {
	case domain.StatePaused:
		return Paused{pos}
	case domain.StateEnded:
		return Ended{pos}
	case domain.StatePlaying:
		return Playing{pos}
	default:
		return NoStory{}
	}
}
