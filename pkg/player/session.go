package player

import (
	"log/slog"
	"time"

	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// Session is the mutable state of one playthrough.
type Session struct {
	story      *domain.Story
	characters []domain.Character
	scene      *domain.Scene
	history    []string
	state      domain.GameState

	base   *slog.Logger
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// New creates a session in the selection state.
func New(opts ...Option) *Session {
	s := &Session{
		state:  domain.StateSelection,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.base = s.logger
	return s
}

// SelectStory loads a story, resets the cast list and starts it.
// A nil story is ignored.
func (s *Session) SelectStory(story *domain.Story) bool {
	if story == nil {
		return false
	}
	s.story = story
	s.characters = append([]domain.Character(nil), story.Characters...)
	s.logger = s.base.With("story_id", story.ID)
	return s.StartStory()
}

// StartStory moves to the start scene of the current story with a fresh history.
// Without a story, or when the start scene does not exist, nothing changes.
func (s *Session) StartStory() bool {
	if s.story == nil {
		return false
	}

	start, ok := s.story.StartScene()
	if !ok {
		s.logger.Warn("start scene not found", "scene_id", s.story.StartSceneID)
		return false
	}

	s.scene = start
	s.history = []string{start.ID}
	s.setState(domain.StatePlaying)

	s.logger.Debug("story started", "scene_id", start.ID)
	s.emitScene(s.hooks.OnSceneEnter, domain.EventSceneEnter, "", "")
	return true
}

// MakeChoice follows a choice to its target scene.
// Inert choices, a missing story and unknown targets are no-ops.
func (s *Session) MakeChoice(choice domain.Choice) bool {
	if choice.Inert() || s.story == nil {
		return false
	}

	next, ok := s.story.Scene(choice.NextSceneID)
	if !ok {
		s.logger.Warn("choice targets unknown scene", "scene_id", choice.NextSceneID)
		return false
	}

	from := s.currentID()
	s.scene = next
	s.history = append(s.history, next.ID)

	s.logger.Debug("choice made", "from", from, "scene_id", next.ID)
	s.emitScene(s.hooks.OnChoice, domain.EventChoice, from, choice.Text)
	s.emitScene(s.hooks.OnSceneEnter, domain.EventSceneEnter, from, choice.Text)

	if next.IsEnding {
		s.setState(domain.StateEnded)
		s.emitScene(s.hooks.OnEnding, domain.EventEnding, from, choice.Text)
	} else {
		s.setState(domain.StatePlaying)
	}
	return true
}

// Choose makes the choice at index among the current scene's choices.
// An index out of range is a no-op.
func (s *Session) Choose(index int) bool {
	choices := s.CurrentChoices()
	if index < 0 || index >= len(choices) {
		return false
	}
	return s.MakeChoice(choices[index])
}

// GoBack returns to the previous scene in the history.
// It never goes back past the start scene and leaves the game state as is:
// stepping back from an ending keeps the session ended until ResumeGame or
// a new choice.
func (s *Session) GoBack() bool {
	if len(s.history) < 2 {
		return false
	}

	from := s.currentID()
	s.history = s.history[:len(s.history)-1]

	if prev, ok := s.story.Scene(s.history[len(s.history)-1]); ok {
		s.scene = prev
	}

	s.logger.Debug("went back", "from", from, "scene_id", s.currentID())
	s.emitScene(s.hooks.OnBack, domain.EventBack, from, "")
	return true
}

// RestartStory replays the current story from its start scene.
func (s *Session) RestartStory() bool {
	from := s.currentID()
	s.history = nil
	if !s.StartStory() {
		return false
	}
	s.emitScene(s.hooks.OnRestart, domain.EventRestart, from, "")
	return true
}

// PauseGame suspends input; scene and history are kept.
func (s *Session) PauseGame() {
	s.setState(domain.StatePaused)
}

// ResumeGame returns to the playing state.
func (s *Session) ResumeGame() {
	s.setState(domain.StatePlaying)
}

// Exit discards the playthrough and returns to story selection.
func (s *Session) Exit() {
	s.story = nil
	s.characters = nil
	s.scene = nil
	s.history = nil
	s.logger = s.base
	s.setState(domain.StateSelection)
}

func (s *Session) setState(next domain.GameState) {
	prev := s.state
	if prev == next {
		return
	}
	s.state = next
	if s.hooks.OnStateChange != nil {
		s.hooks.OnStateChange(&domain.StateEvent{
			EventBase: s.eventBase(domain.EventStateChange),
			From:      prev,
			To:        next,
		})
	}
}

func (s *Session) emitScene(hook func(*domain.SceneEvent), typ domain.EventType, from, choiceText string) {
	if hook == nil {
		return
	}
	hook(&domain.SceneEvent{
		EventBase:   s.eventBase(typ),
		SceneID:     s.currentID(),
		FromSceneID: from,
		ChoiceText:  choiceText,
		Depth:       len(s.history),
	})
}

func (s *Session) eventBase(typ domain.EventType) domain.EventBase {
	base := domain.EventBase{Timestamp: s.now(), Type: typ}
	if s.story != nil {
		base.StoryID = s.story.ID
	}
	return base
}

func (s *Session) currentID() string {
	if s.scene == nil {
		return ""
	}
	return s.scene.ID
}
