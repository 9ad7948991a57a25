package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventSceneEnter  EventType = "scene_enter"
	EventChoice      EventType = "choice"
	EventBack        EventType = "back"
	EventEnding      EventType = "ending"
	EventRestart     EventType = "restart"
	EventStateChange EventType = "state_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	StoryID   string    `json:"story_id"`
}

// SceneEvent reports a move inside the scene graph.
type SceneEvent struct {
	EventBase
	SceneID     string `json:"scene_id"`
	FromSceneID string `json:"from_scene_id,omitempty"`
	ChoiceText  string `json:"choice_text,omitempty"`
	Depth       int    `json:"depth"` // History length after the move
}

// StateEvent reports a game state transition.
type StateEvent struct {
	EventBase
	From GameState `json:"from"`
	To   GameState `json:"to"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every hook is optional.
type LifecycleHooks struct {
	OnSceneEnter  func(*SceneEvent)
	OnChoice      func(*SceneEvent)
	OnBack        func(*SceneEvent)
	OnEnding      func(*SceneEvent)
	OnRestart     func(*SceneEvent)
	OnStateChange func(*StateEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSceneEnter:  chainScene(h.OnSceneEnter, other.OnSceneEnter),
		OnChoice:      chainScene(h.OnChoice, other.OnChoice),
		OnBack:        chainScene(h.OnBack, other.OnBack),
		OnEnding:      chainScene(h.OnEnding, other.OnEnding),
		OnRestart:     chainScene(h.OnRestart, other.OnRestart),
		OnStateChange: chainState(h.OnStateChange, other.OnStateChange),
	}
}

func chainScene(a, b func(*SceneEvent)) func(*SceneEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *SceneEvent) {
		a(e)
		b(e)
	}
}

func chainState(a, b func(*StateEvent)) func(*StateEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *StateEvent) {
		a(e)
		b(e)
	}
}
