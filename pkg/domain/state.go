package domain

// GameState is the phase of a playthrough.
type GameState string

const (
	StateSelection GameState = "selection" // No active story; browsing the catalog
	StatePlaying   GameState = "playing"   // Scene active, choices offered
	StatePaused    GameState = "paused"    // Scene retained, input suspended
	StateEnded     GameState = "ended"     // Terminal scene reached
)

// Valid reports whether g is one of the known states.
func (g GameState) Valid() bool {
	switch g {
	case StateSelection, StatePlaying, StatePaused, StateEnded:
		return true
	}
	return false
}

// Snapshot is the serialisable state of one playthrough.
// The current scene is always the last history entry.
type Snapshot struct {
	StoryID string    `json:"story_id"`
	History []string  `json:"history"`
	State   GameState `json:"state"`

	// Sealed holds the encrypted snapshot when an encrypting store wrapper
	// is in use; History is empty then.
	Sealed string `json:"sealed,omitempty"`
}

// CurrentSceneID returns the last history entry, or "" for an empty history.
func (s Snapshot) CurrentSceneID() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1]
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	next := s
	next.History = append([]string(nil), s.History...)
	return next
}
