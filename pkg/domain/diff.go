package domain

// SnapshotDiff represents the changes between two snapshots of the same playthrough.
// It is designed to be serialised to JSON for partial updates on the client.
type SnapshotDiff struct {
	StoryID string `json:"story_id"`

	// CurrentSceneID is set when the current scene moved.
	CurrentSceneID *string `json:"current_scene_id,omitempty"`

	// State is set when the game state changed.
	State *GameState `json:"state,omitempty"`

	// History describes how the history stack moved.
	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the history stack.
// Back navigation and restarts pop entries, choices append them.
type HistoryDelta struct {
	Removed  int      `json:"removed,omitempty"`
	Appended []string `json:"appended,omitempty"`
}

// Diff calculates the difference between old and new.
// It returns nil when nothing changed.
func Diff(old, new Snapshot) *SnapshotDiff {
	diff := &SnapshotDiff{StoryID: new.StoryID}

	if old.StoryID != new.StoryID || old.CurrentSceneID() != new.CurrentSceneID() {
		id := new.CurrentSceneID()
		diff.CurrentSceneID = &id
	}
	if old.State != new.State {
		state := new.State
		diff.State = &state
	}
	diff.History = diffHistory(old, new)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffHistory finds the common prefix of both histories; everything after it
// was either removed from old or appended in new.
func diffHistory(old, new Snapshot) *HistoryDelta {
	if old.StoryID != new.StoryID {
		if len(new.History) == 0 && len(old.History) == 0 {
			return nil
		}
		return &HistoryDelta{Removed: len(old.History), Appended: new.History}
	}

	common := 0
	for common < len(old.History) && common < len(new.History) && old.History[common] == new.History[common] {
		common++
	}

	removed := len(old.History) - common
	var appended []string
	if common < len(new.History) {
		appended = append(appended, new.History[common:]...)
	}
	if removed == 0 && len(appended) == 0 {
		return nil
	}
	return &HistoryDelta{Removed: removed, Appended: appended}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.CurrentSceneID == nil &&
		d.State == nil &&
		d.History == nil
}
