package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	ended := StateEnded

	tests := []struct {
		name     string
		old      Snapshot
		new      Snapshot
		wantDiff *SnapshotDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Empty)",
			old:  Snapshot{},
			new:  Snapshot{StoryID: "s", History: []string{"start"}, State: StatePlaying},
			wantDiff: &SnapshotDiff{
				StoryID:        "s",
				CurrentSceneID: ptr("start"),
				History:        &HistoryDelta{Appended: []string{"start"}},
			},
		},
		{
			name:     "No Changes",
			old:      Snapshot{StoryID: "s", History: []string{"start"}, State: StatePlaying},
			new:      Snapshot{StoryID: "s", History: []string{"start"}, State: StatePlaying},
			wantDiff: nil,
		},
		{
			name: "Choice Into Ending",
			old:  Snapshot{StoryID: "s", History: []string{"start", "mid"}, State: StatePlaying},
			new:  Snapshot{StoryID: "s", History: []string{"start", "mid", "end"}, State: StateEnded},
			wantDiff: &SnapshotDiff{
				StoryID:        "s",
				CurrentSceneID: ptr("end"),
				State:          &ended,
				History:        &HistoryDelta{Appended: []string{"end"}},
			},
		},
		{
			name: "Go Back",
			old:  Snapshot{StoryID: "s", History: []string{"start", "mid"}, State: StatePlaying},
			new:  Snapshot{StoryID: "s", History: []string{"start"}, State: StatePlaying},
			wantDiff: &SnapshotDiff{
				StoryID:        "s",
				CurrentSceneID: ptr("start"),
				History:        &HistoryDelta{Removed: 1},
			},
		},
		{
			name: "Revisit Same Scene Through Another Path",
			old:  Snapshot{StoryID: "s", History: []string{"start", "a", "end"}, State: StatePlaying},
			new:  Snapshot{StoryID: "s", History: []string{"start", "b", "end"}, State: StatePlaying},
			wantDiff: &SnapshotDiff{
				StoryID: "s",
				History: &HistoryDelta{Removed: 2, Appended: []string{"b", "end"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.wantDiff)
			}

			if got.StoryID != tt.wantDiff.StoryID {
				t.Errorf("Diff().StoryID = %v, want %v", got.StoryID, tt.wantDiff.StoryID)
			}
			if !reflect.DeepEqual(got.History, tt.wantDiff.History) {
				t.Errorf("Diff().History = %+v, want %+v", got.History, tt.wantDiff.History)
			}
			if !equalPtr(got.CurrentSceneID, tt.wantDiff.CurrentSceneID) {
				t.Errorf("Diff().CurrentSceneID = %v, want %v", got.CurrentSceneID, tt.wantDiff.CurrentSceneID)
			}
			if !equalPtr(got.State, tt.wantDiff.State) {
				t.Errorf("Diff().State = %v, want %v", got.State, tt.wantDiff.State)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	old := Snapshot{StoryID: "s", History: []string{"start"}, State: StatePlaying}
	new := Snapshot{StoryID: "s", History: []string{"start"}, State: StatePaused}

	diff := Diff(old, new)
	if diff == nil {
		t.Fatal("Expected diff, got nil")
	}

	bytes, _ := json.Marshal(diff)
	if strings.Contains(string(bytes), `"history"`) {
		t.Errorf("JSON should not contain 'history' when unchanged, got: %s", string(bytes))
	}
	if !strings.Contains(string(bytes), `"state":"paused"`) {
		t.Errorf("JSON should contain the new state, got: %s", string(bytes))
	}
}

func ptr[T any](v T) *T {
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
