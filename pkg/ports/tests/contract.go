package tests

import (
	"context"
	"testing"
	"time"

	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store ports.SessionStore) {
	t.Helper()

	ctx := context.Background()
	sessionID := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.Snapshot{StoryID: "kayip-anahtar", History: []string{"baslangic", "kapi"}, State: domain.StatePaused}
		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, snap, loaded)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		snap := domain.Snapshot{StoryID: "kayip-anahtar", History: []string{"baslangic"}, State: domain.StatePlaying}
		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"baslangic"}, loaded.History)
		assert.Equal(t, domain.StatePlaying, loaded.State)
	})

	t.Run("Isolation", func(t *testing.T) {
		snap := domain.Snapshot{StoryID: "s", History: []string{"a"}, State: domain.StatePlaying}
		require.NoError(t, store.Save(ctx, sessionID, snap))
		snap.History[0] = "mutated"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, loaded.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.Snapshot{StoryID: "s", History: []string{"a"}, State: domain.StatePlaying}))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		snap := domain.Snapshot{StoryID: "s", History: []string{"a"}, State: domain.StatePlaying}
		require.NoError(t, store.Save(ctx, id1, snap))
		require.NoError(t, store.Save(ctx, id2, snap))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunStoryLoaderContract verifies that a StoryLoader returns exactly the
// expected stories, each of which must pass validation.
func RunStoryLoaderContract(t *testing.T, loader ports.StoryLoader, want map[string]int) {
	t.Helper()

	stories, err := loader.LoadStories(context.Background())
	require.NoError(t, err)
	require.Len(t, stories, len(want))

	for _, story := range stories {
		scenes, ok := want[story.ID]
		if !assert.True(t, ok, "unexpected story %s", story.ID) {
			continue
		}
		assert.Len(t, story.Scenes, scenes, "scene count of %s", story.ID)
		assert.NoError(t, story.Validate(), "story %s", story.ID)
	}
}
