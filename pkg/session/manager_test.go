package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/memory"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/redis"
	"github.com/senacirak/DEU-DevClubGames/pkg/catalog"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/dsl"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	"github.com/senacirak/DEU-DevClubGames/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore simulates I/O latency and counts writes.
type countingStore struct {
	*memory.Store
	saves atomic.Int32
}

func (s *countingStore) Save(ctx context.Context, id string, snap domain.Snapshot) error {
	time.Sleep(time.Millisecond)
	s.saves.Add(1)
	return s.Store.Save(ctx, id, snap)
}

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	b := dsl.New("orman", "Orman")
	b.Scene("start").Content("Merhaba.").Choice("Yürü", "loop").Choice("Bitir", "end")
	b.Scene("loop").Content("Yol devam ediyor.").Choice("Yürümeye devam et", "loop").Choice("Bitir", "end")
	b.Scene("end").Ending()

	c := catalog.New()
	require.NoError(t, c.Register(b.MustBuild()))
	return c
}

func newManager(t *testing.T, opts ...session.Option) (*session.Manager, *countingStore) {
	t.Helper()
	store := &countingStore{Store: memory.NewStore()}
	return session.NewManager(newCatalog(t), store, opts...), store
}

func TestManager_StartAndLoad(t *testing.T) {
	m, _ := newManager(t, session.WithIDGenerator(func() string { return "sabit" }))
	ctx := context.Background()

	id, s, err := m.Start(ctx, "orman")
	require.NoError(t, err)
	assert.Equal(t, "sabit", id)
	assert.Equal(t, []string{"start"}, s.History())

	loaded, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sabit"}, ids)
}

func TestManager_StartUnknownStory(t *testing.T) {
	m, _ := newManager(t)
	_, _, err := m.Start(context.Background(), "yok")
	assert.ErrorIs(t, err, domain.ErrStoryNotFound)
	assert.True(t, session.IsNotFound(err))
}

func TestManager_Apply(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	id, _, err := m.Start(ctx, "orman")
	require.NoError(t, err)
	require.EqualValues(t, 1, store.saves.Load())

	s, err := m.Apply(ctx, id, func(s *player.Session) error {
		s.Choose(0)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "loop"}, s.History())
	assert.EqualValues(t, 2, store.saves.Load())

	_, err = m.Apply(ctx, id, func(s *player.Session) error {
		s.Choose(7)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, store.saves.Load(), "unchanged sessions are not saved")

	boom := errors.New("boom")
	_, err = m.Apply(ctx, id, func(s *player.Session) error {
		s.Choose(1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "loop"}, loaded.History(), "failed updates are discarded")
}

func TestManager_ApplyMissing(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Apply(context.Background(), "yok", func(*player.Session) error { return nil })
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_Delete(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	id, _, err := m.Start(ctx, "orman")
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, id))

	_, err = m.Load(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(ctx, id), domain.ErrSessionNotFound)
}

func TestManager_StoryRemoved(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "eski", domain.Snapshot{StoryID: "kayip", History: []string{"start"}, State: domain.StatePlaying}))

	m := session.NewManager(newCatalog(t), store)
	_, err := m.Load(ctx, "eski")
	assert.True(t, session.IsNotFound(err))
}

func TestManager_ConcurrentApply(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	id, _, err := m.Start(ctx, "orman")
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Apply(ctx, id, func(s *player.Session) error {
				s.Choose(0)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, s.History(), workers+1, "every update must survive")
}

func TestManager_Hooks(t *testing.T) {
	var entered atomic.Int32
	hooks := domain.LifecycleHooks{
		OnSceneEnter: func(*domain.SceneEvent) { entered.Add(1) },
	}
	m, _ := newManager(t, session.WithHooks(hooks))
	ctx := context.Background()

	id, _, err := m.Start(ctx, "orman")
	require.NoError(t, err)
	_, err = m.Apply(ctx, id, func(s *player.Session) error {
		s.Choose(1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, entered.Load())
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, redis.DefaultPrefix)

	var n atomic.Int32
	m := session.NewManager(newCatalog(t), store,
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
		session.WithIDGenerator(func() string { return fmt.Sprintf("s-%d", n.Add(1)) }),
	)
	ctx := context.Background()

	id, _, err := m.Start(ctx, "orman")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Apply(ctx, id, func(s *player.Session) error {
				s.Choose(0)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, s.History(), 4)
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:"+id), "locks are released")
}
