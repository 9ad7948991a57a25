package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/senacirak/DEU-DevClubGames/internal/config"
	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/internal/testutils"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kapiStory = `id: kapi
title: Kapı
description: İki odalı kısa bir hikaye.
characters:
  - Ece (Kahraman)
start: giris
scenes:
  - id: giris
    title: Giriş
    content: |
      Karşında bir kapı var.
      "Ece (Kahraman): "Meraklı bir öğrenci.""
    choices:
      - text: "-> Kapıyı aç"
        next: oda
      - text: Pencereden bak
  - id: oda
    title: Oda
    content: Oda boş.
    ending: true
`

func storyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"kapi.yaml": kapiStory})
	return dir
}

func TestPlay_Text(t *testing.T) {
	dir := storyDir(t)
	var out bytes.Buffer

	err := Play(context.Background(), PlayOptions{
		Dir:      dir,
		StoryID:  "kapi",
		LogLevel: "error",
		In:       strings.NewReader("2\n1\nq\n"),
		Out:      &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "## Giriş")
	assert.Contains(t, text, "> **Ece** (Kahraman): Meraklı bir öğrenci.")
	assert.Contains(t, text, "1. Kapıyı aç")
	assert.Contains(t, text, "2. ~~Pencereden bak~~")
	assert.Contains(t, text, "[!] ", "the inert choice is refused")
	assert.Contains(t, text, "## Oda")
	assert.Contains(t, text, ">>> Hikaye sona erdi.")
}

func TestPlay_MarkdownRepository(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"fener/story.md": "---\nid: fener\ntitle: Fener\nstart: kiyi\n---\n",
		"fener/kiyi.md":  "---\ntitle: Kıyı\nchoices:\n  - text: Tırman\n    next: tepe\n---\nDalgalar kayalara vuruyor.\n",
		"fener/tepe.md":  "---\ntitle: Tepe\nending: true\n---\nFener yeniden yanıyor.\n",
	})
	var out bytes.Buffer

	err := Play(context.Background(), PlayOptions{
		Dir:      dir,
		StoryID:  "fener",
		LogLevel: "error",
		In:       strings.NewReader("1\n"),
		Out:      &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "## Kıyı")
	assert.Contains(t, text, "Dalgalar kayalara vuruyor.", "scene bodies are read from the repository")
	assert.Contains(t, text, "Fener yeniden yanıyor.")
}

func TestPlay_PicksStory(t *testing.T) {
	var out bytes.Buffer

	err := Play(context.Background(), PlayOptions{
		LogLevel: "error",
		In:       strings.NewReader("9\norman-yolu\nq\n"),
		Out:      &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Hikayeler:")
	assert.Contains(t, text, "1. Kayıp Anahtar")
	assert.Contains(t, text, "2. Orman Yolu")
	assert.Contains(t, text, "Geçersiz seçim")
	assert.Contains(t, text, "## Yol Ayrımı")
	assert.Contains(t, text, "'yol-ayrimi' sahnesinde bırakıldı")
}

func TestPlay_QuitWhilePicking(t *testing.T) {
	var out bytes.Buffer
	err := Play(context.Background(), PlayOptions{LogLevel: "error", In: strings.NewReader("q\n"), Out: &out})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "##")

	out.Reset()
	err = Play(context.Background(), PlayOptions{LogLevel: "error", In: strings.NewReader(""), Out: &out})
	require.NoError(t, err, "EOF leaves quietly")
}

func TestPlay_JSON(t *testing.T) {
	var out bytes.Buffer
	err := Play(context.Background(), PlayOptions{
		StoryID:  "orman-yolu",
		JSON:     true,
		LogLevel: "error",
		In:       strings.NewReader("\"2\"\n\"q\"\n"),
		Out:      &out,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	var ev struct {
		Type  string `json:"type"`
		Scene struct {
			SceneID string `json:"scene_id"`
		} `json:"scene"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &ev))
	assert.Equal(t, "scene", ev.Type)
	assert.Equal(t, "tepe", ev.Scene.SceneID)

	err = Play(context.Background(), PlayOptions{JSON: true, LogLevel: "error", In: strings.NewReader(""), Out: io.Discard})
	require.Error(t, err, "JSON mode cannot prompt for a story")
}

func TestPlay_ResumesSession(t *testing.T) {
	dir := storyDir(t)
	play := func(input string, fresh bool) string {
		var out bytes.Buffer
		err := Play(context.Background(), PlayOptions{
			Dir:       dir,
			SessionID: "kayit",
			Fresh:     fresh,
			LogLevel:  "error",
			In:        strings.NewReader(input),
			Out:       &out,
		})
		require.NoError(t, err)
		return out.String()
	}

	first := play("1\nq\n", false)
	assert.Contains(t, first, "devclub play --session kayit")

	store := SessionStore(dir)
	snap, err := store.Load(context.Background(), "kayit")
	require.NoError(t, err)
	assert.Equal(t, []string{"giris", "oda"}, snap.History)
	assert.Equal(t, domain.StateEnded, snap.State)

	second := play("q\n", false)
	assert.Contains(t, second, "'oda' sahnesinden devam ediliyor")

	third := play("q\n", true)
	assert.Contains(t, third, "## Giriş")
	assert.NotContains(t, third, "devam ediliyor")
}

func TestPlay_SessionStoryMismatch(t *testing.T) {
	dir := storyDir(t)
	require.NoError(t, SessionStore(dir).Save(context.Background(), "s", domain.Snapshot{
		StoryID: "kapi", History: []string{"giris"}, State: domain.StatePlaying,
	}))

	err := Play(context.Background(), PlayOptions{
		Dir: dir, StoryID: "baska", SessionID: "s", LogLevel: "error",
		In: strings.NewReader(""), Out: io.Discard,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to story 'kapi'")
}

func TestPlay_BadOptions(t *testing.T) {
	err := Play(context.Background(), PlayOptions{LogLevel: "loud", Out: io.Discard})
	require.Error(t, err)

	err = Play(context.Background(), PlayOptions{StoryID: "yok", LogLevel: "error", In: strings.NewReader(""), Out: io.Discard})
	assert.ErrorIs(t, err, domain.ErrStoryNotFound)

	err = Play(context.Background(), PlayOptions{Watch: true, LogLevel: "error", Out: io.Discard})
	require.Error(t, err, "watch needs a directory")
}

func TestList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, List(context.Background(), "", &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "kayip-anahtar")
	assert.Contains(t, lines[2], "orman-yolu")
	assert.Contains(t, lines[2], "Deniz, Yaşlı Kadın")
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Validate(context.Background(), storyDir(t), &out))
		assert.Equal(t, "✅ kapi: 2 sahne, 1 son\n", out.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		dir := storyDir(t)
		testutils.WriteFiles(t, dir, map[string]string{
			"kopya.yaml": kapiStory,
			"bozuk.yaml": "id: bozuk\nstart: a\nscenes:\n  - id: a\n    choices:\n      - text: X\n        next: yok\n",
		})

		var out bytes.Buffer
		err := Validate(context.Background(), dir, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 of 3 stories are invalid")
		assert.Contains(t, out.String(), "❌ bozuk")
		assert.Contains(t, out.String(), "yok")
		assert.Contains(t, out.String(), "❌ kapi: "+domain.ErrDuplicateStory.Error())
	})

	t.Run("Empty", func(t *testing.T) {
		require.Error(t, Validate(context.Background(), t.TempDir(), io.Discard))
	})
}

func TestGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Graph(context.Background(), "", "orman-yolu", nil, &out))
	assert.True(t, strings.HasPrefix(out.String(), "graph TD\n"))
	assert.NotContains(t, out.String(), "current")

	out.Reset()
	require.NoError(t, Graph(context.Background(), "", "orman-yolu", []string{"yol-ayrimi", "tepe"}, &out))
	assert.Contains(t, out.String(), "current")

	err := Graph(context.Background(), "", "orman-yolu", []string{"yol-ayrimi", "koy"}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)

	err = Graph(context.Background(), "", "yok", nil, io.Discard)
	assert.ErrorIs(t, err, domain.ErrStoryNotFound)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	store := SessionStore(t.TempDir())

	var out bytes.Buffer
	require.NoError(t, ListSessions(ctx, store, &out))
	assert.Equal(t, "Kayıtlı oyun yok.\n", out.String())

	snap := domain.Snapshot{StoryID: "kapi", History: []string{"giris", "oda"}, State: domain.StateEnded}
	require.NoError(t, store.Save(ctx, "a", snap))

	out.Reset()
	require.NoError(t, ListSessions(ctx, store, &out))
	assert.Contains(t, out.String(), "- a: kapi @ oda [ended]")

	out.Reset()
	require.NoError(t, InspectSession(ctx, store, "a", &out))
	assert.Contains(t, out.String(), `"story_id": "kapi"`)
	assert.ErrorIs(t, InspectSession(ctx, store, "b", io.Discard), domain.ErrSessionNotFound)

	out.Reset()
	require.NoError(t, RemoveSessions(ctx, store, []string{"a", "b"}, &out))
	assert.Contains(t, out.String(), "'a' silindi")
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.Error(t, RemoveSessions(ctx, store, []string{"../x"}, io.Discard))
}

func testConfig() *config.Config {
	return &config.Config{
		Port:       8080,
		LogLevel:   "error",
		SessionTTL: time.Hour,
		LockTTL:    time.Second,
		Metrics:    true,
	}
}

func exercise(t *testing.T, handler http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"story_id":"orman-yolu"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotEmpty(t, view.SessionID)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+view.SessionID+"/choices", strings.NewReader(`{"index":1}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"scene_id":"tepe"`)
	return view.SessionID
}

func TestNewService_Memory(t *testing.T) {
	svc, err := NewService(context.Background(), testConfig(), logging.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	exercise(t, svc.Handler)

	rec := httptest.NewRecorder()
	svc.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `devclub_choices_total{story_id="orman-yolu"} 1`)
	assert.Contains(t, rec.Body.String(), "devclub_http_requests_total")
}

func TestNewService_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	cfg.Metrics = false

	svc, err := NewService(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	exercise(t, svc.Handler)

	ids, err := svc.Store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	rec := httptest.NewRecorder()
	svc.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewService_EncryptedRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	cfg.SessionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	svc, err := NewService(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	id := exercise(t, svc.Handler)

	raw, err := mr.Get("devclub:session:" + id)
	require.NoError(t, err)
	assert.Contains(t, raw, `"sealed"`)
	assert.NotContains(t, raw, "yol-ayrimi")

	snap, err := svc.Store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"yol-ayrimi", "tepe"}, snap.History)
}

func TestNewService_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	_, err := NewService(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)

	cfg = testConfig()
	cfg.StoriesDir = t.TempDir()
	_, err = NewService(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)

	cfg = testConfig()
	cfg.SessionKey = base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = NewService(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestServe_Shutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, logging.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	err := ServeMCP(context.Background(), MCPOptions{Transport: "carrier-pigeon"}, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestWatchHelpers(t *testing.T) {
	assert.True(t, isStorySource("a/story.md"))
	assert.True(t, isStorySource("kapi.YAML"))
	assert.True(t, isStorySource("x.yml"))
	assert.False(t, isStorySource("notes.txt"))
	assert.False(t, isStorySource("a/.devclub"))

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "defter"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".devclub", "sessions"), 0o755))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, addTree(w, dir))
	assert.ElementsMatch(t, []string{dir, filepath.Join(dir, "defter")}, w.WatchList())
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := debugHooks(logging.NewWithWriter(&buf, -4))
	hooks.OnSceneEnter(&domain.SceneEvent{EventBase: domain.EventBase{StoryID: "kapi"}, SceneID: "oda"})
	hooks.OnStateChange(&domain.StateEvent{From: domain.StatePlaying, To: domain.StateEnded})

	assert.Contains(t, buf.String(), "Enter Scene")
	assert.Contains(t, buf.String(), "scene_id=oda")
	assert.Contains(t, buf.String(), "to=ended")
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(io.EOF))
	assert.NoError(t, handleExecutionError(errAborted))
	assert.Error(t, handleExecutionError(domain.ErrStoryNotFound))
}
