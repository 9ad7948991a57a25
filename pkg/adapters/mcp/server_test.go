package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/senacirak/DEU-DevClubGames/internal/dto"
	"github.com/senacirak/DEU-DevClubGames/pkg/catalog"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := dsl.New("yol", "Yol")
	b.Scene("start").Title("Kavşak").Choice("-> İleri", "mid").Inert("Kilitli kapı")
	b.Scene("mid").Choice("Bitir", "end")
	b.Scene("end").Ending()

	cat := catalog.New()
	require.NoError(t, cat.Register(b.MustBuild()))
	return NewServer(cat, WithVersion("v1.0.0"))
}

// newCallToolRequest builds a tool call request with arguments.
func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func sceneView(t *testing.T, result *mcp.CallToolResult) dto.SceneView {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError, "unexpected error result: %+v", result.Content)
	view, ok := result.StructuredContent.(dto.SceneView)
	require.True(t, ok, "expected SceneView, got %T", result.StructuredContent)
	return view
}

func TestListStories(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleListStories(context.Background(), newCallToolRequest("list_stories", nil))
	require.NoError(t, err)

	list, ok := result.StructuredContent.(StoryList)
	require.True(t, ok)
	require.Len(t, list.Stories, 1)
	assert.Equal(t, "yol", list.Stories[0].ID)
}

func TestPlaythrough(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleStart(ctx, newCallToolRequest("start_story", map[string]any{"story_id": "yol"}))
	require.NoError(t, err)
	view := sceneView(t, result)
	assert.Equal(t, "start", view.SceneID)
	assert.Equal(t, []string{"start"}, view.History)

	result, err = s.handleChoose(ctx, newCallToolRequest("choose", map[string]any{
		"story_id": "yol", "history": []any{"start"}, "index": 0,
	}))
	require.NoError(t, err)
	view = sceneView(t, result)
	assert.Equal(t, "mid", view.SceneID)

	result, err = s.handleChoose(ctx, newCallToolRequest("choose", map[string]any{
		"story_id": "yol", "history": view.History, "index": 0,
	}))
	require.NoError(t, err)
	view = sceneView(t, result)
	assert.True(t, view.Ended)
	assert.Equal(t, domain.StateEnded, view.State)

	result, err = s.handleGoBack(ctx, newCallToolRequest("go_back", map[string]any{
		"story_id": "yol", "history": view.History,
	}))
	require.NoError(t, err)
	view = sceneView(t, result)
	assert.Equal(t, "mid", view.SceneID)
	assert.Equal(t, domain.StateEnded, view.State, "going back from an ending keeps the ended state")
}

func TestGoBack_EndedStateTravelsWithHistory(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleGoBack(ctx, newCallToolRequest("go_back", map[string]any{
		"story_id": "yol", "history": []any{"start", "mid", "end"},
	}))
	require.NoError(t, err)
	view := sceneView(t, result)
	require.Equal(t, domain.StateEnded, view.State)

	result, err = s.handleGoBack(ctx, newCallToolRequest("go_back", map[string]any{
		"story_id": "yol", "history": view.History, "state": string(view.State),
	}))
	require.NoError(t, err)
	view = sceneView(t, result)
	assert.Equal(t, "start", view.SceneID)
	assert.Equal(t, domain.StateEnded, view.State, "the echoed state survives the next call")

	result, err = s.handleChoose(ctx, newCallToolRequest("choose", map[string]any{
		"story_id": "yol", "history": view.History, "state": string(view.State), "index": 0,
	}))
	require.NoError(t, err)
	view = sceneView(t, result)
	assert.Equal(t, "mid", view.SceneID)
	assert.Equal(t, domain.StatePlaying, view.State, "a new choice returns to playing")

	result, err = s.handleGoBack(ctx, newCallToolRequest("go_back", map[string]any{
		"story_id": "yol", "history": []any{"start", "mid"},
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.StatePlaying, sceneView(t, result).State, "without a state it is derived from the last scene")
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
	}{
		{"Unknown Story", s.handleStart, map[string]any{"story_id": "yok"}},
		{"Inert Choice", s.handleChoose, map[string]any{"story_id": "yol", "history": []any{"start"}, "index": 1}},
		{"Out Of Range", s.handleChoose, map[string]any{"story_id": "yol", "history": []any{"start"}, "index": 7}},
		{"Forged History", s.handleChoose, map[string]any{"story_id": "yol", "history": []any{"start", "end"}, "index": 0}},
		{"Empty History", s.handleChoose, map[string]any{"story_id": "yol", "history": []any{}, "index": 0}},
		{"Back At Start", s.handleGoBack, map[string]any{"story_id": "yol", "history": []any{"start"}}},
		{"Paused State", s.handleChoose, map[string]any{"story_id": "yol", "history": []any{"start"}, "state": "paused", "index": 0}},
		{"Unknown State", s.handleGoBack, map[string]any{"story_id": "yol", "history": []any{"start", "mid"}, "state": "bitti"}},
		{"Bad Arguments", s.handleChoose, map[string]any{"story_id": "yol", "history": "start"}},
		{"Graph Unknown Story", s.handleGraph, map[string]any{"story_id": "yok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, newCallToolRequest("x", tt.args))
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

func TestGetGraph(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleGraph(context.Background(), newCallToolRequest("get_graph", map[string]any{
		"story_id": "yol", "history": []any{"start", "mid"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph TD")
	assert.Contains(t, text.Text, "class mid current")
}

func TestToolsRegistered(t *testing.T) {
	s := newTestServer(t)
	resp := s.MCPServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"list_stories", "start_story", "choose", "go_back", "get_graph"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
