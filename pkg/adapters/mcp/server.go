// Package mcp exposes the story engine as Model Context Protocol tools.
//
// The tools are stateless: every call carries the story ID and the scene
// history, and the server rebuilds the playthrough from them.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/senacirak/DEU-DevClubGames/internal/dto"
	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/internal/presentation/graph"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
)

// StoriesURI is the resource listing the catalog.
const StoriesURI = "devclub://stories"

// Catalog is the read side of the story catalog.
type Catalog interface {
	Get(id string) (*domain.Story, error)
	List() []*domain.Story
}

// StoryList is the structured result of list_stories.
type StoryList struct {
	Stories []dto.StorySummary `json:"stories" jsonschema_description:"Stories available to play"`
}

// StartArgs are the arguments of start_story.
type StartArgs struct {
	StoryID string `json:"story_id" jsonschema:"required" jsonschema_description:"Story ID from list_stories"`
}

// MoveArgs are the arguments of choose and go_back.
type MoveArgs struct {
	StoryID string   `json:"story_id" jsonschema:"required" jsonschema_description:"Story ID"`
	History []string `json:"history" jsonschema:"required" jsonschema_description:"Scene IDs visited so far, start scene first"`
	Index   int      `json:"index" jsonschema_description:"0-based index of the choice"`

	// State is echoed back from the previous call so an ended playthrough
	// stays ended after going back.
	State domain.GameState `json:"state,omitempty" jsonschema:"enum=playing,enum=ended" jsonschema_description:"State returned by the previous call; derived from the last scene when omitted"`
}

// GraphArgs are the arguments of get_graph.
type GraphArgs struct {
	StoryID string   `json:"story_id" jsonschema:"required" jsonschema_description:"Story ID"`
	History []string `json:"history,omitempty" jsonschema_description:"Scene IDs to highlight"`
}

// Server wraps the catalog and exposes it as an MCP Server.
type Server struct {
	catalog   Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*serverConfig)

type serverConfig struct {
	logger  *slog.Logger
	version string
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serverConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithVersion sets the version announced to clients.
func WithVersion(v string) Option {
	return func(c *serverConfig) {
		c.version = strings.TrimSpace(v)
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(cat Catalog, opts ...Option) *Server {
	cfg := serverConfig{logger: logging.NewNop(), version: "dev"}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		catalog:   cat,
		logger:    cfg.logger,
		mcpServer: server.NewMCPServer("devclub-mcp", cfg.version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server (for custom transports and tests).
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_stories",
		mcp.WithDescription("List the stories that can be played."),
		mcp.WithOutputSchema[StoryList](),
	), s.handleListStories)

	s.mcpServer.AddTool(mcp.NewTool("start_story",
		mcp.WithDescription("Start a story and return its first scene."),
		mcp.WithInputSchema[StartArgs](),
		mcp.WithOutputSchema[dto.SceneView](),
	), s.handleStart)

	s.mcpServer.AddTool(mcp.NewTool("choose",
		mcp.WithDescription("Pick a choice of the current scene. Pass the history and state returned by the previous call."),
		mcp.WithInputSchema[MoveArgs](),
		mcp.WithOutputSchema[dto.SceneView](),
	), s.handleChoose)

	s.mcpServer.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previous scene. The index argument is ignored. Going back from an ending keeps the state ended; pass that state on with the next call, otherwise it is derived from the last scene again."),
		mcp.WithInputSchema[MoveArgs](),
		mcp.WithOutputSchema[dto.SceneView](),
	), s.handleGoBack)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the Mermaid flowchart of a story, optionally highlighting a history."),
		mcp.WithInputSchema[GraphArgs](),
	), s.handleGraph)
}

func (s *Server) handleListStories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultStructuredOnly(StoryList{Stories: dto.NewStorySummaries(s.catalog.List())}), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args StartArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid start_story arguments", err), nil
	}
	story, err := s.catalog.Get(args.StoryID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("start_story failed", err), nil
	}
	p := s.newSession()
	if !p.SelectStory(story) {
		return mcp.NewToolResultError(fmt.Sprintf("story %s cannot be started", args.StoryID)), nil
	}
	return mcp.NewToolResultStructuredOnly(dto.NewSceneView("", p)), nil
}

func (s *Server) handleChoose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args MoveArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid choose arguments", err), nil
	}
	p, err := s.rebuild(args)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("choose failed", err), nil
	}
	if !p.Choose(args.Index) {
		return mcp.NewToolResultError(fmt.Sprintf("choice %d is not available in scene %s", args.Index, p.Snapshot().CurrentSceneID())), nil
	}
	return mcp.NewToolResultStructuredOnly(dto.NewSceneView("", p)), nil
}

func (s *Server) handleGoBack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args MoveArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid go_back arguments", err), nil
	}
	p, err := s.rebuild(args)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("go_back failed", err), nil
	}
	if !p.GoBack() {
		return mcp.NewToolResultError("already at the first scene"), nil
	}
	return mcp.NewToolResultStructuredOnly(dto.NewSceneView("", p)), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args GraphArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid get_graph arguments", err), nil
	}
	story, err := s.catalog.Get(args.StoryID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("get_graph failed", err), nil
	}
	var overlay *graph.Overlay
	if len(args.History) > 0 {
		overlay = graph.OverlayFromHistory(args.History)
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(story, overlay)), nil
}

// rebuild restores a playthrough from a client-held history and state.
// Without a state, ending scenes are ended and others playing.
func (s *Server) rebuild(args MoveArgs) (*player.Session, error) {
	story, err := s.catalog.Get(args.StoryID)
	if err != nil {
		return nil, err
	}

	state := args.State
	switch state {
	case domain.StatePlaying, domain.StateEnded:
	case "":
		state = domain.StatePlaying
		if n := len(args.History); n > 0 {
			if scene, ok := story.Scene(args.History[n-1]); ok && scene.IsEnding {
				state = domain.StateEnded
			}
		}
	default:
		return nil, fmt.Errorf("%w: state '%s' cannot be resumed here", domain.ErrInvalidSnapshot, state)
	}

	p := s.newSession()
	err = p.Restore(story, domain.Snapshot{StoryID: story.ID, History: args.History, State: state})
	if err != nil {
		s.logger.Warn("MCP: rejected history", "story_id", args.StoryID, "err", err)
		return nil, err
	}
	return p, nil
}

func (s *Server) newSession() *player.Session {
	return player.New(player.WithLogger(s.logger))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StoriesURI, "Story Catalog",
		mcp.WithResourceDescription("Summaries of every playable story"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(dto.NewStorySummaries(s.catalog.List()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StoriesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
