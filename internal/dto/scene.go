// Package dto holds the wire shapes shared by the HTTP, MCP and JSON front ends.
package dto

import (
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	"github.com/senacirak/DEU-DevClubGames/pkg/segment"
)

// ChoiceView is a choice as shown to the player.
type ChoiceView struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
}

// SceneView is the render-ready state of a playthrough.
type SceneView struct {
	SessionID     string            `json:"session_id,omitempty"`
	StoryID       string            `json:"story_id"`
	State         domain.GameState  `json:"state"`
	SceneID       string            `json:"scene_id,omitempty"`
	Title         string            `json:"title,omitempty"`
	Segments      []segment.Segment `json:"segments"`
	Choices       []ChoiceView      `json:"choices"`
	CharacterInfo string            `json:"character_info,omitempty"`
	CanGoBack     bool              `json:"can_go_back"`
	Ended         bool              `json:"ended"`
	History       []string          `json:"history"`
}

// NewSceneView builds the view of a session.
func NewSceneView(sessionID string, s *player.Session) SceneView {
	v := SceneView{
		SessionID:     sessionID,
		State:         s.GameState(),
		Title:         s.CurrentSceneTitle(),
		Segments:      segment.Split(s.CurrentSceneContent()),
		Choices:       []ChoiceView{},
		CharacterInfo: s.CurrentCharacterInfo(),
		CanGoBack:     s.CanGoBack(),
		Ended:         s.IsGameEnded(),
		History:       s.History(),
	}
	if v.Segments == nil {
		v.Segments = []segment.Segment{}
	}
	if v.History == nil {
		v.History = []string{}
	}
	if story := s.Story(); story != nil {
		v.StoryID = story.ID
	}
	if scene, ok := s.CurrentScene(); ok {
		v.SceneID = scene.ID
	}
	for i, c := range s.CurrentChoices() {
		v.Choices = append(v.Choices, ChoiceView{
			Index:   i,
			Text:    segment.CleanChoiceText(c.Text),
			Enabled: !c.Inert(),
		})
	}
	return v
}

// StorySummary is a catalog entry.
type StorySummary struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Characters  []domain.Character `json:"characters"`
	Scenes      int                `json:"scenes"`
	Endings     int                `json:"endings"`
}

// NewStorySummary summarises a story for listings.
func NewStorySummary(s *domain.Story) StorySummary {
	cast := s.Characters
	if cast == nil {
		cast = []domain.Character{}
	}
	return StorySummary{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Characters:  cast,
		Scenes:      len(s.Scenes),
		Endings:     len(s.Endings()),
	}
}

// NewStorySummaries summarises stories in order.
func NewStorySummaries(stories []*domain.Story) []StorySummary {
	out := make([]StorySummary, 0, len(stories))
	for _, s := range stories {
		out = append(out, NewStorySummary(s))
	}
	return out
}
