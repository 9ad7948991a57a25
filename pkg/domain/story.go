package domain

import "strings"

// Character is a cast entry shown while browsing stories.
// The engine never consults it at runtime.
type Character struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Role string `json:"role" yaml:"role" mapstructure:"role"`
}

// Choice is a labelled edge leaving a scene.
type Choice struct {
	// Text is the raw label. It may carry a decorative arrow ("->" or "→").
	Text string `json:"text"`

	// NextSceneID is the target scene. Empty means the choice is inert.
	NextSceneID string `json:"next_scene_id,omitempty"`
}

// Inert reports whether selecting the choice has no effect.
func (c Choice) Inert() bool {
	return c.NextSceneID == ""
}

// Scene is a node of the story graph.
type Scene struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`

	// Content is the raw narrative text. It may embed inline character
	// introductions and legacy HTML markup.
	Content string `json:"content"`

	// CharacterInfo is an optional free-text blurb about the scene's cast.
	CharacterInfo string `json:"character_info,omitempty"`

	Choices  []Choice `json:"choices,omitempty"`
	IsEnding bool     `json:"is_ending,omitempty"`
}

// Story is a complete scene graph.
// It must not be mutated once registered in a catalog.
type Story struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Characters   []Character `json:"characters,omitempty"`
	StartSceneID string      `json:"start_scene_id"`
	Scenes       []Scene     `json:"scenes"`

	index map[string]int
}

// Compile builds the scene index used by Scene.
// It is called by the catalog on registration; calling it again is harmless.
func (s *Story) Compile() {
	idx := make(map[string]int, len(s.Scenes))
	for i, sc := range s.Scenes {
		if _, dup := idx[sc.ID]; dup {
			continue // first definition wins, Validate reports the duplicate
		}
		idx[sc.ID] = i
	}
	s.index = idx
}

// Scene returns the scene with the given identifier.
func (s *Story) Scene(id string) (*Scene, bool) {
	if s == nil || id == "" {
		return nil, false
	}
	if s.index != nil {
		i, ok := s.index[id]
		if !ok {
			return nil, false
		}
		return &s.Scenes[i], true
	}
	for i := range s.Scenes {
		if s.Scenes[i].ID == id {
			return &s.Scenes[i], true
		}
	}
	return nil, false
}

// StartScene returns the entry scene of the story.
func (s *Story) StartScene() (*Scene, bool) {
	if s == nil {
		return nil, false
	}
	return s.Scene(s.StartSceneID)
}

// Endings returns the identifiers of every ending scene, in declaration order.
func (s *Story) Endings() []string {
	var ids []string
	for _, sc := range s.Scenes {
		if sc.IsEnding {
			ids = append(ids, sc.ID)
		}
	}
	return ids
}

// ParseCharacter reads the "Name (Role)" shorthand used by story files.
// Text without a trailing parenthesised role becomes a name with no role.
func ParseCharacter(s string) Character {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, "(")
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Character{Name: s}
	}
	return Character{
		Name: strings.TrimSpace(s[:open]),
		Role: strings.TrimSpace(s[open+1 : len(s)-1]),
	}
}

// String renders the character in the shorthand form.
func (c Character) String() string {
	if c.Role == "" {
		return c.Name
	}
	return c.Name + " (" + c.Role + ")"
}
