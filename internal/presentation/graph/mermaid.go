package graph

import (
	"fmt"
	"strings"

	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/segment"
)

// Overlay contains playthrough data to visualize on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// OverlayFromHistory marks every history entry as visited and the last as current.
func OverlayFromHistory(history []string) *Overlay {
	if len(history) == 0 {
		return nil
	}
	return &Overlay{Visited: history, Current: history[len(history)-1]}
}

// GenerateMermaid produces a Mermaid flowchart of the story's scene graph.
// It applies semantic styling:
// - Start: ((Circle))
// - Ending: ([Stadium])
// - Default: [Rectangle]
// Inert choices have no edge. Overlay styles (visited/current) are applied if provided.
func GenerateMermaid(story *domain.Story, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, scene := range story.Scenes {
		safeID := sanitizeMermaidID(scene.ID)

		opener, closer := "[", "]"
		switch {
		case scene.ID == story.StartSceneID:
			opener, closer = "((", "))"
		case scene.IsEnding:
			opener, closer = "([", "])"
		}

		label := scene.ID
		if scene.Title != "" {
			label = scene.Title
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer)

		for _, c := range scene.Choices {
			if c.Inert() {
				continue
			}
			text := segment.CleanChoiceText(c.Text)
			if text == "" {
				fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(c.NextSceneID))
				continue
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escapeLabel(text), sanitizeMermaidID(c.NextSceneID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
