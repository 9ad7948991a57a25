package runner

import (
	"fmt"
	"strings"

	"github.com/senacirak/DEU-DevClubGames/internal/dto"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// Markdown lays out a scene view as a Markdown document.
// Character introductions become block quotes; inert choices are struck through.
func Markdown(view dto.SceneView) string {
	var sb strings.Builder

	if view.Title != "" {
		fmt.Fprintf(&sb, "## %s\n\n", view.Title)
	}

	for _, seg := range view.Segments {
		if seg.IsCharacter() {
			fmt.Fprintf(&sb, "> **%s** (%s): %s\n\n", seg.Name, seg.Role, seg.Description)
			continue
		}
		fmt.Fprintf(&sb, "%s\n\n", seg.Text)
	}

	if view.CharacterInfo != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", view.CharacterInfo)
	}

	switch view.State {
	case domain.StatePaused:
		sb.WriteString("**[Duraklatıldı]**\n\n")
	case domain.StateEnded:
		sb.WriteString("**[Son]**\n\n")
	}

	for _, c := range view.Choices {
		if c.Enabled {
			fmt.Fprintf(&sb, "%d. %s\n", c.Index+1, c.Text)
		} else {
			fmt.Fprintf(&sb, "%d. ~~%s~~\n", c.Index+1, c.Text)
		}
	}
	if len(view.Choices) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(hint(view))
	return sb.String()
}

func hint(view dto.SceneView) string {
	parts := []string{}
	if len(view.Choices) > 0 && view.State == domain.StatePlaying {
		parts = append(parts, "numara: seç")
	}
	if view.CanGoBack && view.State != domain.StatePaused {
		parts = append(parts, "b: geri")
	}
	parts = append(parts, "r: yeniden")
	if view.State == domain.StatePaused {
		parts = append(parts, "p: devam")
	} else if view.State == domain.StatePlaying {
		parts = append(parts, "p: duraklat")
	}
	parts = append(parts, "q: çık")
	return "`" + strings.Join(parts, " · ") + "`\n"
}
