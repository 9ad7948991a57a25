package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	devclub "github.com/senacirak/DEU-DevClubGames"
	"github.com/senacirak/DEU-DevClubGames/internal/presentation/graph"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/segment"
)

// List prints the catalog of dir as a table.
func List(ctx context.Context, dir string, w io.Writer) error {
	eng, err := devclub.New(ctx, dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBAŞLIK\tSAHNE\tSON\tKARAKTERLER")
	for _, s := range eng.Stories() {
		cast := make([]string, 0, len(s.Characters))
		for _, c := range s.Characters {
			cast = append(cast, c.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.ID, s.Title, len(s.Scenes), len(s.Endings()), strings.Join(cast, ", "))
	}
	return tw.Flush()
}

// Validate checks every story below dir and reports each problem found.
// It returns an error when at least one story is invalid.
func Validate(ctx context.Context, dir string, w io.Writer) error {
	stories, err := devclub.LoaderFor(dir).LoadStories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stories: %w", err)
	}
	if len(stories) == 0 {
		return fmt.Errorf("no stories found in %s", dir)
	}

	failed := 0
	seen := make(map[string]bool, len(stories))
	for _, story := range stories {
		if seen[story.ID] {
			failed++
			fmt.Fprintf(w, "❌ %s: %v\n", story.ID, domain.ErrDuplicateStory)
			continue
		}
		seen[story.ID] = true

		if err := story.Validate(); err != nil {
			failed++
			problems := domain.ValidationErrors(err)
			if problems == nil {
				problems = []error{err}
			}
			fmt.Fprintf(w, "❌ %s: %d sorun\n", story.ID, len(problems))
			for _, p := range problems {
				fmt.Fprintf(w, "   - %v\n", p)
			}
			continue
		}
		fmt.Fprintf(w, "✅ %s: %d sahne, %d son\n", story.ID, len(story.Scenes), len(story.Endings()))
		warnMalformedContent(w, story)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d stories are invalid", failed, len(stories))
	}
	return nil
}

// warnMalformedContent flags character lines the segmenter cannot parse,
// which players would otherwise see as plain paragraphs.
func warnMalformedContent(w io.Writer, story *domain.Story) {
	for _, scene := range story.Scenes {
		for _, seg := range segment.Split(scene.Content) {
			if seg.IsCharacter() {
				continue
			}
			if strings.HasPrefix(seg.Text, `"`) && strings.Contains(seg.Text, "):") {
				fmt.Fprintf(w, "   ⚠ %s: karakter satırı okunamadı: %s\n", scene.ID, seg.Text)
			}
		}
	}
}

// Graph prints the Mermaid flowchart of storyID, highlighting history if given.
func Graph(ctx context.Context, dir, storyID string, history []string, w io.Writer) error {
	eng, err := devclub.New(ctx, dir)
	if err != nil {
		return err
	}
	story, err := eng.Catalog.Get(storyID)
	if err != nil {
		return err
	}
	if len(history) > 0 {
		// Only draw paths the player could actually have taken.
		snap := domain.Snapshot{StoryID: storyID, History: history, State: domain.StatePlaying}
		if _, err := eng.Resume(snap); err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(story, graph.OverlayFromHistory(history)))
	return err
}
