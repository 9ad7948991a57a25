// Package yaml loads stories written as YAML documents, one story per file.
package yaml

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// Loader implements ports.StoryLoader over a file system of YAML stories.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader reading every *.yaml and *.yml file in fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDirLoader creates a loader over a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// LoadStories parses every story file in lexical path order.
func (l *Loader) LoadStories(ctx context.Context) ([]*domain.Story, error) {
	var stories []*domain.Story

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isStoryFile(p) {
			return nil
		}

		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			return err
		}
		story, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		stories = append(stories, story)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func isStoryFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
