// Package loam reads stories kept as Markdown repositories.
//
// A story repository is a directory holding story.md (the story header)
// and one Markdown document per scene. Scene frontmatter carries the
// choices; the document body is the scene content.
package loam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/yaml"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

// HeaderID is the document ID of the story header.
const HeaderID = "story"

// Loader adapts a Loam repository to the ports.StoryLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[Metadata]
}

// New creates a loader over an initialised typed repository.
func New(repo *loam.TypedRepository[Metadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initialises a read-only, strict Loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[Metadata](repo)), nil
}

// LoadStories implements ports.StoryLoader. A repository holds exactly one story.
func (l *Loader) LoadStories(ctx context.Context) ([]*domain.Story, error) {
	story, err := l.LoadStory(ctx)
	if err != nil {
		return nil, err
	}
	return []*domain.Story{story}, nil
}

// LoadStory assembles the story header and every scene document.
// Scenes are ordered by ID with the start scene first.
//
// List only carries frontmatter, so each scene body is read with Get.
func (l *Loader) LoadStory(ctx context.Context) (*domain.Story, error) {
	listed, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var (
		story  *domain.Story
		scenes []domain.Scene
		seen   = make(map[string]string)
	)

	for _, entry := range listed {
		if trimExtension(entry.ID) == HeaderID {
			story, err = buildHeader(entry.Data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", entry.ID, err)
			}
			continue
		}

		doc, err := l.Repo.Get(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", entry.ID, err)
		}

		id := doc.Data.ID
		if id == "" {
			id = entry.ID
		}
		id = trimExtension(id)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: scene '%s' is defined in both '%s' and '%s'", id, existing, entry.ID)
		}
		seen[id] = entry.ID
		scenes = append(scenes, buildScene(id, doc.Data, doc.Content))
	}

	if story == nil {
		return nil, fmt.Errorf("missing %s.md header", HeaderID)
	}

	sort.SliceStable(scenes, func(i, j int) bool {
		if (scenes[i].ID == story.StartSceneID) != (scenes[j].ID == story.StartSceneID) {
			return scenes[i].ID == story.StartSceneID
		}
		return scenes[i].ID < scenes[j].ID
	})
	story.Scenes = scenes
	return story, nil
}

func buildHeader(meta Metadata) (*domain.Story, error) {
	var cast []domain.Character
	if err := yaml.Decode(meta.Characters, &cast); err != nil {
		return nil, fmt.Errorf("invalid characters: %w", err)
	}
	return &domain.Story{
		ID:           meta.ID,
		Title:        meta.Title,
		Description:  meta.Description,
		Characters:   cast,
		StartSceneID: meta.Start,
	}, nil
}

func buildScene(id string, meta Metadata, content string) domain.Scene {
	scene := domain.Scene{
		ID:            id,
		Title:         meta.Title,
		Content:       strings.TrimSpace(content),
		CharacterInfo: meta.CharacterInfo,
		IsEnding:      meta.Ending,
	}
	for _, c := range meta.Choices {
		scene.Choices = append(scene.Choices, domain.Choice{Text: c.Text, NextSceneID: c.Next})
	}
	return scene
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// DirLoader loads every story repository below a root directory.
// Each immediate subdirectory holding a story header is one story; a root
// that holds a header itself is a single story.
type DirLoader struct {
	root string
}

// NewDirLoader creates a loader over root.
func NewDirLoader(root string) *DirLoader {
	return &DirLoader{root: root}
}

// LoadStories implements ports.StoryLoader.
func (d *DirLoader) LoadStories(ctx context.Context) ([]*domain.Story, error) {
	if IsRepository(d.root) {
		return loadRepo(ctx, d.root)
	}

	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read story directory: %w", err)
	}

	var stories []*domain.Story
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := filepath.Join(d.root, entry.Name())
		if !entry.IsDir() || !IsRepository(dir) {
			continue
		}
		loaded, err := loadRepo(ctx, dir)
		if err != nil {
			return nil, err
		}
		stories = append(stories, loaded...)
	}
	return stories, nil
}

func loadRepo(ctx context.Context, dir string) ([]*domain.Story, error) {
	loader, err := Open(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	stories, err := loader.LoadStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return stories, nil
}

// IsRepository reports whether dir holds a story header.
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, HeaderID+".md"))
	return err == nil && !info.IsDir()
}
