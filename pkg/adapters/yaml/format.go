package yaml

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	goyaml "gopkg.in/yaml.v3"
)

// StoryFile is the on-disk shape of a story document.
type StoryFile struct {
	ID          string             `mapstructure:"id"`
	Title       string             `mapstructure:"title"`
	Description string             `mapstructure:"description"`
	Start       string             `mapstructure:"start"`
	Characters  []domain.Character `mapstructure:"characters"`
	Scenes      []SceneFile        `mapstructure:"scenes"`
}

// SceneFile is one entry of StoryFile.Scenes.
type SceneFile struct {
	ID            string       `mapstructure:"id"`
	Title         string       `mapstructure:"title"`
	Content       string       `mapstructure:"content"`
	CharacterInfo string       `mapstructure:"character_info"`
	Ending        bool         `mapstructure:"ending"`
	Choices       []ChoiceFile `mapstructure:"choices"`
}

// ChoiceFile is a labelled edge. An empty Next makes the choice inert.
type ChoiceFile struct {
	Text string `mapstructure:"text"`
	Next string `mapstructure:"next"`
}

var characterType = reflect.TypeOf(domain.Character{})

// characterHook accepts the "Name (Role)" shorthand wherever a Character is expected.
func characterHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != characterType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseCharacter(data.(string)), nil
}

// Decode converts generic frontmatter or YAML data into out using the
// story file conventions: unknown keys are rejected and characters may be
// written in shorthand.
func Decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  characterHook,
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Parse decodes a single YAML story document.
func Parse(data []byte) (*domain.Story, error) {
	var raw map[string]any
	if err := goyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty story document")
	}

	var file StoryFile
	if err := Decode(raw, &file); err != nil {
		return nil, fmt.Errorf("invalid story document: %w", err)
	}
	return file.Story(), nil
}

// Story converts the file representation into a domain story.
func (f StoryFile) Story() *domain.Story {
	story := &domain.Story{
		ID:           f.ID,
		Title:        f.Title,
		Description:  f.Description,
		Characters:   f.Characters,
		StartSceneID: f.Start,
		Scenes:       make([]domain.Scene, 0, len(f.Scenes)),
	}
	for _, sc := range f.Scenes {
		story.Scenes = append(story.Scenes, sc.Scene())
	}
	return story
}

// Scene converts the file representation into a domain scene.
func (f SceneFile) Scene() domain.Scene {
	scene := domain.Scene{
		ID:            f.ID,
		Title:         f.Title,
		Content:       f.Content,
		CharacterInfo: f.CharacterInfo,
		IsEnding:      f.Ending,
	}
	for _, c := range f.Choices {
		scene.Choices = append(scene.Choices, domain.Choice{Text: c.Text, NextSceneID: c.Next})
	}
	return scene
}
