package yaml_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/yaml"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	contract "github.com/senacirak/DEU-DevClubGames/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
id: deneme
title: Deneme
description: Kısa bir hikaye.
start: start
characters:
  - Aylin (Kahraman)
  - Anlatıcı
  - {name: Mert, role: Rehber}
scenes:
  - id: start
    title: Başlangıç
    content: |
      Merhaba.<br>
      Bugün hava çok güzel.
    character_info: Aylin burada.
    choices:
      - text: "-> İlerle"
        next: end
      - text: Kapalı kapı
  - id: end
    ending: true
`

func TestParse(t *testing.T) {
	story, err := yaml.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "deneme", story.ID)
	assert.Equal(t, "Kısa bir hikaye.", story.Description)
	assert.Equal(t, "start", story.StartSceneID)
	assert.Equal(t, []domain.Character{
		{Name: "Aylin", Role: "Kahraman"},
		{Name: "Anlatıcı"},
		{Name: "Mert", Role: "Rehber"},
	}, story.Characters)

	require.Len(t, story.Scenes, 2)
	start := story.Scenes[0]
	assert.Equal(t, "Merhaba.<br>\nBugün hava çok güzel.\n", start.Content)
	assert.Equal(t, "Aylin burada.", start.CharacterInfo)
	assert.Equal(t, []domain.Choice{{Text: "-> İlerle", NextSceneID: "end"}, {Text: "Kapalı kapı"}}, start.Choices)
	assert.True(t, story.Scenes[1].IsEnding)
	assert.NoError(t, story.Validate())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"Malformed", "id: [", "invalid yaml"},
		{"Empty", "", "empty story document"},
		{"Unknown Key", "id: x\nstart_scene: a\n", "start_scene"},
		{"Wrong Type", "id: x\nscenes: 3\n", "invalid story document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yaml.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoader_Contract(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":       {Data: []byte(sample)},
		"nested/b.yml": {Data: []byte("id: b\nstart: s\nscenes:\n  - id: s\n    ending: true\n")},
		"README.md":    {Data: []byte("# not a story")},
		"notes/x.txt":  {Data: []byte("ignored")},
	}
	contract.RunStoryLoaderContract(t, yaml.NewLoader(fsys), map[string]int{"deneme": 2, "b": 1})
}

func TestLoader_ReportsFile(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.yaml": {Data: []byte("id: [")},
	}
	_, err := yaml.NewLoader(fsys).LoadStories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestLoader_Dir(t *testing.T) {
	stories, err := yaml.NewDirLoader(t.TempDir()).LoadStories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stories)
}
