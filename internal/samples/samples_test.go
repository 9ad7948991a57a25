package samples_test

import (
	"context"
	"testing"

	"github.com/senacirak/DEU-DevClubGames/internal/samples"
	"github.com/senacirak/DEU-DevClubGames/pkg/catalog"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	contract "github.com/senacirak/DEU-DevClubGames/pkg/ports/tests"
	"github.com/senacirak/DEU-DevClubGames/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamples_Valid(t *testing.T) {
	contract.RunStoryLoaderContract(t, samples.Loader(), map[string]int{
		"kayip-anahtar": 8,
		"orman-yolu":    6,
	})
}

func TestSamples_Playable(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Load(context.Background(), samples.Loader()))

	story, err := c.Get("kayip-anahtar")
	require.NoError(t, err)
	require.Len(t, story.Characters, 3)
	assert.Equal(t, "Bekçi Hasan", story.Characters[2].Name)

	s := player.New()
	require.True(t, s.SelectStory(story))

	segs := segment.Split(s.CurrentSceneContent())
	var intro *segment.Segment
	for i := range segs {
		if segs[i].IsCharacter() {
			intro = &segs[i]
		}
	}
	require.NotNil(t, intro)
	assert.Equal(t, "Aylin", intro.Name)
	assert.Equal(t, "Kahraman", intro.Role)

	require.True(t, s.Choose(0))
	require.True(t, s.Choose(1))
	require.True(t, s.Choose(0))
	assert.True(t, s.IsGameEnded())
	assert.Equal(t, []string{"baslangic", "salon", "portre", "kutuphane"}, s.History())
}
