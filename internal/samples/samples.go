// Package samples embeds the stories shipped with the binary.
package samples

import (
	"embed"
	"io/fs"

	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/yaml"
)

//go:embed stories/*.yaml
var embedded embed.FS

// FS returns the embedded story files rooted at the stories directory.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "stories")
	if err != nil {
		panic(err) // the pattern above guarantees the directory exists
	}
	return sub
}

// Loader returns a story loader over the embedded stories.
func Loader() *yaml.Loader {
	return yaml.NewLoader(FS())
}
