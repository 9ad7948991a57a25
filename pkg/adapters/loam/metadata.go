package loam

// Metadata is the frontmatter of a story repository document.
//
// The story header (story.md) uses ID, Title, Description, Start and
// Characters. Scene documents use ID, Title, CharacterInfo, Ending and
// Choices. A single struct covers both so one typed repository can read
// the whole directory.
type Metadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Title string `json:"title" mapstructure:"title"`

	// Story header
	Description string `json:"description" mapstructure:"description"`
	Start       string `json:"start" mapstructure:"start"`
	Characters  []any  `json:"characters" mapstructure:"characters"` // "Name (Role)" or {name, role}

	// Scene
	CharacterInfo string           `json:"character_info" mapstructure:"character_info"`
	Ending        bool             `json:"ending" mapstructure:"ending"`
	Choices       []ChoiceMetadata `json:"choices" mapstructure:"choices"`
}

// ChoiceMetadata is a choice entry in scene frontmatter.
type ChoiceMetadata struct {
	Text string `json:"text" mapstructure:"text"`
	Next string `json:"next" mapstructure:"next"`
}
