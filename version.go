package devclub

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version, read from the VERSION file.
var Version = strings.TrimSpace(rawVersion)
