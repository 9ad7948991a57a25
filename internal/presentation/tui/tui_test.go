package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.2.3")

	out := buf.String()
	assert.Contains(t, out, "DEU DevClub Games v1.2.3")
	assert.Contains(t, out, "|____/")
}

func TestNewRendererWidth(t *testing.T) {
	render, err := NewRendererWidth(40)
	require.NoError(t, err)

	out, err := render("## Salon\n\nOda karanlık.")
	require.NoError(t, err)
	assert.Contains(t, out, "Salon")
	assert.Contains(t, out, "Oda karanlık.")
}

func TestWidth_NotTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	assert.False(t, IsTerminal(nil))
	assert.Equal(t, DefaultWidth, Width(f))
}
