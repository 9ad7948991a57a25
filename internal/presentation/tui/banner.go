package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  ____             ____ _       _     ",
	" |  _ \\  _____   _/ ___| |_   _| |__  ",
	" | | | |/ _ \\ \\ / / |   | | | | | '_ \\ ",
	" | |_| |  __/\\ V /| |___| | |_| | |_) |",
	" |____/ \\___| \\_/  \\____|_|\\__,_|_.__/ ",
}

var bannerColors = []string{"#38bdf8", "#60a5fa", "#818cf8", "#a78bfa", "#c084fc"}

// PrintBanner writes the DevClub banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  DEU DevClub Games "+version).Faint())
	}
	fmt.Fprintln(w)
}
