package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` __      __        _   _             `, "#38bdf8"},
	{` \ \    / /__ __ _| |_| |_  ___ _ _  `, "#22d3ee"},
	{`  \ \/\/ / -_) _' |  _| ' \/ -_) '_| `, "#2dd4bf"},
	{`   \_/\_/\___\__,_|\__|_||_\___|_|   `, "#34d399"},
	{`                         b o t       `, "#a3e635"},
}

// PrintBanner writes the weatherbot banner, colored when the terminal supports it.
func PrintBanner(w io.Writer, version string) {
	p := termenv.NewOutput(w).ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
