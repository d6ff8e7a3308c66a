package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the formflow ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Teal to green, one color per line.
	colors := []string{"#22d3ee", "#2dd4bf", "#34d399", "#4ade80", "#a3e635"}
	lines := []string{
		"   __                       __ _               ",
		"  / _| ___  _ __ _ __ ___  / _| | _____      __",
		" | |_ / _ \\| '__| '_ ` _ \\| |_| |/ _ \\ \\ /\\ / /",
		" |  _| (_) | |  | | | | | |  _| | (_) \\ V  V / ",
		" |_|  \\___/|_|  |_| |_| |_|_| |_|\\___/ \\_/\\_/  ",
	}

	fmt.Fprintln(w)
	for i, l := range lines {
		fmt.Fprintln(w, out.String(l).Foreground(out.Color(colors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
