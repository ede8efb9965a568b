package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the circuit banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"   ___ _                _ _   ", "#22d3ee"},
		{"  / __(_)_ _ __ _  _ (_) |_ ", "#38bdf8"},
		{" | (__| | '_/ _| || || |  _|", "#60a5fa"},
		{"  \\___|_|_| \\__|\\_,_||_|\\__|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
