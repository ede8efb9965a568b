package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer returns a function that renders markdown using glamour.
// width wraps the output; zero keeps glamour's default.
func NewMarkdownRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
