package kimicheck

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer returns a function rendering reply previews as markdown
// for a terminal of the given width. Rendering errors are returned as the
// rendered text so a preview is always printed.
func MarkdownRenderer(width int) func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		msg := fmt.Errorf("failed to create markdown renderer: %w", err).Error()
		return func(s string) string { return s + "\n" + msg }
	}

	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err).Error()
		}
		return out
	}
}
