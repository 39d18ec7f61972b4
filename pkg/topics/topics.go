// Package topics serves the embedded documentation shown by the topics
// command, rendered as rich markdown when the terminal supports it.
package topics

import (
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/precheck/pkg/errors"
)

//go:embed docs/*.md
var docsFS embed.FS

// List returns the available topic names, sorted
func List() []string {
	entries, err := fs.ReadDir(docsFS, "docs")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Render returns the named topic rendered for the terminal. Rendering
// failures fall back to the raw markdown rather than losing the content.
func Render(name string, width int) (string, error) {
	raw, err := docsFS.ReadFile("docs/" + name + ".md")
	if err != nil {
		return "", errors.Newf(errors.ErrNotFound,
			"unknown topic %q (available: %s)", name, strings.Join(List(), ", "))
	}

	var options []glamour.TermRendererOption
	options = append(options, glamour.WithAutoStyle())
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return string(raw), nil
	}

	rendered, err := renderer.Render(string(raw))
	if err != nil {
		return string(raw), nil
	}
	return rendered, nil
}
