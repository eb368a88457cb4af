package utils

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown keeps raw HTML escaped and turns single newlines into <br> tags,
// so user content renders the way it was typed without becoming a script vector.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// RenderMarkdown converts raw user text into safe HTML.
func RenderMarkdown(raw string) string {
	if raw == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(raw), &buf); err != nil {
		return template.HTMLEscapeString(raw)
	}
	return buf.String()
}
