package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownFormats(t *testing.T) {
	out := RenderMarkdown("**bold** and *italic*")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<em>italic</em>")
}

func TestRenderMarkdownHardWraps(t *testing.T) {
	out := RenderMarkdown("first line\nsecond line")
	assert.Contains(t, out, "<br>")
}

func TestRenderMarkdownNeutralizesRawHTML(t *testing.T) {
	out := RenderMarkdown(`<script>alert("x")</script>`)
	assert.NotContains(t, out, "<script>")
}

func TestRenderMarkdownEmpty(t *testing.T) {
	assert.Empty(t, RenderMarkdown(""))
}
