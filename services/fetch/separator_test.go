package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeparate_HTMLCutsAtMarker(t *testing.T) {
	body := "<html><head><title>x</title></head><body><p>fresh reply</p>" +
		ReplyAboveHTML +
		"<blockquote>old quoted mail</blockquote></body></html>"

	result := Separate(body, true)

	assert.Contains(t, result, "fresh reply")
	assert.NotContains(t, result, "old quoted mail")
	assert.NotContains(t, result, ReplyAboveHTML)
}

func TestSeparate_HTMLWithoutMarkerKeepsWholeBody(t *testing.T) {
	body := "<html><body><p>hello</p><p>world</p></body></html>"

	result := Separate(body, true)

	assert.Contains(t, result, "hello")
	assert.Contains(t, result, "world")
}

func TestSeparate_HTMLStripsOuterDocument(t *testing.T) {
	body := "<html><head><style>p{color:red}</style></head><body><p>inner</p></body></html>"

	result := Separate(body, true)

	assert.Contains(t, result, "<p>inner</p>")
	assert.NotContains(t, result, "<style>")
}

func TestSeparate_MalformedHTMLDegradesToInput(t *testing.T) {
	body := "just text, no markup at all"

	result := Separate(body, true)

	assert.Contains(t, result, "just text, no markup at all")
}

func TestSeparate_TextCutsAtMarker(t *testing.T) {
	body := "my reply\n" + ReplyAboveText + "\nquoted history"

	result := Separate(body, false)

	assert.Contains(t, result, "my reply")
	assert.NotContains(t, result, "quoted history")
}

func TestSeparate_TextAppliesNl2br(t *testing.T) {
	result := Separate("line one\nline two", false)

	assert.Equal(t, "line one<br />\nline two", result)
}

func TestSeparate_EmptyBody(t *testing.T) {
	assert.Equal(t, "", Separate("", false))
	assert.Equal(t, "", Separate("", true))
}

func TestNl2br_PHPSemantics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"unix newline", "a\nb", "a<br />\nb"},
		{"windows newline", "a\r\nb", "a<br />\r\nb"},
		{"bare carriage return", "a\rb", "a<br />\rb"},
		{"reversed pair", "a\n\rb", "a<br />\n\rb"},
		{"consecutive newlines", "a\n\nb", "a<br />\n<br />\nb"},
		{"no newline", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nl2br(tt.input))
		})
	}
}

func TestSeparate_MarkerInsideQuotedSection(t *testing.T) {
	// Only the first marker matters; everything after it goes.
	body := "reply\n" + ReplyAboveText + "\nmiddle\n" + ReplyAboveText + "\ntail"

	result := Separate(body, false)

	assert.Equal(t, 0, strings.Count(result, ReplyAboveText))
	assert.NotContains(t, result, "middle")
	assert.NotContains(t, result, "tail")
}
