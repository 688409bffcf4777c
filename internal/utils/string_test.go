package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMessageID(t *testing.T) {
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID("<abc@mail.example.com>"))
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID("  <abc@mail.example.com>  "))
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID("abc@mail.example.com"))
	assert.Equal(t, "", NormalizeMessageID(""))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripTags("<p>Hello <b>world</b></p>"))
	assert.Equal(t, "one two", StripTags("  one \n\n two  "))
	assert.Equal(t, "", StripTags("<br/>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "héll", Truncate("héllo", 4))
}
