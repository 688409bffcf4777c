package utils

import (
	"regexp"
	"strings"
)

// NormalizeMessageID strips the RFC 5322 angle brackets from a Message-ID.
func NormalizeMessageID(messageID string) string {
	messageID = strings.TrimSpace(messageID)
	messageID = strings.TrimPrefix(messageID, "<")
	messageID = strings.TrimSuffix(messageID, ">")
	return messageID
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripTags removes markup tags and collapses whitespace, used for
// conversation previews.
func StripTags(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// Truncate shortens s to at most max runes.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func IsStringInSlice(s string, slice []string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
