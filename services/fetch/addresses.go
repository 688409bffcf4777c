package fetch

import (
	"strings"

	"github.com/freedesk/mailroom/interfaces"
)

// SanitizeEmail normalizes an address for comparison and storage.
func SanitizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FlattenParticipants reduces structured envelope participants to bare,
// sanitized addresses. Always returns a non-nil slice.
func FlattenParticipants(participants []interfaces.Participant) []string {
	result := make([]string, 0, len(participants))
	for _, p := range participants {
		addr := SanitizeEmail(p.Address)
		if addr != "" {
			result = append(result, addr)
		}
	}
	return result
}

// ExcludeSelf removes at most the first entry matching the mailbox's own
// address. Later duplicates are intentionally kept.
func ExcludeSelf(list []string, self string) []string {
	self = SanitizeEmail(self)
	result := make([]string, 0, len(list))
	removed := false
	for _, addr := range list {
		if !removed && SanitizeEmail(addr) == self {
			removed = true
			continue
		}
		result = append(result, addr)
	}
	return result
}
