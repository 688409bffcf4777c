package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freedesk/mailroom/interfaces"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", SanitizeEmail("  User@Example.COM  "))
	assert.Equal(t, "", SanitizeEmail("   "))
}

func TestFlattenParticipants(t *testing.T) {
	participants := []interfaces.Participant{
		{Name: "Jane", Address: "Jane@Example.com"},
		{Name: "", Address: "bob@example.com"},
		{Name: "ghost", Address: ""},
	}

	result := FlattenParticipants(participants)

	assert.Equal(t, []string{"jane@example.com", "bob@example.com"}, result)
}

func TestFlattenParticipants_NilInput(t *testing.T) {
	result := FlattenParticipants(nil)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestExcludeSelf_RemovesOnlyFirstMatch(t *testing.T) {
	list := []string{"a@x.com", "support@x.com", "b@x.com", "support@x.com"}

	result := ExcludeSelf(list, "Support@X.com")

	assert.Equal(t, []string{"a@x.com", "b@x.com", "support@x.com"}, result)
}

func TestExcludeSelf_NoMatch(t *testing.T) {
	list := []string{"a@x.com", "b@x.com"}

	result := ExcludeSelf(list, "support@x.com")

	assert.Equal(t, list, result)
}

func TestExcludeSelf_EmptyList(t *testing.T) {
	result := ExcludeSelf(nil, "support@x.com")

	assert.NotNil(t, result)
	assert.Empty(t, result)
}
