package fetch

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedesk/mailroom/internal/models"
)

func TestSplitReferences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"angle bracketed list",
			"<id1@x.com> <id2@x.com>",
			[]string{"id1@x.com", "id2@x.com"},
		},
		{
			"comma separated",
			"id1@x.com,id2@x.com",
			[]string{"id1@x.com", "id2@x.com"},
		},
		{
			"mixed separators",
			"<id1@x.com>, id2@x.com\t<id3@x.com>",
			[]string{"id1@x.com", "id2@x.com", "id3@x.com"},
		},
		{
			"duplicates dropped",
			"<id1@x.com> <id1@x.com>",
			[]string{"id1@x.com"},
		},
		{"empty", "", nil},
		{"only separators", " <>, <> ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitReferences(tt.input))
		})
	}
}

func TestResolve_ByInReplyTo(t *testing.T) {
	threads := newFakeThreadRepo()
	existing := &models.Thread{ID: "thrd_1", ConversationID: "conv_1", MessageID: "orig@x.com"}
	threads.threads["orig@x.com"] = existing

	resolver := NewThreadResolver(threads)

	thread, err := resolver.Resolve(context.Background(), "<orig@x.com>", "")

	require.NoError(t, err)
	require.NotNil(t, thread)
	assert.Equal(t, "thrd_1", thread.ID)
}

func TestResolve_ReferencesUsedWhenInReplyToAbsent(t *testing.T) {
	threads := newFakeThreadRepo()
	existing := &models.Thread{ID: "thrd_2", ConversationID: "conv_2", MessageID: "older@x.com"}
	threads.threads["older@x.com"] = existing

	resolver := NewThreadResolver(threads)

	thread, err := resolver.Resolve(context.Background(), "", "<missing@x.com> <older@x.com>")

	require.NoError(t, err)
	require.NotNil(t, thread)
	assert.Equal(t, "thrd_2", thread.ID)
}

func TestResolve_UnmatchedInReplyToSkipsReferences(t *testing.T) {
	threads := newFakeThreadRepo()
	existing := &models.Thread{ID: "thrd_2", ConversationID: "conv_2", MessageID: "ancestor@x.com"}
	threads.threads["ancestor@x.com"] = existing

	resolver := NewThreadResolver(threads)

	// The named parent is unknown, so a new conversation starts even though
	// an older ancestor from References is stored.
	thread, err := resolver.Resolve(context.Background(), "<missing-parent@x.com>", "<ancestor@x.com>")

	require.NoError(t, err)
	assert.Nil(t, thread)
}

func TestResolve_NoMatchIsNotAnError(t *testing.T) {
	resolver := NewThreadResolver(newFakeThreadRepo())

	thread, err := resolver.Resolve(context.Background(), "<unknown@x.com>", "<also-unknown@x.com>")

	require.NoError(t, err)
	assert.Nil(t, thread)
}

func TestResolve_EmptyHeaders(t *testing.T) {
	resolver := NewThreadResolver(newFakeThreadRepo())

	thread, err := resolver.Resolve(context.Background(), "", "")

	require.NoError(t, err)
	assert.Nil(t, thread)
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	threads := newFakeThreadRepo()
	threads.err = errors.New("connection refused")

	resolver := NewThreadResolver(threads)

	_, err := resolver.Resolve(context.Background(), "<orig@x.com>", "")

	assert.Error(t, err)
}
