package interfaces

import (
	"context"

	"github.com/freedesk/mailroom/internal/models"
)

// EventPublisher delivers domain events to external consumers. Publishing
// is fire-and-forget from the fetch pipeline's perspective: a publish error
// never fails a commit.
type EventPublisher interface {
	PublishCustomerReplied(ctx context.Context, conversation *models.Conversation, thread *models.Thread, isNewConversation bool) error
	Close() error
}
