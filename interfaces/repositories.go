package interfaces

import (
	"context"

	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/models"
)

// ThreadRepository stores Threads. message_id carries a unique index; all
// lookups by message id are point lookups on it.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) (string, error)
	GetByMessageID(ctx context.Context, messageID string) (*models.Thread, error)
	FirstByMessageIDs(ctx context.Context, messageIDs []string) (*models.Thread, error)
	ExistsByMessageID(ctx context.Context, messageID string) (bool, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *models.Conversation) (string, error)
	Save(ctx context.Context, conversation *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
}

type CustomerRepository interface {
	GetOrCreateByEmail(ctx context.Context, email string, name string) (*models.Customer, error)
}

type MailboxRepository interface {
	GetPollable(ctx context.Context) ([]*models.Mailbox, error)
	GetByID(ctx context.Context, id string) (*models.Mailbox, error)
	Save(ctx context.Context, mailbox *models.Mailbox) error
}

type FolderRepository interface {
	GetOrCreate(ctx context.Context, mailboxID string, folderType enum.FolderType) (*models.Folder, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
}
