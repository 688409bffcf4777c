package interfaces

import (
	"context"
	"time"

	"github.com/freedesk/mailroom/internal/models"
)

// MailClient opens sessions against a mailbox's inbound server.
type MailClient interface {
	Connect(ctx context.Context, mailbox *models.Mailbox) (MailSession, error)
}

// MailSession is one authenticated connection to a remote mailbox.
// FetchUnseenSince must not mark messages seen (peek semantics): a crash
// mid-run causes reprocessing, never loss. MarkSeen is called by the
// pipeline only after a successful commit.
type MailSession interface {
	SelectFolder(ctx context.Context, name string) error
	FetchUnseenSince(ctx context.Context, since time.Time) ([]*RemoteMessage, error)
	MarkSeen(ctx context.Context, uid uint32) error
	Logout() error
}

// Participant is one structured address from a message envelope.
type Participant struct {
	Name    string
	Address string
}

// RemoteMessage is the transient view of one message for a single poll
// cycle. It is never persisted; its content is converted into a Thread.
type RemoteMessage struct {
	UID            uint32
	MessageID      string
	Subject        string
	From           []Participant
	ReplyTo        []Participant
	To             []Participant
	Cc             []Participant
	Bcc            []Participant
	InReplyTo      string
	References     string // raw header value, split by the resolver
	BodyText       string
	BodyHTML       string
	HasAttachments bool
	SentAt         *time.Time
}

// HasHTMLBody reports whether the structured-markup variant is available.
func (m *RemoteMessage) HasHTMLBody() bool {
	return m.BodyHTML != ""
}
