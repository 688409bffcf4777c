package fetch

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/models"
)

func TestRun_MailboxFailureIsIsolated(t *testing.T) {
	f := newOrchestratorFixture()

	broken := &models.Mailbox{ID: "mbox_broken", Name: "Broken", Email: "broken@x.com"}
	healthy := &models.Mailbox{ID: "mbox_ok", Name: "Sales", Email: "sales@x.com"}

	f.mailClient.connectErr[broken.ID] = errors.New("connection refused")
	f.mailClient.sessions[healthy.ID] = &fakeSession{
		messages: []*interfaces.RemoteMessage{
			newInboundMessage(1, "a@customer.com"),
			newInboundMessage(2, "b@customer.com"),
		},
	}

	mailboxes := &fakeMailboxRepo{mailboxes: []*models.Mailbox{broken, healthy}}
	activityLogs := &fakeActivityLogRepo{}

	iterator := NewMailboxIterator(mailboxes, activityLogs, f.orchestrator, getLogger())

	result := iterator.Run(context.Background())

	assert.Equal(t, 1, result.MailboxFailures())
	assert.Equal(t, 2, result.Processed())
	require.Len(t, result.Mailboxes, 2)
	assert.NotEmpty(t, result.Mailboxes[0].Error)
	assert.Empty(t, result.Mailboxes[1].Error)

	require.Len(t, activityLogs.entries, 1)
	entry := activityLogs.entries[0]
	assert.Equal(t, models.ActivityLogNameFetchEmails, entry.LogName)
	assert.Equal(t, models.ActivityLogFetchError, entry.Description)
	assert.Equal(t, "Broken", entry.Properties["mailbox"])
	assert.Contains(t, entry.Properties["error"], "connection refused")
}

func TestRun_NoMailboxes(t *testing.T) {
	f := newOrchestratorFixture()
	iterator := NewMailboxIterator(&fakeMailboxRepo{}, &fakeActivityLogRepo{}, f.orchestrator, getLogger())

	result := iterator.Run(context.Background())

	assert.Empty(t, result.Mailboxes)
	assert.False(t, result.FinishedAt.Before(result.StartedAt))
}

func TestRun_MailboxListingErrorReturnsEmptyResult(t *testing.T) {
	f := newOrchestratorFixture()
	mailboxes := &fakeMailboxRepo{err: errors.New("db down")}
	iterator := NewMailboxIterator(mailboxes, &fakeActivityLogRepo{}, f.orchestrator, getLogger())

	result := iterator.Run(context.Background())

	assert.Empty(t, result.Mailboxes)
}

// panickingMailClient blows up on connect to exercise the per-mailbox
// panic boundary.
type panickingMailClient struct{}

func (p *panickingMailClient) Connect(ctx context.Context, mailbox *models.Mailbox) (interfaces.MailSession, error) {
	panic("unexpected nil dereference")
}

func TestRun_PanicInMailboxIsRecovered(t *testing.T) {
	f := newOrchestratorFixture()
	orchestrator := NewOrchestrator(
		&panickingMailClient{}, f.threads, f.conversations, f.customers,
		f.folders, f.publisher, testFetchConfig(), getLogger(),
	)

	mailbox := &models.Mailbox{ID: "mbox_1", Name: "Support", Email: "support@x.com"}
	mailboxes := &fakeMailboxRepo{mailboxes: []*models.Mailbox{mailbox}}
	activityLogs := &fakeActivityLogRepo{}

	iterator := NewMailboxIterator(mailboxes, activityLogs, orchestrator, getLogger())

	result := iterator.Run(context.Background())

	assert.Equal(t, 1, result.MailboxFailures())
	require.Len(t, activityLogs.entries, 1)
	assert.Contains(t, activityLogs.entries[0].Properties["error"], "panic")
}
