package fetch

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/config"
	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/repository"
	"github.com/freedesk/mailroom/internal/utils"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func testFetchConfig() *config.FetchConfig {
	return &config.FetchConfig{
		WindowHours:     24,
		IntervalSeconds: 120,
		Folder:          "INBOX",
	}
}

// fakeThreadRepo keeps threads in memory keyed by message id, mirroring
// the unique index semantics of the real repository.
type fakeThreadRepo struct {
	threads map[string]*models.Thread
	err     error
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{threads: make(map[string]*models.Thread)}
}

func (f *fakeThreadRepo) Create(ctx context.Context, thread *models.Thread) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, ok := f.threads[thread.MessageID]; ok {
		return "", repository.ErrDuplicateMessageID
	}
	if thread.ID == "" {
		thread.ID = utils.GenerateNanoIDWithPrefix("thrd", 16)
	}
	f.threads[thread.MessageID] = thread
	return thread.ID, nil
}

func (f *fakeThreadRepo) GetByMessageID(ctx context.Context, messageID string) (*models.Thread, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.threads[messageID], nil
}

func (f *fakeThreadRepo) FirstByMessageIDs(ctx context.Context, messageIDs []string) (*models.Thread, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, id := range messageIDs {
		if thread, ok := f.threads[id]; ok {
			return thread, nil
		}
	}
	return nil, nil
}

func (f *fakeThreadRepo) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.threads[messageID]
	return ok, nil
}

type fakeConversationRepo struct {
	conversations map[string]*models.Conversation
	createErr     error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*models.Conversation)}
}

func (f *fakeConversationRepo) Create(ctx context.Context, conversation *models.Conversation) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if conversation.ID == "" {
		conversation.ID = utils.GenerateNanoIDWithPrefix("conv", 16)
	}
	f.conversations[conversation.ID] = conversation
	return conversation.ID, nil
}

func (f *fakeConversationRepo) Save(ctx context.Context, conversation *models.Conversation) error {
	f.conversations[conversation.ID] = conversation
	return nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	conversation, ok := f.conversations[id]
	if !ok {
		return nil, repository.ErrConversationNotFound
	}
	return conversation, nil
}

type fakeCustomerRepo struct {
	customers map[string]*models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*models.Customer)}
}

func (f *fakeCustomerRepo) GetOrCreateByEmail(ctx context.Context, email string, name string) (*models.Customer, error) {
	if customer, ok := f.customers[email]; ok {
		return customer, nil
	}
	customer := &models.Customer{
		ID:        utils.GenerateNanoIDWithPrefix("cust", 16),
		Email:     email,
		FirstName: name,
	}
	f.customers[email] = customer
	return customer, nil
}

type fakeFolderRepo struct {
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (f *fakeFolderRepo) GetOrCreate(ctx context.Context, mailboxID string, folderType enum.FolderType) (*models.Folder, error) {
	key := mailboxID + "/" + folderType.String()
	if folder, ok := f.folders[key]; ok {
		return folder, nil
	}
	folder := &models.Folder{
		ID:        utils.GenerateNanoIDWithPrefix("fldr", 16),
		MailboxID: mailboxID,
		Type:      folderType,
	}
	f.folders[key] = folder
	return folder, nil
}

type fakeMailboxRepo struct {
	mailboxes []*models.Mailbox
	err       error
}

func (f *fakeMailboxRepo) GetPollable(ctx context.Context) ([]*models.Mailbox, error) {
	return f.mailboxes, f.err
}

func (f *fakeMailboxRepo) GetByID(ctx context.Context, id string) (*models.Mailbox, error) {
	for _, m := range f.mailboxes {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repository.ErrMailboxNotFound
}

func (f *fakeMailboxRepo) Save(ctx context.Context, mailbox *models.Mailbox) error {
	return nil
}

type fakeActivityLogRepo struct {
	entries []*models.ActivityLog
}

func (f *fakeActivityLogRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

type publishedEvent struct {
	conversationID string
	threadID       string
	isNew          bool
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishCustomerReplied(ctx context.Context, conversation *models.Conversation, thread *models.Thread, isNewConversation bool) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{
		conversationID: conversation.ID,
		threadID:       thread.ID,
		isNew:          isNewConversation,
	})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// fakeSession serves a canned message list and records flag changes.
type fakeSession struct {
	messages  []*interfaces.RemoteMessage
	seen      []uint32
	selectErr error
	fetchErr  error
	markErr   error
	loggedOut bool
}

func (f *fakeSession) SelectFolder(ctx context.Context, name string) error {
	return f.selectErr
}

func (f *fakeSession) FetchUnseenSince(ctx context.Context, since time.Time) ([]*interfaces.RemoteMessage, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.messages, nil
}

func (f *fakeSession) MarkSeen(ctx context.Context, uid uint32) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.seen = append(f.seen, uid)
	return nil
}

func (f *fakeSession) Logout() error {
	f.loggedOut = true
	return nil
}

type fakeMailClient struct {
	sessions   map[string]*fakeSession
	connectErr map[string]error
}

func newFakeMailClient() *fakeMailClient {
	return &fakeMailClient{
		sessions:   make(map[string]*fakeSession),
		connectErr: make(map[string]error),
	}
}

func (f *fakeMailClient) Connect(ctx context.Context, mailbox *models.Mailbox) (interfaces.MailSession, error) {
	if err := f.connectErr[mailbox.ID]; err != nil {
		return nil, err
	}
	session, ok := f.sessions[mailbox.ID]
	if !ok {
		return nil, errors.Errorf("no session for mailbox %s", mailbox.ID)
	}
	return session, nil
}
