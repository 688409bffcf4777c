package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/config"
	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/repository"
	"github.com/freedesk/mailroom/internal/tracing"
	"github.com/freedesk/mailroom/internal/utils"
)

// Orchestrator ingests unseen messages from a single mailbox into
// conversations and threads.
type Orchestrator struct {
	mailClient     interfaces.MailClient
	threads        interfaces.ThreadRepository
	conversations  interfaces.ConversationRepository
	customers      interfaces.CustomerRepository
	folders        interfaces.FolderRepository
	eventPublisher interfaces.EventPublisher
	resolver       *ThreadResolver
	fetchConfig    *config.FetchConfig
	log            logger.Logger
}

func NewOrchestrator(
	mailClient interfaces.MailClient,
	threads interfaces.ThreadRepository,
	conversations interfaces.ConversationRepository,
	customers interfaces.CustomerRepository,
	folders interfaces.FolderRepository,
	eventPublisher interfaces.EventPublisher,
	fetchConfig *config.FetchConfig,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		mailClient:     mailClient,
		threads:        threads,
		conversations:  conversations,
		customers:      customers,
		folders:        folders,
		eventPublisher: eventPublisher,
		resolver:       NewThreadResolver(threads),
		fetchConfig:    fetchConfig,
		log:            log,
	}
}

// FetchMailbox runs one ingestion pass over a mailbox. Connection and
// listing failures abort the whole mailbox; per-message failures leave
// the message unread and move on. Messages are flagged seen only after
// their thread is committed (or found to be a duplicate).
func (o *Orchestrator) FetchMailbox(ctx context.Context, mailbox *models.Mailbox) (interfaces.MailboxReport, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.FetchMailbox")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMailbox(span, mailbox.Name)
	tracing.TagEntity(span, mailbox.ID)

	report := interfaces.MailboxReport{
		MailboxID:   mailbox.ID,
		MailboxName: mailbox.Name,
	}

	session, err := o.mailClient.Connect(ctx, mailbox)
	if err != nil {
		tracing.TraceErr(span, err)
		return report, errors.Wrap(err, "connect failed")
	}
	defer session.Logout()

	if err := session.SelectFolder(ctx, o.fetchConfig.Folder); err != nil {
		tracing.TraceErr(span, err)
		return report, errors.Wrap(err, "folder select failed")
	}

	since := utils.Now().Add(-time.Duration(o.fetchConfig.WindowHours) * time.Hour)
	messages, err := session.FetchUnseenSince(ctx, since)
	if err != nil {
		tracing.TraceErr(span, err)
		return report, errors.Wrap(err, "listing failed")
	}

	report.Fetched = len(messages)
	span.SetTag("fetched", len(messages))

	for _, message := range messages {
		// Cancellation boundary sits between messages so a message is
		// never abandoned half-committed.
		if ctx.Err() != nil {
			tracing.TraceErr(span, ctx.Err())
			return report, ctx.Err()
		}
		o.processMessage(ctx, session, mailbox, message, &report)
	}

	span.SetTag("processed", report.Processed)
	span.SetTag("skipped", report.Skipped)
	span.SetTag("failed", report.Failed)
	return report, nil
}

func (o *Orchestrator) processMessage(ctx context.Context, session interfaces.MailSession, mailbox *models.Mailbox, message *interfaces.RemoteMessage, report *interfaces.MailboxReport) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Orchestrator.processMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMailbox(span, mailbox.Name)
	span.SetTag("uid", message.UID)

	if message.MessageID == "" {
		o.skip(ctx, session, message, report, "missing message id")
		return
	}

	exists, err := o.threads.ExistsByMessageID(ctx, message.MessageID)
	if err != nil {
		o.fail(span, message, report, errors.Wrap(err, "dedup check failed"))
		return
	}
	if exists {
		o.skip(ctx, session, message, report, "duplicate message id")
		return
	}

	body := Separate(message.BodyHTML, true)
	if !message.HasHTMLBody() {
		body = Separate(message.BodyText, false)
	}
	if strings.TrimSpace(utils.StripTags(body)) == "" {
		o.skip(ctx, session, message, report, "empty body")
		return
	}

	sender, ok := pickSender(message)
	if !ok {
		o.skip(ctx, session, message, report, "no sender address")
		return
	}

	to := ExcludeSelf(FlattenParticipants(message.To), mailbox.Email)
	cc := ExcludeSelf(FlattenParticipants(message.Cc), mailbox.Email)
	bcc := ExcludeSelf(FlattenParticipants(message.Bcc), mailbox.Email)
	// The conversation's cc snapshot folds extra to-recipients in, so a
	// reply-all from the agent reaches everyone the customer wrote to.
	ccUnion := utils.UniqueEmails(append(append([]string{}, cc...), to...))

	customer, err := o.customers.GetOrCreateByEmail(ctx, sender.Address, sender.Name)
	if err != nil {
		o.fail(span, message, report, errors.Wrap(err, "customer lookup failed"))
		return
	}

	prior, err := o.resolver.Resolve(ctx, message.InReplyTo, message.References)
	if err != nil {
		o.fail(span, message, report, errors.Wrap(err, "thread resolve failed"))
		return
	}

	conversation, isNew, err := o.upsertConversation(ctx, mailbox, customer, prior, message, body, ccUnion, bcc)
	if err != nil {
		o.fail(span, message, report, err)
		return
	}

	thread := &models.Thread{
		ConversationID: conversation.ID,
		Type:           enum.ThreadTypeCustomer,
		Status:         conversation.Status,
		State:          enum.ConversationStatePublished,
		MessageID:      message.MessageID,
		Body:           body,
		ToAddresses:    pq.StringArray(to),
		CcAddresses:    pq.StringArray(ccUnion),
		BccAddresses:   pq.StringArray(bcc),
		SourceVia:      enum.PersonCustomer,
		SourceType:     enum.SourceTypeEmail,
		CustomerID:     customer.ID,
		CreatedByID:    customer.ID,
		HasAttachments: message.HasAttachments,
	}

	if _, err := o.threads.Create(ctx, thread); err != nil {
		if errors.Is(err, repository.ErrDuplicateMessageID) {
			o.skip(ctx, session, message, report, "duplicate message id")
			return
		}
		// Commit failed: leave the message unread so the next run
		// retries it.
		o.fail(span, message, report, errors.Wrap(err, "thread commit failed"))
		return
	}

	if err := o.eventPublisher.PublishCustomerReplied(ctx, conversation, thread, isNew); err != nil {
		o.log.Warnf("[%s] publish failed for message %s: %v", mailbox.ID, message.MessageID, err)
		tracing.TraceErr(span, err)
	}

	if err := session.MarkSeen(ctx, message.UID); err != nil {
		o.log.Warnf("[%s] failed to flag uid %d seen: %v", mailbox.ID, message.UID, err)
		tracing.TraceErr(span, err)
	}

	report.Processed++
	o.log.Infof("[%s] processed message %s into conversation %s (new=%t)", mailbox.ID, message.MessageID, conversation.ID, isNew)
}

// upsertConversation either creates a new conversation for a fresh
// message or refreshes the one the resolved thread belongs to.
func (o *Orchestrator) upsertConversation(ctx context.Context, mailbox *models.Mailbox, customer *models.Customer, prior *models.Thread, message *interfaces.RemoteMessage, body string, ccUnion, bcc []string) (*models.Conversation, bool, error) {
	// Prefer the Date header so replies sort by when they were sent, not
	// when the poller got around to them.
	lastReplyAt := utils.GetOrDefault(message.SentAt, utils.Now())

	if prior == nil {
		folder, err := o.folders.GetOrCreate(ctx, mailbox.ID, enum.FolderTypeUnassigned)
		if err != nil {
			return nil, false, errors.Wrap(err, "folder lookup failed")
		}

		conversation := &models.Conversation{
			Type:           enum.ConversationTypeEmail,
			Status:         enum.ConversationStatusActive,
			State:          enum.ConversationStatePublished,
			Subject:        message.Subject,
			CcAddresses:    pq.StringArray(ccUnion),
			BccAddresses:   pq.StringArray(bcc),
			HasAttachments: message.HasAttachments,
			MailboxID:      mailbox.ID,
			FolderID:       folder.ID,
			CustomerID:     customer.ID,
			CreatedByID:    customer.ID,
			SourceVia:      enum.PersonCustomer,
			SourceType:     enum.SourceTypeEmail,
			LastReplyAt:    utils.Ptr(lastReplyAt),
			LastReplyFrom:  enum.PersonCustomer,
		}
		conversation.SetPreview(body)

		if _, err := o.conversations.Create(ctx, conversation); err != nil {
			return nil, false, errors.Wrap(err, "conversation create failed")
		}
		return conversation, true, nil
	}

	conversation, err := o.conversations.GetByID(ctx, prior.ConversationID)
	if err != nil {
		return nil, false, errors.Wrap(err, "conversation lookup failed")
	}

	// A customer reply reopens a closed conversation and puts it back in
	// front of the agents.
	if conversation.Status == enum.ConversationStatusClosed {
		conversation.Status = enum.ConversationStatusActive
		folder, err := o.folders.GetOrCreate(ctx, mailbox.ID, enum.FolderTypeUnassigned)
		if err != nil {
			return nil, false, errors.Wrap(err, "folder lookup failed")
		}
		conversation.FolderID = folder.ID
	}

	conversation.LastReplyAt = utils.Ptr(lastReplyAt)
	conversation.LastReplyFrom = enum.PersonCustomer
	if message.HasAttachments {
		conversation.HasAttachments = true
	}
	conversation.SetPreview(body)

	if err := o.conversations.Save(ctx, conversation); err != nil {
		return nil, false, errors.Wrap(err, "conversation save failed")
	}
	return conversation, false, nil
}

func (o *Orchestrator) skip(ctx context.Context, session interfaces.MailSession, message *interfaces.RemoteMessage, report *interfaces.MailboxReport, reason string) {
	report.Skipped++
	o.log.Infof("skipping message %s (uid %d): %s", message.MessageID, message.UID, reason)
	if err := session.MarkSeen(ctx, message.UID); err != nil {
		o.log.Warnf("failed to flag skipped uid %d seen: %v", message.UID, err)
	}
}

func (o *Orchestrator) fail(span opentracing.Span, message *interfaces.RemoteMessage, report *interfaces.MailboxReport, err error) {
	report.Failed++
	tracing.TraceErr(span, err)
	o.log.Errorf("message %s (uid %d) failed, leaving unread: %v", message.MessageID, message.UID, err)
}

// pickSender prefers the Reply-To address over From, matching where a
// human reply would go.
func pickSender(message *interfaces.RemoteMessage) (interfaces.Participant, bool) {
	if len(message.ReplyTo) > 0 {
		return message.ReplyTo[0], true
	}
	if len(message.From) > 0 {
		return message.From[0], true
	}
	return interfaces.Participant{}, false
}
