package fetch

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
	"github.com/freedesk/mailroom/internal/utils"
)

// MailboxIterator runs one ingestion pass over every pollable mailbox.
// Each mailbox is an isolation boundary: a failure (including a panic) is
// logged and activity-recorded, and the remaining mailboxes still run.
type MailboxIterator struct {
	mailboxes    interfaces.MailboxRepository
	activityLogs interfaces.ActivityLogRepository
	orchestrator *Orchestrator
	log          logger.Logger
}

func NewMailboxIterator(
	mailboxes interfaces.MailboxRepository,
	activityLogs interfaces.ActivityLogRepository,
	orchestrator *Orchestrator,
	log logger.Logger,
) *MailboxIterator {
	return &MailboxIterator{
		mailboxes:    mailboxes,
		activityLogs: activityLogs,
		orchestrator: orchestrator,
		log:          log,
	}
}

func (it *MailboxIterator) Run(ctx context.Context) interfaces.RunResult {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxIterator.Run")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	result := interfaces.RunResult{
		StartedAt: utils.Now(),
	}

	mailboxes, err := it.mailboxes.GetPollable(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		it.log.Errorf("failed to list pollable mailboxes: %v", err)
		result.FinishedAt = utils.Now()
		return result
	}

	span.SetTag("mailboxes", len(mailboxes))

	for _, mailbox := range mailboxes {
		report := it.fetchOne(ctx, mailbox)
		result.Mailboxes = append(result.Mailboxes, report)

		if report.Error != "" {
			it.log.Errorf("[%s] fetch failed: %s", mailbox.ID, report.Error)
			it.recordFailure(ctx, mailbox, report.Error)
		} else {
			it.log.Infof("[%s] fetch done: %d fetched, %d processed, %d skipped, %d failed",
				mailbox.ID, report.Fetched, report.Processed, report.Skipped, report.Failed)
		}
	}

	result.FinishedAt = utils.Now()
	span.SetTag("processed", result.Processed())
	span.SetTag("skipped", result.Skipped())
	span.SetTag("failures", result.MailboxFailures())
	return result
}

// fetchOne wraps a single mailbox run in a panic boundary so one broken
// mailbox cannot take the whole pass down.
func (it *MailboxIterator) fetchOne(ctx context.Context, mailbox *models.Mailbox) (report interfaces.MailboxReport) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic: %v", r)
			report.MailboxID = mailbox.ID
			report.MailboxName = mailbox.Name
			report.Error = err.Error()
		}
	}()

	report, err := it.orchestrator.FetchMailbox(ctx, mailbox)
	if err != nil {
		report.Error = err.Error()
	}
	return report
}

func (it *MailboxIterator) recordFailure(ctx context.Context, mailbox *models.Mailbox, errorText string) {
	entry := &models.ActivityLog{
		LogName:     models.ActivityLogNameFetchEmails,
		Description: models.ActivityLogFetchError,
		Properties: models.JSONMap{
			"mailbox": mailbox.Name,
			"error":   errorText,
		},
	}
	if err := it.activityLogs.Create(ctx, entry); err != nil {
		it.log.Errorf("[%s] failed to record fetch failure: %v", mailbox.ID, err)
	}
}
