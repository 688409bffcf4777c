package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
	"github.com/freedesk/mailroom/internal/utils"
)

type mailboxRepository struct {
	db *gorm.DB
}

// NewMailboxRepository creates a new mailbox repository
func NewMailboxRepository(db *gorm.DB) interfaces.MailboxRepository {
	return &mailboxRepository{
		db: db,
	}
}

// GetPollable returns mailboxes whose inbound connection settings are
// complete: protocol, server, port, username and password all set.
func (r *mailboxRepository) GetPollable(ctx context.Context) ([]*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.GetPollable")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var mailboxes []*models.Mailbox
	err := r.db.WithContext(ctx).
		Where("in_protocol <> ''").
		Where("in_server <> ''").
		Where("in_port <> 0").
		Where("in_username <> ''").
		Where("in_password <> ''").
		Find(&mailboxes).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return mailboxes, nil
}

func (r *mailboxRepository) GetByID(ctx context.Context, id string) (*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("mailbox_id", id)

	if id == "" {
		return nil, ErrInvalidInput
	}

	var mailbox models.Mailbox
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&mailbox).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMailboxNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &mailbox, nil
}

func (r *mailboxRepository) Save(ctx context.Context, mailbox *models.Mailbox) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.Save")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if mailbox == nil {
		err := errors.New("mailbox cannot be nil")
		tracing.TraceErr(span, err)
		return err
	}

	mailbox.UpdatedAt = utils.Now()

	if err := r.db.WithContext(ctx).Save(mailbox).Error; err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
