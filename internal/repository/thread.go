package repository

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
)

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *gorm.DB) interfaces.ThreadRepository {
	return &threadRepository{
		db: db,
	}
}

// Create inserts a new thread. The unique index on message_id is the dedup
// authority: a duplicate-key failure is reported as ErrDuplicateMessageID so
// callers can treat the message as already processed.
func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if thread == nil {
		err := errors.New("thread cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}
	if thread.MessageID == "" {
		err := errors.New("thread message id cannot be empty")
		tracing.TraceErr(span, err)
		return "", err
	}

	thread.MessageID = strings.Trim(thread.MessageID, "<>")

	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetTag("duplicate", true)
			return "", ErrDuplicateMessageID
		}
		tracing.TraceErr(span, err)
		return "", err
	}

	return thread.ID, nil
}

// GetByMessageID retrieves a thread by its unique message id. A missing
// thread is not an error: resolution failures are soft.
func (r *threadRepository) GetByMessageID(ctx context.Context, messageID string) (*models.Thread, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadRepository.GetByMessageID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("message_id", messageID)

	if messageID == "" {
		return nil, nil
	}

	var thread models.Thread
	err := r.db.WithContext(ctx).
		Where("message_id = ?", strings.Trim(messageID, "<>")).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &thread, nil
}

// FirstByMessageIDs retrieves the first thread matching any of the given
// message ids. The lookup runs against the unique index; which row wins
// under multiple matches follows store iteration order and is not defined.
func (r *threadRepository) FirstByMessageIDs(ctx context.Context, messageIDs []string) (*models.Thread, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadRepository.FirstByMessageIDs")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if len(messageIDs) == 0 {
		return nil, nil
	}

	cleaned := make([]string, 0, len(messageIDs))
	for _, id := range messageIDs {
		if id = strings.Trim(id, "<>"); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	var thread models.Thread
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", cleaned).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &thread, nil
}

// ExistsByMessageID reports whether a thread with the message id is stored.
func (r *threadRepository) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadRepository.ExistsByMessageID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("message_id", messageID)

	if messageID == "" {
		return false, nil
	}

	var exists bool
	err := r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Select("COUNT(*) > 0").
		Where("message_id = ?", strings.Trim(messageID, "<>")).
		Find(&exists).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}

	return exists, nil
}
