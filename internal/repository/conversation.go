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

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) interfaces.ConversationRepository {
	return &conversationRepository{
		db: db,
	}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *models.Conversation) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "conversationRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if conversation == nil {
		err := errors.New("conversation cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}

	now := utils.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	return conversation.ID, nil
}

// Save persists updates to an existing conversation. Subject and mailbox
// are immutable after creation and are never written here.
func (r *conversationRepository) Save(ctx context.Context, conversation *models.Conversation) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "conversationRepository.Save")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if conversation == nil || conversation.ID == "" {
		err := errors.New("conversation ID cannot be empty")
		tracing.TraceErr(span, err)
		return err
	}
	span.SetTag("conversation_id", conversation.ID)

	updates := map[string]interface{}{
		"updated_at":      utils.Now(),
		"status":          conversation.Status,
		"state":           conversation.State,
		"cc_addresses":    conversation.CcAddresses,
		"bcc_addresses":   conversation.BccAddresses,
		"folder_id":       conversation.FolderID,
		"last_reply_at":   conversation.LastReplyAt,
		"last_reply_from": conversation.LastReplyFrom,
	}
	if conversation.HasAttachments {
		updates["has_attachments"] = true
	}

	result := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversation.ID).
		Updates(updates)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		tracing.TraceErr(span, ErrConversationNotFound)
		return ErrConversationNotFound
	}

	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "conversationRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("conversation_id", id)

	if id == "" {
		return nil, ErrInvalidInput
	}

	var conversation models.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &conversation, nil
}
