package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
)

type folderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *gorm.DB) interfaces.FolderRepository {
	return &folderRepository{
		db: db,
	}
}

// GetOrCreate returns the folder of the given type for a mailbox, creating
// it on first use.
func (r *folderRepository) GetOrCreate(ctx context.Context, mailboxID string, folderType enum.FolderType) (*models.Folder, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "folderRepository.GetOrCreate")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("mailbox_id", mailboxID)
	span.SetTag("folder_type", folderType.String())

	if mailboxID == "" || folderType == "" {
		return nil, ErrInvalidInput
	}

	var folder models.Folder
	err := r.db.WithContext(ctx).
		Where("mailbox_id = ? AND type = ?", mailboxID, folderType).
		First(&folder).Error
	if err == nil {
		return &folder, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tracing.TraceErr(span, err)
		return nil, err
	}

	folder = models.Folder{MailboxID: mailboxID, Type: folderType}
	if err := r.db.WithContext(ctx).Create(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Folder
			if ferr := r.db.WithContext(ctx).
				Where("mailbox_id = ? AND type = ?", mailboxID, folderType).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &folder, nil
}
