package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
)

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *gorm.DB) interfaces.ActivityLogRepository {
	return &activityLogRepository{
		db: db,
	}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "activityLogRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if entry == nil {
		err := errors.New("activity log entry cannot be nil")
		tracing.TraceErr(span, err)
		return err
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
