package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/freedesk/mailroom/internal/utils"
)

const (
	ActivityLogNameFetchEmails = "fetch_emails"

	ActivityLogFetchError = "fetch_error"
)

// ActivityLog records operational events, primarily per-mailbox fetch
// failures with their error text.
type ActivityLog struct {
	ID          string    `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	LogName     string    `gorm:"column:log_name;type:varchar(255);index" json:"logName"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
	Properties  JSONMap   `gorm:"column:properties;type:jsonb" json:"properties"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp" json:"createdAt"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.GenerateNanoIDWithPrefix("alog", 16)
	}
	a.CreatedAt = utils.Now()
	return nil
}
