package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/utils"
)

// Folder is a per-mailbox bucket that conversations are placed into.
// Inbound conversations without an assignee land in the unassigned folder.
type Folder struct {
	ID        string          `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	MailboxID string          `gorm:"column:mailbox_id;type:varchar(50);uniqueIndex:idx_folders_mailbox_type;not null" json:"mailboxId"`
	Type      enum.FolderType `gorm:"column:type;type:varchar(50);uniqueIndex:idx_folders_mailbox_type;not null" json:"type"`
	CreatedAt time.Time       `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (Folder) TableName() string {
	return "folders"
}

func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = utils.GenerateNanoIDWithPrefix("fldr", 16)
	}
	return nil
}
