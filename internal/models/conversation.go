package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/utils"
)

const ConversationPreviewLength = 255

type Conversation struct {
	ID             string                  `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Type           enum.ConversationType   `gorm:"column:type;type:varchar(50);not null" json:"type"`
	Status         enum.ConversationStatus `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	State          enum.ConversationState  `gorm:"column:state;type:varchar(50);not null" json:"state"`
	Subject        string                  `gorm:"column:subject;type:varchar(1000)" json:"subject"`
	CcAddresses    pq.StringArray          `gorm:"column:cc_addresses;type:text[]" json:"ccAddresses"`
	BccAddresses   pq.StringArray          `gorm:"column:bcc_addresses;type:text[]" json:"bccAddresses"`
	Preview        string                  `gorm:"column:preview;type:varchar(255)" json:"preview"`
	HasAttachments bool                    `gorm:"column:has_attachments;default:false" json:"hasAttachments"`
	MailboxID      string                  `gorm:"column:mailbox_id;type:varchar(50);index;not null" json:"mailboxId"`
	FolderID       string                  `gorm:"column:folder_id;type:varchar(50);index" json:"folderId"`
	CustomerID     string                  `gorm:"column:customer_id;type:varchar(50);index" json:"customerId"`
	CreatedByID    string                  `gorm:"column:created_by_customer_id;type:varchar(50)" json:"createdByCustomerId"`
	SourceVia      enum.Person             `gorm:"column:source_via;type:varchar(50)" json:"sourceVia"`
	SourceType     enum.SourceType         `gorm:"column:source_type;type:varchar(50)" json:"sourceType"`
	LastReplyAt    *time.Time              `gorm:"column:last_reply_at;type:timestamp" json:"lastReplyAt"`
	LastReplyFrom  enum.Person             `gorm:"column:last_reply_from;type:varchar(50)" json:"lastReplyFrom"`
	CreatedAt      time.Time               `gorm:"column:created_at;type:timestamp" json:"createdAt"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;type:timestamp" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.GenerateNanoIDWithPrefix("conv", 16)
	}
	c.CreatedAt = utils.Now()
	return nil
}

// SetPreview derives the plain-text preview from a (possibly markup) body.
func (c *Conversation) SetPreview(body string) {
	c.Preview = utils.Truncate(utils.StripTags(body), ConversationPreviewLength)
}
