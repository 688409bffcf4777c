package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/utils"
)

// Thread is one inbound message stored as part of a Conversation. Threads
// are append-only: the fetch pipeline never mutates or deletes them. The
// unique index on message_id is the dedup authority for re-delivered mail.
type Thread struct {
	ID             string                  `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	ConversationID string                  `gorm:"column:conversation_id;type:varchar(50);index;not null" json:"conversationId"`
	Type           enum.ThreadType         `gorm:"column:type;type:varchar(50);not null" json:"type"`
	Status         enum.ConversationStatus `gorm:"column:status;type:varchar(50)" json:"status"`
	State          enum.ConversationState  `gorm:"column:state;type:varchar(50)" json:"state"`
	MessageID      string                  `gorm:"column:message_id;type:varchar(998);uniqueIndex" json:"messageId"`
	Body           string                  `gorm:"column:body;type:text" json:"body"`
	ToAddresses    pq.StringArray          `gorm:"column:to_addresses;type:text[]" json:"toAddresses"`
	CcAddresses    pq.StringArray          `gorm:"column:cc_addresses;type:text[]" json:"ccAddresses"`
	BccAddresses   pq.StringArray          `gorm:"column:bcc_addresses;type:text[]" json:"bccAddresses"`
	SourceVia      enum.Person             `gorm:"column:source_via;type:varchar(50)" json:"sourceVia"`
	SourceType     enum.SourceType         `gorm:"column:source_type;type:varchar(50)" json:"sourceType"`
	CustomerID     string                  `gorm:"column:customer_id;type:varchar(50);index" json:"customerId"`
	CreatedByID    string                  `gorm:"column:created_by_customer_id;type:varchar(50)" json:"createdByCustomerId"`
	HasAttachments bool                    `gorm:"column:has_attachments;default:false" json:"hasAttachments"`
	CreatedAt      time.Time               `gorm:"column:created_at;type:timestamp" json:"createdAt"`
}

func (Thread) TableName() string {
	return "threads"
}

func (t *Thread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = utils.GenerateNanoIDWithPrefix("thrd", 16)
	}
	if t.MessageID != "" {
		t.MessageID = strings.Trim(t.MessageID, "<>")
	}
	t.CreatedAt = utils.Now()
	return nil
}
