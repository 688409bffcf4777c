package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/utils"
)

type Mailbox struct {
	ID    string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Name  string `gorm:"column:name;type:varchar(255)" json:"name"`
	Email string `gorm:"column:email;type:varchar(255);index" json:"email"`
	// Inbound connection settings
	InProtocol   enum.MailProtocol   `gorm:"column:in_protocol;type:varchar(50)" json:"inProtocol"`
	InServer     string              `gorm:"column:in_server;type:varchar(255)" json:"inServer"`
	InPort       int                 `gorm:"column:in_port" json:"inPort"`
	InUsername   string              `gorm:"column:in_username;type:varchar(255)" json:"inUsername"`
	InPassword   string              `gorm:"column:in_password;type:varchar(255)" json:"-"`
	InEncryption enum.MailEncryption `gorm:"column:in_encryption;type:varchar(50);default:none" json:"inEncryption"`
	// Standard timestamps
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Mailbox) TableName() string {
	return "mailboxes"
}

func (m *Mailbox) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.GenerateNanoIDWithPrefix("mbox", 16)
	}
	return nil
}

// HasInboundCredentials reports whether every field needed to poll the
// mailbox is set.
func (m *Mailbox) HasInboundCredentials() bool {
	return m.InProtocol != "" &&
		m.InServer != "" &&
		m.InPort != 0 &&
		m.InUsername != "" &&
		m.InPassword != ""
}
