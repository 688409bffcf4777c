package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/freedesk/mailroom/internal/utils"
)

// Customer is keyed by the sanitized sender address: created on the first
// message from an address and reused for every later one.
type Customer struct {
	ID        string    `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Email     string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"column:first_name;type:varchar(255)" json:"firstName"`
	LastName  string    `gorm:"column:last_name;type:varchar(255)" json:"lastName"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.GenerateNanoIDWithPrefix("cust", 16)
	}
	return nil
}
