package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/config"
	"github.com/freedesk/mailroom/internal/models"
)

type Repositories struct {
	ActivityLogRepository  interfaces.ActivityLogRepository
	ConversationRepository interfaces.ConversationRepository
	CustomerRepository     interfaces.CustomerRepository
	FolderRepository       interfaces.FolderRepository
	MailboxRepository      interfaces.MailboxRepository
	ThreadRepository       interfaces.ThreadRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		ActivityLogRepository:  NewActivityLogRepository(db),
		ConversationRepository: NewConversationRepository(db),
		CustomerRepository:     NewCustomerRepository(db),
		FolderRepository:       NewFolderRepository(db),
		MailboxRepository:      NewMailboxRepository(db),
		ThreadRepository:       NewThreadRepository(db),
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(5)

	err = db.AutoMigrate(
		&models.ActivityLog{},
		&models.Conversation{},
		&models.Customer{},
		&models.Folder{},
		&models.Mailbox{},
		&models.Thread{},
	)
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return nil
}
