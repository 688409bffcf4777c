package repository

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input parameters")
	ErrDuplicateMessageID   = errors.New("thread with this message id already exists")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMailboxNotFound      = errors.New("mailbox not found")
)
