package dto

import "time"

// CustomerReplied is emitted after an inbound message is committed, for
// every downstream consumer (notifications, webhooks, search indexing).
type CustomerReplied struct {
	ConversationID    string     `json:"conversationId"`
	ThreadID          string     `json:"threadId"`
	MailboxID         string     `json:"mailboxId"`
	CustomerID        string     `json:"customerId"`
	IsNewConversation bool       `json:"isNewConversation"`
	Subject           string     `json:"subject"`
	Preview           string     `json:"preview"`
	LastReplyAt       *time.Time `json:"lastReplyAt"`
}
