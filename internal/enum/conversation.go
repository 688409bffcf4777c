package enum

type ConversationType string

const (
	ConversationTypeEmail ConversationType = "email"
	ConversationTypePhone ConversationType = "phone"
	ConversationTypeChat  ConversationType = "chat"
)

func (t ConversationType) String() string {
	return string(t)
}

type ConversationStatus string

const (
	ConversationStatusActive  ConversationStatus = "active"
	ConversationStatusPending ConversationStatus = "pending"
	ConversationStatusClosed  ConversationStatus = "closed"
	ConversationStatusSpam    ConversationStatus = "spam"
)

func (t ConversationStatus) String() string {
	return string(t)
}

type ConversationState string

const (
	ConversationStateDraft     ConversationState = "draft"
	ConversationStatePublished ConversationState = "published"
	ConversationStateDeleted   ConversationState = "deleted"
)

func (t ConversationState) String() string {
	return string(t)
}
