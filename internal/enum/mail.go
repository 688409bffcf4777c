package enum

type MailProtocol string

const (
	MailProtocolIMAP MailProtocol = "imap"
	MailProtocolPOP3 MailProtocol = "pop3"
)

func (t MailProtocol) String() string {
	return string(t)
}

type MailEncryption string

const (
	MailEncryptionNone     MailEncryption = "none"
	MailEncryptionSSL      MailEncryption = "ssl"
	MailEncryptionTLS      MailEncryption = "tls"
	MailEncryptionStartTLS MailEncryption = "starttls"
)

func (t MailEncryption) String() string {
	return string(t)
}

type FolderType string

const (
	FolderTypeUnassigned FolderType = "unassigned"
	FolderTypeMine       FolderType = "mine"
	FolderTypeStarred    FolderType = "starred"
	FolderTypeDrafts     FolderType = "drafts"
	FolderTypeAssigned   FolderType = "assigned"
	FolderTypeClosed     FolderType = "closed"
	FolderTypeSpam       FolderType = "spam"
	FolderTypeDeleted    FolderType = "deleted"
)

func (t FolderType) String() string {
	return string(t)
}
