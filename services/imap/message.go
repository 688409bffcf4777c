package imap

import (
	"bytes"
	"io"
	"strings"

	"github.com/customeros/mailsherpa/mailvalidate"
	goimap "github.com/emersion/go-imap"
	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/utils"
)

// buildRemoteMessage converts a fetched IMAP message into the transport
// neutral form the ingestion pipeline consumes. The envelope supplies
// addressing, the full body section supplies content and the raw
// References header.
func buildRemoteMessage(msg *goimap.Message) (*interfaces.RemoteMessage, error) {
	if msg == nil || msg.Envelope == nil {
		return nil, errors.New("message has no envelope")
	}

	envelope := msg.Envelope

	remote := &interfaces.RemoteMessage{
		UID:       msg.Uid,
		MessageID: utils.NormalizeMessageID(envelope.MessageId),
		Subject:   envelope.Subject,
		From:      convertAddresses(envelope.From),
		ReplyTo:   convertAddresses(envelope.ReplyTo),
		To:        convertAddresses(envelope.To),
		Cc:        convertAddresses(envelope.Cc),
		Bcc:       convertAddresses(envelope.Bcc),
		InReplyTo: firstMessageID(envelope.InReplyTo),
	}

	if !envelope.Date.IsZero() {
		sentAt := envelope.Date
		remote.SentAt = &sentAt
	}

	raw := extractFullMessage(msg)
	if len(raw) > 0 {
		parseContent(remote, raw)
	}

	return remote, nil
}

// convertAddresses keeps only syntactically valid addresses, cleaned by
// the validator. Display names pass through untouched.
func convertAddresses(addresses []*goimap.Address) []interfaces.Participant {
	if len(addresses) == 0 {
		return nil
	}

	result := make([]interfaces.Participant, 0, len(addresses))
	for _, addr := range addresses {
		if addr.MailboxName == "" || addr.HostName == "" {
			continue
		}
		validation := mailvalidate.ValidateEmailSyntax(addr.Address())
		if !validation.IsValid {
			continue
		}
		result = append(result, interfaces.Participant{
			Name:    addr.PersonalName,
			Address: validation.CleanEmail,
		})
	}
	return result
}

// firstMessageID picks the first id from a possibly space-separated
// In-Reply-To header and strips its angle brackets.
func firstMessageID(header string) string {
	for _, ref := range strings.Fields(header) {
		ref = strings.Trim(ref, "<>")
		if ref != "" {
			return ref
		}
	}
	return ""
}

func extractFullMessage(msg *goimap.Message) []byte {
	for section, literal := range msg.Body {
		if len(section.Path) == 0 && section.Specifier == goimap.EntireSpecifier {
			data, err := io.ReadAll(literal)
			if err == nil {
				return data
			}
		}
	}
	return nil
}

func parseContent(remote *interfaces.RemoteMessage, raw []byte) {
	envelope, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return
	}

	remote.BodyText = envelope.Text
	remote.BodyHTML = envelope.HTML
	remote.HasAttachments = len(envelope.Attachments) > 0 || len(envelope.Inlines) > 0

	// The raw header value is kept as-is; the thread resolver owns the
	// splitting rules.
	remote.References = envelope.GetHeader("References")
	if remote.InReplyTo == "" {
		remote.InReplyTo = firstMessageID(envelope.GetHeader("In-Reply-To"))
	}
}
