package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/enum"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
)

const (
	connectTimeout = 30 * time.Second
	commandTimeout = 30 * time.Second
	logoutTimeout  = 5 * time.Second
)

// IMAPClient dials an inbound mail server and authenticates with the
// mailbox credentials. It implements interfaces.MailClient.
type IMAPClient struct {
	log logger.Logger
}

func NewIMAPClient(log logger.Logger) *IMAPClient {
	return &IMAPClient{log: log}
}

func (c *IMAPClient) Connect(ctx context.Context, mailbox *models.Mailbox) (interfaces.MailSession, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPClient.Connect")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMailbox(span, mailbox.Name)
	span.SetTag("server", mailbox.InServer)
	span.SetTag("port", mailbox.InPort)
	span.SetTag("encryption", mailbox.InEncryption.String())

	if mailbox.InProtocol != enum.MailProtocolIMAP {
		err := errors.Errorf("unsupported inbound protocol: %s", mailbox.InProtocol)
		tracing.TraceErr(span, err)
		return nil, err
	}

	serverAddr := fmt.Sprintf("%s:%d", mailbox.InServer, mailbox.InPort)

	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: connectTimeout,
	}

	var conn *client.Client
	var err error

	switch mailbox.InEncryption {
	case enum.MailEncryptionSSL, enum.MailEncryptionTLS:
		tlsConfig := &tls.Config{
			ServerName: mailbox.InServer,
		}
		conn, err = client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	default:
		conn, err = client.DialWithDialer(dialer, serverAddr)
	}
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrapf(err, "failed to connect to %s", serverAddr)
	}

	if mailbox.InEncryption == enum.MailEncryptionStartTLS {
		tlsConfig := &tls.Config{
			ServerName: mailbox.InServer,
		}
		if err := conn.StartTLS(tlsConfig); err != nil {
			conn.Logout()
			tracing.TraceErr(span, err)
			return nil, errors.Wrapf(err, "starttls failed for %s", serverAddr)
		}
	}

	caps, err := conn.Capability()
	if err != nil {
		conn.Logout()
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to get capabilities")
	}
	span.SetTag("server.capabilities", fmt.Sprintf("%v", caps))

	conn.Timeout = commandTimeout
	if err := conn.Login(mailbox.InUsername, mailbox.InPassword); err != nil {
		conn.Logout()
		tracing.TraceErr(span, err)
		return nil, errors.Wrapf(err, "failed to login as %s", mailbox.InUsername)
	}

	c.log.Infof("[%s] connected and logged in to %s", mailbox.ID, serverAddr)

	return &imapSession{
		conn:    conn,
		mailbox: mailbox,
		log:     c.log,
	}, nil
}
