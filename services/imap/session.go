package imap

import (
	"context"
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
)

const fetchTimeout = 60 * time.Second

// imapSession is one authenticated connection to a remote mailbox.
type imapSession struct {
	conn    *client.Client
	mailbox *models.Mailbox
	log     logger.Logger
}

func (s *imapSession) SelectFolder(ctx context.Context, name string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "imapSession.SelectFolder")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMailbox(span, s.mailbox.Name)
	span.SetTag("folder", name)

	_, err := s.conn.Select(name, false)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrapf(err, "error selecting folder %s", name)
	}
	return nil
}

// FetchUnseenSince searches for unseen messages dated after since and
// fetches them with BODY.PEEK so the unseen flag is left untouched.
func (s *imapSession) FetchUnseenSince(ctx context.Context, since time.Time) ([]*interfaces.RemoteMessage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "imapSession.FetchUnseenSince")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMailbox(span, s.mailbox.Name)
	span.SetTag("since", since.Format(time.RFC3339))

	criteria := goimap.NewSearchCriteria()
	criteria.WithoutFlags = []string{goimap.SeenFlag}
	criteria.Since = since

	uids, err := s.conn.UidSearch(criteria)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "error searching for unseen messages")
	}

	span.SetTag("result.count", len(uids))
	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(uids...)

	items := []goimap.FetchItem{
		goimap.FetchEnvelope,
		goimap.FetchFlags,
		goimap.FetchUid,
		"BODY.PEEK[]",
	}

	messages := make(chan *goimap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- s.conn.UidFetch(seqSet, items, messages)
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var result []*interfaces.RemoteMessage
	for msg := range messages {
		remote, err := buildRemoteMessage(msg)
		if err != nil {
			s.log.Warnf("[%s] skipping unparsable message uid %d: %v", s.mailbox.ID, msg.Uid, err)
			tracing.TraceErr(span, err)
			continue
		}
		result = append(result, remote)
	}

	select {
	case err := <-done:
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, errors.Wrap(err, "error fetching unseen messages")
		}
	case <-fetchCtx.Done():
		err := fetchCtx.Err()
		tracing.TraceErr(span, err)
		return nil, err
	}

	return result, nil
}

// MarkSeen sets the seen flag on a single message. Called only after
// the message has been committed locally.
func (s *imapSession) MarkSeen(ctx context.Context, uid uint32) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "imapSession.MarkSeen")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMailbox(span, s.mailbox.Name)
	span.SetTag("uid", uid)

	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(uid)

	item := goimap.FormatFlagsOp(goimap.AddFlags, true)
	flags := []interface{}{goimap.SeenFlag}

	err := s.conn.UidStore(seqSet, item, flags, nil)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrapf(err, "error marking uid %d seen", uid)
	}
	return nil
}

func (s *imapSession) Logout() error {
	s.conn.Timeout = logoutTimeout

	done := make(chan error, 1)
	go func() {
		done <- s.conn.Logout()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(logoutTimeout):
		s.log.Warnf("[%s] logout timed out", s.mailbox.ID)
		return nil
	}
}
