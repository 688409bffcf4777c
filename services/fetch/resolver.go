package fetch

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
	"github.com/freedesk/mailroom/internal/utils"
)

// ThreadResolver locates the prior Thread an inbound message replies to.
// The In-Reply-To header is authoritative when present; References is
// consulted only when In-Reply-To is absent.
type ThreadResolver struct {
	threadRepository interfaces.ThreadRepository
}

func NewThreadResolver(threadRepository interfaces.ThreadRepository) *ThreadResolver {
	return &ThreadResolver{threadRepository: threadRepository}
}

// Resolve returns the matched thread, or (nil, nil) when the message
// starts a new conversation. Store errors propagate; a miss does not.
func (r *ThreadResolver) Resolve(ctx context.Context, inReplyTo, references string) (*models.Thread, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ThreadResolver.Resolve")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	// An In-Reply-To naming an unknown parent starts a new conversation;
	// References is never used to reattach to an older ancestor.
	if id := utils.NormalizeMessageID(inReplyTo); id != "" {
		thread, err := r.threadRepository.GetByMessageID(ctx, id)
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
		if thread != nil {
			span.SetTag("matched_by", "in_reply_to")
			return thread, nil
		}
		span.SetTag("matched_by", "none")
		return nil, nil
	}

	ids := SplitReferences(references)
	if len(ids) == 0 {
		span.SetTag("matched_by", "none")
		return nil, nil
	}

	thread, err := r.threadRepository.FirstByMessageIDs(ctx, ids)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if thread != nil {
		span.SetTag("matched_by", "references")
	} else {
		span.SetTag("matched_by", "none")
	}
	return thread, nil
}

// SplitReferences splits a raw References header into bare message ids.
// Separators are commas, angle brackets and whitespace; empty fragments
// are dropped.
func SplitReferences(references string) []string {
	if references == "" {
		return nil
	}

	fragments := strings.FieldsFunc(references, func(r rune) bool {
		return r == ',' || r == '<' || r == '>' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})

	ids := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if fragment != "" && !utils.IsStringInSlice(fragment, ids) {
			ids = append(ids, fragment)
		}
	}
	return ids
}
