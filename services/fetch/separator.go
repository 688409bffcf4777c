package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Reply separators injected into outbound notification emails. Inbound
// replies are cut at the first occurrence so quoted history is dropped.
const (
	ReplyAboveHTML = "<div class=\"reply-above-separator\"></div>"
	ReplyAboveText = "-- Please type your reply above this line --"
)

// Separate extracts the fresh reply from a message body. HTML bodies are
// reduced to the inner markup of <body> first; plain-text bodies are
// converted to markup with nl2br. In both cases everything from the first
// reply separator onward is discarded. Malformed markup degrades to the
// raw input, it never errors.
func Separate(body string, isHTML bool) string {
	if isHTML {
		return cutAt(extractBodyMarkup(body), ReplyAboveHTML)
	}
	return cutAt(nl2br(body), ReplyAboveText)
}

func cutAt(body, marker string) string {
	if idx := strings.Index(body, marker); idx >= 0 {
		return body[:idx]
	}
	return body
}

func extractBodyMarkup(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}

	inner, err := doc.Find("body").Html()
	if err != nil || inner == "" {
		return body
	}
	return inner
}

// nl2br inserts a <br /> before every newline while keeping the newline
// itself, treating \r\n, \n\r, \r and \n each as one break.
func nl2br(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			b.WriteString("<br />")
			b.WriteByte('\r')
			if i+1 < len(s) && s[i+1] == '\n' {
				b.WriteByte('\n')
				i++
			}
		case '\n':
			b.WriteString("<br />")
			b.WriteByte('\n')
			if i+1 < len(s) && s[i+1] == '\r' {
				b.WriteByte('\r')
				i++
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
