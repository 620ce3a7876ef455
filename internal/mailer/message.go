package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is a file carried with a message. Content stays base64 across
// this API boundary; the mailer emits it directly as the base64 MIME part
// rather than decoding to raw bytes.
type Attachment struct {
	Filename    string
	Content     string // base64
	ContentType string
}

// Message is a single outbound email.
type Message struct {
	From       string
	To         string
	ReplyTo    string
	Subject    string
	Body       string
	Attachment *Attachment
}

// build renders the full RFC 5322 message and returns it with the generated
// Message-ID.
func build(m Message, now time.Time) (string, string) {
	host := m.From
	if at := strings.LastIndex(m.From, "@"); at >= 0 {
		host = m.From[at+1:]
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), host)

	var b strings.Builder
	writeHeader := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	writeHeader("From", m.From)
	writeHeader("To", m.To)
	if m.ReplyTo != "" {
		writeHeader("Reply-To", m.ReplyTo)
	}
	writeHeader("Subject", m.Subject)
	writeHeader("Date", now.UTC().Format(time.RFC1123Z))
	writeHeader("Message-ID", messageID)
	writeHeader("MIME-Version", "1.0")

	if m.Attachment == nil {
		writeHeader("Content-Type", `text/plain; charset="UTF-8"`)
		b.WriteString("\r\n")
		b.WriteString(m.Body)
		return b.String(), messageID
	}

	boundary := "part-" + uuid.NewString()
	writeHeader("Content-Type", fmt.Sprintf(`multipart/mixed; boundary="%s"`, boundary))
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(m.Body)
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	contentType := m.Attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", contentType, m.Attachment.Filename))
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n\r\n", m.Attachment.Filename))
	b.WriteString(wrapBase64(m.Attachment.Content))
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "--\r\n")
	return b.String(), messageID
}

// wrapBase64 normalizes whitespace and re-wraps base64 content to the
// 76-column MIME line limit.
func wrapBase64(content string) string {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', ' ', '\t':
			return -1
		}
		return r
	}, content)

	var b strings.Builder
	for len(compact) > 76 {
		b.WriteString(compact[:76])
		b.WriteString("\r\n")
		compact = compact[76:]
	}
	b.WriteString(compact)
	return b.String()
}
