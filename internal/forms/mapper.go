package forms

import (
	"fmt"
	"strings"
	"time"

	"github.com/highsierra/storefront-gateway/internal/mailer"
	"github.com/highsierra/storefront-gateway/internal/shopify"
	"github.com/highsierra/storefront-gateway/internal/zendesk"
)

// contactSource marks provenance on stored contact submissions.
const contactSource = "storefront-contact-form"

// MapPriority collapses the storefront priority vocabulary onto Zendesk's.
// Zendesk has no "medium"; it and anything unrecognized fold into "normal".
// The function is total and idempotent: its output set is closed under it.
func MapPriority(priority string) string {
	switch strings.ToLower(priority) {
	case "low":
		return "low"
	case "high":
		return "high"
	case "urgent":
		return "urgent"
	default:
		return "normal"
	}
}

// Metaobject maps a contact submission onto the contact_submission
// metaobject schema. Optional fields map to empty strings; the timestamp is
// the server-side capture time.
func (c ContactSubmission) Metaobject(now time.Time) shopify.Metaobject {
	return shopify.Metaobject{
		Type: "contact_submission",
		Fields: []shopify.Field{
			{Key: "full_name", Value: c.Name},
			{Key: "email", Value: c.Email},
			{Key: "phone", Value: c.Phone},
			{Key: "company", Value: c.Company},
			{Key: "subject", Value: c.Subject},
			{Key: "message", Value: c.Message},
			{Key: "source", Value: contactSource},
			{Key: "submitted_at", Value: now.UTC().Format(time.RFC3339)},
		},
	}
}

// Metaobject maps an access request onto the access_request metaobject
// schema. New requests always enter as status "pending"; submitted_at is the
// server-stamped receipt time.
func (a AccessRequest) Metaobject() shopify.Metaobject {
	return shopify.Metaobject{
		Type: "access_request",
		Fields: []shopify.Field{
			{Key: "first_name", Value: a.FirstName},
			{Key: "last_name", Value: a.LastName},
			{Key: "email", Value: a.Email},
			{Key: "company", Value: a.Company},
			{Key: "location", Value: a.Location},
			{Key: "machine_count", Value: a.MachineCount},
			{Key: "role", Value: a.Role},
			{Key: "message", Value: a.Message},
			{Key: "status", Value: "pending"},
			{Key: "submitted_at", Value: a.SubmittedAt.UTC().Format(time.RFC3339)},
		},
	}
}

// requesterName returns the display name, defaulting to the local part of
// the requester email.
func (t SupportTicket) requesterName() string {
	if t.RequesterName != "" {
		return t.RequesterName
	}
	return strings.SplitN(t.RequesterEmail, "@", 2)[0]
}

// category returns the ticket category with the given fallback.
func (t SupportTicket) category(fallback string) string {
	if t.Category != "" {
		return t.Category
	}
	return fallback
}

// ZendeskTicket maps a support ticket onto the Zendesk ticket schema. The
// attachment is not part of the mapping; its upload token, if any, is added
// to the comment by the caller after the upload step.
func (t SupportTicket) ZendeskTicket() zendesk.Ticket {
	return zendesk.Ticket{
		Subject: t.Subject,
		Comment: zendesk.Comment{
			Body: fmt.Sprintf("Category: %s\n\n%s", t.category("N/A"), t.Description),
		},
		Requester: zendesk.Requester{
			Email: t.RequesterEmail,
			Name:  t.requesterName(),
		},
		Priority: MapPriority(t.Priority),
		Tags:     []string{"web", "support-ticket", t.category("general")},
	}
}

// EmailMessage maps a support ticket onto a plain-text email to the support
// inbox. The attachment content stays base64; the mail layer encodes it into
// the MIME part itself.
func (t SupportTicket) EmailMessage(from, to string, now time.Time) mailer.Message {
	priority := t.Priority
	if priority == "" {
		priority = "medium"
	}

	body := fmt.Sprintf(`Support Ticket Details:

Name: %s
Email: %s
Category: %s
Priority: %s

Description:
%s

---
This ticket was submitted through the storefront support form.
Submitted at: %s`,
		t.requesterName(),
		t.RequesterEmail,
		t.category("N/A"),
		priority,
		t.Description,
		now.UTC().Format(time.RFC3339),
	)

	m := mailer.Message{
		From:    from,
		To:      to,
		ReplyTo: t.RequesterEmail,
		Subject: fmt.Sprintf("[Support Ticket] %s | Priority: %s", t.Subject, priority),
		Body:    body,
	}
	if t.Attachment != nil {
		m.Attachment = &mailer.Attachment{
			Filename:    t.Attachment.Filename,
			Content:     t.Attachment.Content,
			ContentType: t.Attachment.ContentType,
		}
	}
	return m
}
