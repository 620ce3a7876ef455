// Package forms defines the storefront submission records and their
// transformations into the upstream API schemas (Shopify metaobjects,
// Zendesk tickets, support emails).
//
// Every record is request-scoped: constructed from the request body,
// validated, mapped, and discarded. Nothing here persists.
package forms

import "time"

// ContactSubmission is a storefront contact-form submission.
// Field order defines the required-field reporting order.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// AccessRequest is a storefront request for wholesale/portal access.
// SubmittedAt is always stamped server-side at receipt; any client-supplied
// value is discarded before mapping.
type AccessRequest struct {
	FirstName    string    `json:"firstName" validate:"required"`
	LastName     string    `json:"lastName" validate:"required"`
	Email        string    `json:"email" validate:"required"`
	Company      string    `json:"company" validate:"required"`
	Location     string    `json:"location"`
	MachineCount string    `json:"machineCount"`
	Role         string    `json:"role"`
	Message      string    `json:"message"`
	SubmittedAt  time.Time `json:"-"`
}

// Attachment is a file attached to a support ticket. Content is base64 as
// received from the front-end; each upstream adapter decides whether to
// decode it (Zendesk uploads raw bytes, the mailer emits base64 MIME).
type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// SupportTicket is a storefront support-ticket submission, delivered either
// to Zendesk or to the support inbox over SMTP.
type SupportTicket struct {
	Subject        string      `json:"subject" validate:"required"`
	Description    string      `json:"description" validate:"required"`
	Category       string      `json:"category"`
	Priority       string      `json:"priority"`
	RequesterEmail string      `json:"requesterEmail" validate:"required"`
	RequesterName  string      `json:"requesterName"`
	Attachment     *Attachment `json:"attachment"`
}

// LoginRequest is an admin console login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
