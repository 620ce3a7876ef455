package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/highsierra/storefront-gateway/internal/forms"
	"github.com/highsierra/storefront-gateway/internal/pkg/httputil"
	"github.com/highsierra/storefront-gateway/internal/pkg/logger"
	"github.com/highsierra/storefront-gateway/internal/zendesk"
)

// supportError is the error envelope of both support-ticket channels.
type supportError struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Status  int         `json:"status,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func respondSupportError(w http.ResponseWriter, status int, resp supportError) {
	resp.Success = false
	httputil.JSON(w, status, resp)
}

// SupportEmail relays a support ticket to the support inbox over SMTP.
// Unlike the Zendesk channel, a malformed attachment here fails the whole
// send: the mail layer owns the attachment and there is no partial message
// to fall back to.
func (h *Handlers) SupportEmail(w http.ResponseWriter, r *http.Request) {
	var ticket forms.SupportTicket
	if !httputil.Decode(w, r, &ticket) {
		return
	}

	if err := forms.Validate(ticket); err != nil {
		respondSupportError(w, http.StatusBadRequest, supportError{Error: err.Error()})
		return
	}

	if !h.cfg.SMTP.Configured() {
		logger.Error("support email rejected: missing SMTP configuration")
		respondSupportError(w, http.StatusInternalServerError, supportError{Error: "Server configuration error"})
		return
	}

	msg := ticket.EmailMessage(h.cfg.SMTP.User, h.cfg.SMTP.GetSupportEmail(), h.now())
	messageID, err := h.mailer.Send(r.Context(), msg)
	if err != nil {
		logger.Error("support email send failed", "error", err.Error(), "requester", ticket.RequesterEmail)
		respondSupportError(w, http.StatusInternalServerError, supportError{
			Error: "Failed to submit support ticket. Please try again later.",
		})
		return
	}

	logger.Info("support email sent", "messageId", messageID, "requester", ticket.RequesterEmail)
	httputil.OK(w, map[string]interface{}{
		"success":   true,
		"message":   "Support ticket submitted successfully. Our team will respond via email.",
		"messageId": messageID,
	})
}

// SupportTicket files a support ticket in Zendesk, uploading the attachment
// first when one is present. Attachment failures degrade gracefully: the
// upload error is logged and the ticket is still created without it.
// Ticket-create failure, by contrast, fails the request.
func (h *Handlers) SupportTicket(w http.ResponseWriter, r *http.Request) {
	var ticket forms.SupportTicket
	if !httputil.Decode(w, r, &ticket) {
		return
	}

	if err := forms.Validate(ticket); err != nil {
		respondSupportError(w, http.StatusBadRequest, supportError{Error: err.Error()})
		return
	}

	if !h.cfg.Zendesk.Configured() {
		logger.Error("support ticket rejected: missing Zendesk configuration")
		respondSupportError(w, http.StatusInternalServerError, supportError{Error: "Server configuration error"})
		return
	}

	zdTicket := ticket.ZendeskTicket()
	if ticket.Attachment != nil {
		if token, ok := h.uploadAttachment(r, ticket.Attachment); ok {
			zdTicket.Comment.Uploads = []string{token}
		}
	}

	result, err := h.zendesk.CreateTicket(r.Context(), zdTicket)
	if err != nil {
		var apiErr *zendesk.APIError
		if errors.As(err, &apiErr) {
			logger.Error("Zendesk ticket create failed", "status", apiErr.StatusCode, "details", apiErr.Details)
			respondSupportError(w, http.StatusInternalServerError, supportError{
				Error:   "Zendesk ticket creation failed",
				Status:  apiErr.StatusCode,
				Details: apiErr.Details,
			})
			return
		}
		logger.Error("Zendesk ticket create failed", "error", err.Error())
		respondSupportError(w, http.StatusInternalServerError, supportError{Error: "Zendesk ticket creation failed"})
		return
	}

	if result.ID == 0 {
		logger.Warn("Zendesk ticket created with empty response body")
		httputil.OK(w, map[string]interface{}{
			"success": true,
			"message": "Ticket created successfully",
			"note":    result.Note,
		})
		return
	}

	logger.Info("support ticket created", "ticketId", result.ID, "requester", ticket.RequesterEmail)
	httputil.OK(w, map[string]interface{}{
		"success":   true,
		"message":   "Support ticket created successfully",
		"ticketId":  result.ID,
		"ticketUrl": result.URL,
	})
}

// uploadAttachment decodes and uploads the attachment, returning the upload
// token. Every failure mode here is swallowed after logging so the ticket
// itself still goes through.
func (h *Handlers) uploadAttachment(r *http.Request, att *forms.Attachment) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(att.Content)
	if err != nil {
		logger.Warn("attachment decode failed, creating ticket without it", "filename", att.Filename, "error", err.Error())
		return "", false
	}

	token, err := h.zendesk.UploadAttachment(r.Context(), att.Filename, att.ContentType, raw)
	if err != nil {
		logger.Warn("attachment upload failed, creating ticket without it", "filename", att.Filename, "error", err.Error())
		return "", false
	}
	return token, true
}
