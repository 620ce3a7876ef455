package api

import (
	"net/http"

	"github.com/highsierra/storefront-gateway/internal/forms"
	"github.com/highsierra/storefront-gateway/internal/pkg/httputil"
	"github.com/highsierra/storefront-gateway/internal/pkg/logger"
)

// submissionResponse is the success envelope of the metaobject-backed
// endpoints.
type submissionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// ContactSubmit validates a contact-form submission and stores it as a
// contact_submission metaobject.
func (h *Handlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	var submission forms.ContactSubmission
	if !httputil.Decode(w, r, &submission) {
		return
	}
	h.submitContact(w, r, submission)
}

// submitContact is the shared contact flow, also reachable through the
// combined Shopify admin endpoint.
func (h *Handlers) submitContact(w http.ResponseWriter, r *http.Request, submission forms.ContactSubmission) {
	if err := forms.Validate(submission); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	if !h.cfg.Shopify.Configured() {
		logger.Error("contact submit rejected: missing Shopify configuration")
		httputil.Error(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	result, err := h.shopify.CreateMetaobject(r.Context(), submission.Metaobject(h.now()))
	if err != nil {
		h.respondMetaobjectError(w, err, "contact_submission", "Failed to submit contact form. Please try again.")
		return
	}

	logger.Info("contact submission stored", "id", result.ID, "email", submission.Email)
	httputil.OK(w, submissionResponse{
		Success: true,
		Message: "Contact form submitted successfully",
		ID:      result.ID,
	})
}
