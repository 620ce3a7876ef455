package api

import (
	"net/http"

	"github.com/highsierra/storefront-gateway/internal/forms"
	"github.com/highsierra/storefront-gateway/internal/pkg/httputil"
	"github.com/highsierra/storefront-gateway/internal/pkg/logger"
)

// AccessRequest validates a wholesale access request and stores it as an
// access_request metaobject. The submission timestamp is stamped here at
// receipt; a client-supplied value never survives decoding.
func (h *Handlers) AccessRequest(w http.ResponseWriter, r *http.Request) {
	var request forms.AccessRequest
	if !httputil.Decode(w, r, &request) {
		return
	}
	request.SubmittedAt = h.now()

	if err := forms.Validate(request); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	if !h.cfg.Shopify.Configured() {
		logger.Error("access request rejected: missing Shopify configuration")
		httputil.Error(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	result, err := h.shopify.CreateMetaobject(r.Context(), request.Metaobject())
	if err != nil {
		h.respondMetaobjectError(w, err, "access_request", "Failed to submit request. Please try again.")
		return
	}

	logger.Info("access request stored", "id", result.ID, "email", request.Email, "company", request.Company)
	httputil.OK(w, submissionResponse{
		Success: true,
		Message: "Access request submitted successfully",
		ID:      result.ID,
	})
}
