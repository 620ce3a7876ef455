package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/highsierra/storefront-gateway/internal/forms"
	"github.com/highsierra/storefront-gateway/internal/pkg/httputil"
	"github.com/highsierra/storefront-gateway/internal/pkg/logger"
)

// graphqlProbe sniffs the request body for the GraphQL escape hatch.
// Variables stays raw so that an empty object still counts as present.
type graphqlProbe struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables"`
}

// ShopifyAdmin is the combined endpoint. A body carrying both query and
// variables is proxied verbatim to the Admin GraphQL API with the upstream
// status mirrored; anything else runs the contact-submit flow.
func (h *Handlers) ShopifyAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Shopify.Configured() {
		logger.Error("shopify admin rejected: missing Shopify configuration")
		httputil.Error(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.BadRequest(w, "invalid request body")
		return
	}

	var probe graphqlProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		httputil.BadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	if probe.Query != "" && probe.Variables != nil {
		h.proxyGraphQL(w, r, probe)
		return
	}

	var submission forms.ContactSubmission
	if err := json.Unmarshal(body, &submission); err != nil {
		httputil.BadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	h.submitContact(w, r, submission)
}

// proxyGraphQL relays the query and mirrors whatever status and body the
// upstream returned. This is deliberately the only endpoint that does not
// normalize the upstream status.
func (h *Handlers) proxyGraphQL(w http.ResponseWriter, r *http.Request, probe graphqlProbe) {
	var variables interface{}
	if err := json.Unmarshal(probe.Variables, &variables); err != nil {
		httputil.BadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	status, respBody, err := h.shopify.GraphQL(r.Context(), probe.Query, variables)
	if err != nil {
		logger.Error("GraphQL passthrough failed", "error", err.Error())
		httputil.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(respBody); err != nil {
		logger.Warn("GraphQL passthrough write failed", "error", err.Error())
	}
}
