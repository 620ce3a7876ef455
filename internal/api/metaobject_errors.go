package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/highsierra/storefront-gateway/internal/pkg/httputil"
	"github.com/highsierra/storefront-gateway/internal/pkg/logger"
	"github.com/highsierra/storefront-gateway/internal/shopify"
)

// metaobjectErrorResponse is the error envelope of the metaobject-backed
// endpoints. Details carries the parsed upstream payload for operator use.
type metaobjectErrorResponse struct {
	Error    string      `json:"error"`
	SetupURL string      `json:"setupUrl,omitempty"`
	Details  interface{} `json:"details,omitempty"`
}

// respondMetaobjectError normalizes a metaobject create failure. The full
// upstream payload is logged server-side; the caller gets a remediation
// message keyed off the error category plus the details payload.
func (h *Handlers) respondMetaobjectError(w http.ResponseWriter, err error, metaobjectType, genericMsg string) {
	var apiErr *shopify.APIError
	if !errors.As(err, &apiErr) {
		logger.Error("metaobject create failed", "type", metaobjectType, "error", err.Error())
		httputil.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Error("Shopify API error",
		"type", metaobjectType,
		"status", fmt.Sprintf("%d", apiErr.StatusCode),
		"category", string(apiErr.Category),
	)

	resp := metaobjectErrorResponse{Details: apiErr.Details}
	switch apiErr.Category {
	case shopify.CategoryTypeNotConfigured:
		resp.Error = fmt.Sprintf("Metaobject type not configured. Please create %q metaobject definition in Shopify admin first.", metaobjectType)
		resp.SetupURL = h.shopify.SetupURL()
	case shopify.CategoryPermission:
		resp.Error = "API permissions missing. Please add read_metaobjects and write_metaobjects permissions to your Shopify app."
	case shopify.CategoryTimeout:
		resp.Error = "Upstream request timed out. Please try again."
	default:
		resp.Error = genericMsg
	}

	httputil.JSON(w, http.StatusInternalServerError, resp)
}
