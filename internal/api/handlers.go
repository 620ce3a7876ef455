// Package api contains the HTTP handlers that adapt storefront form
// submissions onto the upstream integrations (Shopify, Zendesk, SMTP).
package api

import (
	"net/http"
	"time"

	"github.com/highsierra/storefront-gateway/internal/auth"
	"github.com/highsierra/storefront-gateway/internal/config"
	"github.com/highsierra/storefront-gateway/internal/mailer"
	"github.com/highsierra/storefront-gateway/internal/pkg/httputil"
	"github.com/highsierra/storefront-gateway/internal/shopify"
	"github.com/highsierra/storefront-gateway/internal/zendesk"
)

// Handlers holds the configuration and upstream clients shared by all
// endpoints. Everything here is read-only after construction; each request
// is handled independently.
type Handlers struct {
	cfg     *config.Config
	auth    *auth.Authenticator
	shopify *shopify.Client
	zendesk *zendesk.Client
	mailer  *mailer.Sender
	now     func() time.Time
}

// NewHandlers creates the handler set
func NewHandlers(cfg *config.Config, authn *auth.Authenticator, sh *shopify.Client, zd *zendesk.Client, ml *mailer.Sender) *Handlers {
	return &Handlers{
		cfg:     cfg,
		auth:    authn,
		shopify: sh,
		zendesk: zd,
		mailer:  ml,
		now:     time.Now,
	}
}

// SetClock overrides the timestamp source (useful for testing)
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}
