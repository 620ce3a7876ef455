// Package auth verifies admin console logins against the configured
// credential pairs and issues short-lived session tokens.
package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/highsierra/storefront-gateway/internal/config"
	"github.com/highsierra/storefront-gateway/internal/shopify"
)

// Roles a matched credential pair resolves to.
const (
	RoleAdmin      = "admin"
	RoleStoreOwner = "store_owner"
)

var (
	// ErrBadRequest means email or password was empty.
	ErrBadRequest = errors.New("email and password are required")
	// ErrNotConfigured means the server-side admin settings are absent.
	ErrNotConfigured = errors.New("admin credentials not configured")
	// ErrInvalidCredentials means no configured pair matched.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Principal is an authenticated admin console user.
type Principal struct {
	Email      string
	Role       string
	RedirectTo string
}

// Authenticator checks login attempts against the configured admin and
// store-owner pairs. Credentials are configured plaintext secrets; no
// hashing is involved, so comparison is constant-time to keep the check
// free of a timing side channel.
type Authenticator struct {
	admin       config.AdminConfig
	storeDomain string
	tokens      *TokenManager
}

// NewAuthenticator builds an authenticator from the admin and Shopify
// config sections.
func NewAuthenticator(admin config.AdminConfig, storeDomain string) *Authenticator {
	return &Authenticator{
		admin:       admin,
		storeDomain: storeDomain,
		tokens:      NewTokenManager(admin.JWTSecret, 24*60),
	}
}

// Authenticate resolves a login attempt to a principal. Pairs are checked in
// order: the admin pair first (redirecting into the metaobject admin), then
// the optional store-owner pair (redirecting to the storefront root).
func (a *Authenticator) Authenticate(email, password string) (*Principal, error) {
	if email == "" || password == "" {
		return nil, ErrBadRequest
	}
	if !a.admin.Configured() {
		return nil, ErrNotConfigured
	}

	if constantTimeEqual(email, a.admin.AdminEmail) && constantTimeEqual(password, a.admin.AdminPassword) {
		return &Principal{
			Email:      a.admin.AdminEmail,
			Role:       RoleAdmin,
			RedirectTo: shopify.AdminMetaobjectsURL(a.storeDomain),
		}, nil
	}

	if a.admin.StoreOwnerEmail != "" && a.admin.StoreOwnerPassword != "" &&
		constantTimeEqual(email, a.admin.StoreOwnerEmail) && constantTimeEqual(password, a.admin.StoreOwnerPassword) {
		return &Principal{
			Email:      a.admin.StoreOwnerEmail,
			Role:       RoleStoreOwner,
			RedirectTo: shopify.StorefrontURL(a.storeDomain),
		}, nil
	}

	return nil, ErrInvalidCredentials
}

// IssueToken signs a session token for the principal.
func (a *Authenticator) IssueToken(p *Principal) (string, error) {
	return a.tokens.GenerateToken(p.Email, p.Role)
}

// ParseToken validates a session token and returns its claims.
func (a *Authenticator) ParseToken(token string) (*Claims, error) {
	return a.tokens.ParseToken(token)
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
