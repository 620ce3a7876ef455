package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highsierra/storefront-gateway/internal/auth"
	"github.com/highsierra/storefront-gateway/internal/config"
	"github.com/highsierra/storefront-gateway/internal/mailer"
	"github.com/highsierra/storefront-gateway/internal/shopify"
	"github.com/highsierra/storefront-gateway/internal/zendesk"
)

var testClock = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Admin: config.AdminConfig{
			AdminEmail:         "admin@x.com",
			AdminPassword:      "secret1",
			StoreOwnerEmail:    "owner@x.com",
			StoreOwnerPassword: "secret2",
			JWTSecret:          "signing-secret",
		},
		Shopify: config.ShopifyConfig{
			StoreDomain: "test-store.myshopify.com",
			AccessToken: "shpat-test",
		},
		Zendesk: config.ZendeskConfig{
			Email:     "agent@example.com",
			APIToken:  "zd-token",
			Subdomain: "testco",
		},
		// SMTP left unconfigured; the email channel is covered by
		// validation and misconfiguration tests only.
	}
}

// newTestRouter wires real clients against mock upstream servers.
func newTestRouter(t *testing.T, cfg *config.Config, shopifyURL, zendeskURL string) *chi.Mux {
	t.Helper()

	authn := auth.NewAuthenticator(cfg.Admin, cfg.Shopify.StoreDomain)
	shopifyClient := shopify.NewClient(cfg.Shopify)
	if shopifyURL != "" {
		shopifyClient.SetBaseURL(shopifyURL)
	}
	zendeskClient := zendesk.NewClient(cfg.Zendesk)
	if zendeskURL != "" {
		zendeskClient.SetBaseURL(zendeskURL)
	}

	h := NewHandlers(cfg, authn, shopifyClient, zendeskClient, mailer.NewSender(cfg.SMTP))
	h.SetClock(func() time.Time { return testClock })
	return SetupRoutes(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ---------------------------------------------------------------------------
// Admin login
// ---------------------------------------------------------------------------

func TestAdminLogin(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "admin@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://admin.shopify.com/store/test-store/settings/custom_data/metaobjects/access_request", body["redirectTo"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "admin@x.com", user["email"])
	assert.Equal(t, "admin", user["role"])
}

func TestAdminLoginStoreOwner(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "owner@x.com", "password": "secret2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "https://test-store.myshopify.com", body["redirectTo"])
	assert.Equal(t, "store_owner", body["user"].(map[string]interface{})["role"])
}

func TestAdminLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "admin@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, rec)["error"])
}

func TestAdminLoginMissingFields(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/admin/login", map[string]string{"email": "admin@x.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and password are required", decodeBody(t, rec)["error"])
}

func TestAdminLoginNotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.JWTSecret = ""
	router := newTestRouter(t, cfg, "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "admin@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error", decodeBody(t, rec)["error"])
}

// ---------------------------------------------------------------------------
// Contact + access request (metaobject channel)
// ---------------------------------------------------------------------------

func validContact() map[string]string {
	return map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Hello",
		"message": "A question",
	}
}

func TestContactSubmit(t *testing.T) {
	var captured map[string]interface{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"metaobject":{"id":42}}`))
	}))
	defer upstream.Close()

	router := newTestRouter(t, testConfig(), upstream.URL, "")
	rec := doJSON(t, router, http.MethodPost, "/api/contact", validContact())

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Contact form submitted successfully", body["message"])
	assert.Equal(t, float64(42), body["id"])

	meta := captured["metaobject"].(map[string]interface{})
	assert.Equal(t, "contact_submission", meta["type"])
}

func TestContactSubmitValidation(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	payload := validContact()
	delete(payload, "name")
	rec := doJSON(t, router, http.MethodPost, "/api/contact", payload)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: name", decodeBody(t, rec)["error"])
}

func TestContactSubmitMisconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Shopify = config.ShopifyConfig{}
	router := newTestRouter(t, cfg, "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/contact", validContact())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error", decodeBody(t, rec)["error"])
}

func TestContactSubmitUpstreamTypeError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":{"metaobject":["type not found"]}}`))
	}))
	defer upstream.Close()

	router := newTestRouter(t, testConfig(), upstream.URL, "")
	rec := doJSON(t, router, http.MethodPost, "/api/contact", validContact())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Metaobject type not configured")
	assert.Contains(t, body["setupUrl"], "https://admin.shopify.com/store/test-store/settings/custom_data")
	assert.NotNil(t, body["details"])
}

func TestAccessRequestServerStampsSubmittedAt(t *testing.T) {
	var captured map[string]interface{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"metaobject":{"id":7}}`))
	}))
	defer upstream.Close()

	router := newTestRouter(t, testConfig(), upstream.URL, "")
	rec := doJSON(t, router, http.MethodPost, "/api/access-request", map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"company":   "Acme Vending",
		// Client-supplied timestamp must be ignored
		"submittedAt": "1999-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Access request submitted successfully", decodeBody(t, rec)["message"])

	meta := captured["metaobject"].(map[string]interface{})
	assert.Equal(t, "access_request", meta["type"])

	fields := meta["fields"].([]interface{})
	values := map[string]string{}
	for _, f := range fields {
		pair := f.(map[string]interface{})
		values[pair["key"].(string)] = pair["value"].(string)
	}
	assert.Equal(t, "2026-03-14T12:30:00Z", values["submitted_at"])
	assert.Equal(t, "pending", values["status"])
}

func TestAccessRequestValidation(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/access-request", map[string]string{
		"firstName": "Jane",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: lastName", decodeBody(t, rec)["error"])
}

// ---------------------------------------------------------------------------
// Support ticket (Zendesk channel)
// ---------------------------------------------------------------------------

func validTicket() map[string]interface{} {
	return map[string]interface{}{
		"subject":        "Machine down",
		"description":    "The grinder stopped working",
		"priority":       "medium",
		"requesterEmail": "ops@example.com",
	}
}

func TestSupportTicket(t *testing.T) {
	var captured map[string]interface{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/uploads.json":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"upload":{"token":"up-tok"}}`))
		case "/api/v2/tickets.json":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"ticket":{"id":99}}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer upstream.Close()

	payload := validTicket()
	payload["attachment"] = map[string]string{
		"filename":    "photo.jpg",
		"content":     "aGVsbG8=",
		"contentType": "image/jpeg",
	}

	router := newTestRouter(t, testConfig(), "", upstream.URL)
	rec := doJSON(t, router, http.MethodPost, "/api/support/ticket", payload)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(99), body["ticketId"])
	assert.Equal(t, "https://testco.zendesk.com/agent/tickets/99", body["ticketUrl"])

	ticket := captured["ticket"].(map[string]interface{})
	assert.Equal(t, "normal", ticket["priority"])
	comment := ticket["comment"].(map[string]interface{})
	assert.Equal(t, []interface{}{"up-tok"}, comment["uploads"])
}

func TestSupportTicketAttachmentFailureDegradesGracefully(t *testing.T) {
	var captured map[string]interface{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/uploads.json":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/v2/tickets.json":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"ticket":{"id":100}}`))
		}
	}))
	defer upstream.Close()

	payload := validTicket()
	payload["attachment"] = map[string]string{
		"filename":    "photo.jpg",
		"content":     "aGVsbG8=",
		"contentType": "image/jpeg",
	}

	router := newTestRouter(t, testConfig(), "", upstream.URL)
	rec := doJSON(t, router, http.MethodPost, "/api/support/ticket", payload)

	// Upload failure is swallowed; the ticket is still created
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(100), decodeBody(t, rec)["ticketId"])

	comment := captured["ticket"].(map[string]interface{})["comment"].(map[string]interface{})
	_, hasUploads := comment["uploads"]
	assert.False(t, hasUploads, "ticket must not reference the failed upload")
}

func TestSupportTicketCreateFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"RecordInvalid"}`))
	}))
	defer upstream.Close()

	router := newTestRouter(t, testConfig(), "", upstream.URL)
	rec := doJSON(t, router, http.MethodPost, "/api/support/ticket", validTicket())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Zendesk ticket creation failed", body["error"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
	assert.Contains(t, body["details"], "RecordInvalid")
}

func TestSupportTicketValidation(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/support/ticket", map[string]string{"subject": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing required field: description", body["error"])
}

// ---------------------------------------------------------------------------
// Support email channel
// ---------------------------------------------------------------------------

func TestSupportEmailValidation(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/support/email", map[string]string{
		"subject": "x", "description": "y",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: requesterEmail", decodeBody(t, rec)["error"])
}

func TestSupportEmailMisconfigured(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/support/email", validTicket())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error", decodeBody(t, rec)["error"])
}

// ---------------------------------------------------------------------------
// Combined Shopify admin endpoint
// ---------------------------------------------------------------------------

func TestShopifyAdminGraphQLPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{"message":"syntax error"}]}`))
	}))
	defer upstream.Close()

	router := newTestRouter(t, testConfig(), upstream.URL, "")
	rec := doJSON(t, router, http.MethodPost, "/api/shopify-admin", map[string]interface{}{
		"query":     "{ shop { name } }",
		"variables": map[string]interface{}{},
	})

	// The upstream status is mirrored, never coerced to 200/500
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "syntax error")
}

func TestShopifyAdminFallsBackToContactFlow(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	// No query/variables pair: treated as a contact submission and
	// validated as one.
	rec := doJSON(t, router, http.MethodPost, "/api/shopify-admin", map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: name", decodeBody(t, rec)["error"])
}

func TestShopifyAdminQueryWithoutVariablesIsNotPassthrough(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	rec := doJSON(t, router, http.MethodPost, "/api/shopify-admin", map[string]string{"query": "{ shop { name } }"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: name", decodeBody(t, rec)["error"])
}

func TestShopifyAdminContactSubmit(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/api/2024-01/metaobjects.json", r.URL.Path)
		w.Write([]byte(`{"metaobject":{"id":55}}`))
	}))
	defer upstream.Close()

	router := newTestRouter(t, testConfig(), upstream.URL, "")
	rec := doJSON(t, router, http.MethodPost, "/api/shopify-admin", validContact())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(55), decodeBody(t, rec)["id"])
}

// ---------------------------------------------------------------------------
// Method gate + CORS
// ---------------------------------------------------------------------------

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://storefront.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSHeadersOnPost(t *testing.T) {
	router := newTestRouter(t, testConfig(), "", "")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{}`))
	req.Header.Set("Origin", "https://storefront.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
