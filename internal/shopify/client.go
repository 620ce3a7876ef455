// Package shopify is a minimal Shopify Admin API client covering the two
// calls the gateway makes: metaobject create and raw GraphQL passthrough.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/highsierra/storefront-gateway/internal/config"
)

// HTTPDoer is the interface for executing HTTP requests. *http.Client
// satisfies it; tests substitute their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the Shopify Admin API client
type Client struct {
	storeDomain    string
	accessToken    string
	restVersion    string
	graphqlVersion string
	baseURL        string
	httpClient     HTTPDoer
}

// NewClient creates a new Shopify Admin API client
func NewClient(cfg config.ShopifyConfig) *Client {
	return &Client{
		storeDomain:    cfg.StoreDomain,
		accessToken:    cfg.AccessToken,
		restVersion:    cfg.GetRESTVersion(),
		graphqlVersion: cfg.GetGraphQLVersion(),
		baseURL:        "https://" + cfg.StoreDomain,
		httpClient:     &http.Client{Timeout: cfg.Timeout()},
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// SetBaseURL overrides the API base URL (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// APIError is a non-success outcome of a Shopify Admin API call, carrying
// the mirrored status, a heuristic category, and the parsed error body for
// operator diagnosis.
type APIError struct {
	StatusCode int
	Category   ErrorCategory
	Details    interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify: API error (status %d, category %s)", e.StatusCode, e.Category)
}

// CreateMetaobject stores a metaobject via the Admin REST API. Non-2xx
// responses come back as *APIError; the error body is parsed tolerantly
// (an empty or non-JSON body falls back to a message synthesized from the
// HTTP status) and categorized by the classifier chain.
func (c *Client) CreateMetaobject(ctx context.Context, m Metaobject) (*MetaobjectResult, error) {
	payload, err := json.Marshal(createRequest{Metaobject: m})
	if err != nil {
		return nil, fmt.Errorf("marshaling metaobject: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/metaobjects.json", c.baseURL, c.restVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &APIError{Category: CategoryTimeout, Details: err.Error()}
		}
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.buildAPIError(resp.StatusCode, resp.Status, body)
	}

	var result createResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing metaobject response: %w", err)
	}
	return &MetaobjectResult{ID: result.Metaobject.ID}, nil
}

// buildAPIError parses an error body and classifies it. Classification only
// runs when the body carries an "errors" key; anything else is generic.
func (c *Client) buildAPIError(statusCode int, status string, body []byte) *APIError {
	var parsed map[string]interface{}
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil {
		return &APIError{
			StatusCode: statusCode,
			Category:   CategoryGeneric,
			Details:    map[string]string{"message": fmt.Sprintf("Shopify API error: %s", status)},
		}
	}

	category := CategoryGeneric
	if errs, ok := parsed["errors"]; ok {
		if serialized, err := json.Marshal(errs); err == nil {
			category = classifyErrorBody(string(serialized))
		}
	}

	return &APIError{
		StatusCode: statusCode,
		Category:   category,
		Details:    parsed,
	}
}

// GraphQL forwards a raw query and variables to the Admin GraphQL API and
// relays the upstream status and body verbatim. This is the only call whose
// status is not normalized by the handlers.
func (c *Client) GraphQL(ctx context.Context, query string, variables interface{}) (int, []byte, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return 0, nil, fmt.Errorf("marshaling graphql request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.graphqlVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// SetupURL is the admin console page where metaobject definitions are
// managed; attached to type-not-configured errors as a remediation hint.
func (c *Client) SetupURL() string {
	return fmt.Sprintf("https://admin.shopify.com/store/%s/settings/custom_data", StoreHandle(c.storeDomain))
}

// StoreHandle extracts the admin-console store handle from a myshopify
// domain: "pizza-anytime-2.myshopify.com" → "pizza-anytime-2".
func StoreHandle(storeDomain string) string {
	return strings.TrimSuffix(storeDomain, ".myshopify.com")
}

// AdminMetaobjectsURL is the deep link into the store's access-request
// metaobject list, used as the admin login redirect target.
func AdminMetaobjectsURL(storeDomain string) string {
	return fmt.Sprintf("https://admin.shopify.com/store/%s/settings/custom_data/metaobjects/access_request", StoreHandle(storeDomain))
}

// StorefrontURL is the public storefront root, used as the store-owner
// login redirect target.
func StorefrontURL(storeDomain string) string {
	return "https://" + storeDomain
}

func isTimeout(err error) bool {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Timeout()
	}
	return false
}
