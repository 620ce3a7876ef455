// Package zendesk is a minimal Zendesk API client covering attachment
// uploads and ticket creation.
package zendesk

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/highsierra/storefront-gateway/internal/config"
)

// HTTPDoer is the interface for executing HTTP requests. *http.Client
// satisfies it; tests substitute their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the Zendesk API client
type Client struct {
	subdomain  string
	authToken  string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Zendesk API client. Zendesk uses Basic auth with
// "<email>/token" as the username and the API token as the password.
func NewClient(cfg config.ZendeskConfig) *Client {
	credentials := fmt.Sprintf("%s/token:%s", cfg.Email, cfg.APIToken)
	return &Client{
		subdomain:  cfg.GetSubdomain(),
		authToken:  base64.StdEncoding.EncodeToString([]byte(credentials)),
		baseURL:    fmt.Sprintf("https://%s.zendesk.com", cfg.GetSubdomain()),
		httpClient: &http.Client{Timeout: cfg.Timeout()},
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

// APIError is a non-success outcome of a Zendesk API call.
type APIError struct {
	StatusCode int
	Details    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zendesk: API error (status %d): %s", e.StatusCode, e.Details)
}

// UploadAttachment pushes raw file bytes to the uploads endpoint and returns
// the upload token that associates the file with a later ticket comment.
func (c *Client) UploadAttachment(ctx context.Context, filename, contentType string, content []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/api/v2/uploads.json?filename=%s", c.baseURL, url.QueryEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.authToken)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", strconv.Itoa(len(content)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Details: string(body)}
	}

	var result uploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing upload response: %w", err)
	}
	if result.Upload.Token == "" {
		return "", fmt.Errorf("upload response missing token")
	}
	return result.Upload.Token, nil
}

// CreateTicket files a ticket. A 2xx with an empty body is still success;
// Zendesk does that, and the result then carries a note instead of an ID.
func (c *Client) CreateTicket(ctx context.Context, ticket Ticket) (*TicketResult, error) {
	payload, err := json.Marshal(createRequest{Ticket: ticket})
	if err != nil {
		return nil, fmt.Errorf("marshaling ticket: %w", err)
	}

	endpoint := c.baseURL + "/api/v2/tickets.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		details := string(body)
		if details == "" {
			details = "Empty response"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Details: details}
	}

	if len(body) == 0 {
		return &TicketResult{Note: "Zendesk returned empty body"}, nil
	}

	var result createResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing ticket response: %w", err)
	}

	return &TicketResult{
		ID:  result.Ticket.ID,
		URL: fmt.Sprintf("https://%s.zendesk.com/agent/tickets/%d", c.subdomain, result.Ticket.ID),
	}, nil
}
