// Package remote provides an HTTP client for the contact message service.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/contactdesk/contactdesk/internal/textutil"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// Client talks to the message service's admin endpoints.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Compile-time check that Client can back a dashboard.
var _ dashboard.MessageService = (*Client)(nil)

// Config holds configuration for creating a client.
type Config struct {
	URL           string
	AllowInsecure bool
	// Timeout bounds each request. Zero means no timeout.
	Timeout   time.Duration
	UserAgent string
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("URL scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return nil, fmt.Errorf("remote URL must include a host (e.g., https://api.example.com)")
	}

	// Plain HTTP is fine for a local backend, anything else needs opting in.
	if parsedURL.Scheme == "http" && !cfg.AllowInsecure && !isLoopback(parsedURL.Hostname()) {
		return nil, fmt.Errorf("HTTPS required for remote connections\n\n" +
			"Options:\n" +
			"  1. Use HTTPS: [remote] url = \"https://api.example.com\"\n" +
			"  2. For trusted networks: add 'allow_insecure = true' to [remote] in config.toml")
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// BaseURL returns the service origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// APIError is a failure reported by the service, either through
// success=false or a non-2xx status.
type APIError struct {
	StatusCode int
	// Message is the server-supplied reason, possibly empty.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (%d)", e.StatusCode)
}

// Reason returns the server-supplied reason text.
func (e *APIError) Reason() string {
	return textutil.Clean(e.Message)
}

// messageJSON matches the service's message format. Older deployments
// expose the identifier as "_id", newer ones as "id".
type messageJSON struct {
	ID        string `json:"_id"`
	AltID     string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// listResponse matches GET /admin/messages.
type listResponse struct {
	Success  bool          `json:"success"`
	Messages []messageJSON `json:"messages"`
	Error    string        `json:"error"`
}

// deleteResponse matches DELETE /admin/messages/{id}.
type deleteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ParseTime parses an ISO-8601 timestamp, returning the zero time when it
// cannot be parsed.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toMessage converts the wire format to a dashboard message. Text fields
// come from a public form and are cleaned for terminal display.
func toMessage(m messageJSON) dashboard.Message {
	id := m.ID
	if id == "" {
		id = m.AltID
	}
	return dashboard.Message{
		ID:        id,
		Name:      textutil.Clean(m.Name),
		Email:     textutil.Clean(m.Email),
		Message:   textutil.Clean(m.Message),
		CreatedAt: ParseTime(m.CreatedAt),
	}
}

// doRequest performs an HTTP request and decodes the JSON envelope into out.
// It returns the response status code.
func (c *Client) doRequest(ctx context.Context, method, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, &APIError{StatusCode: resp.StatusCode}
		}
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// ListMessages fetches all messages in the order the service returns them.
func (c *Client) ListMessages(ctx context.Context) ([]dashboard.Message, error) {
	var lr listResponse
	status, err := c.doRequest(ctx, http.MethodGet, "/admin/messages", &lr)
	if err != nil {
		return nil, err
	}
	if !lr.Success {
		return nil, &APIError{StatusCode: status, Message: lr.Error}
	}

	messages := make([]dashboard.Message, len(lr.Messages))
	for i, m := range lr.Messages {
		messages[i] = toMessage(m)
	}
	return messages, nil
}

// DeleteMessage deletes the message with the given id.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("message id is required")
	}
	var dr deleteResponse
	status, err := c.doRequest(ctx, http.MethodDelete, "/admin/messages/"+url.PathEscape(id), &dr)
	if err != nil {
		return err
	}
	if !dr.Success {
		return &APIError{StatusCode: status, Message: dr.Error}
	}
	return nil
}
