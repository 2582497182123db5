package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// sessionHeader carries the calculation session id across probe requests.
const sessionHeader = "uuid"

// HTTPClient wraps http.Client with a timeout and session propagation.
type HTTPClient struct {
	client  *http.Client
	session string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request, sending the captured session id when one is
// held and capturing any session id echoed on the response.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.session != "" {
		req.Header.Set(sessionHeader, c.session)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if id := resp.Header.Get(sessionHeader); id != "" {
		c.session = id
	}
	return resp, nil
}

// getJSON performs a GET and decodes the JSON body into v.
// The response status code is returned alongside any decode error.
func (c *HTTPClient) getJSON(ctx context.Context, rawURL string, v interface{}) (int, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if v != nil {
		if err := json.Unmarshal(body, v); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// buildingURL assembles a /buildings/{building}/... path with escaping.
func buildingURL(base, building string, parts ...string) string {
	u := base + "/buildings/" + url.PathEscape(building)
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}
