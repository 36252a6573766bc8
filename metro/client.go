// Package metro is a client for the Metro Bilbao real-time API.
package metro

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bilbometro/api/models"
)

// Client talks to the Metro Bilbao real-time API. Safe for concurrent
// use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given base URL, e.g.
// "https://api.metrobilbao.eus/metro/real-time".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// GetRouteInfo fetches real-time route information between two stations.
// Station codes must already be normalized (upper case, trimmed).
func (c *Client) GetRouteInfo(ctx context.Context, origin, destination string) (*models.RouteData, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, origin, destination)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result models.RouteData
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}
