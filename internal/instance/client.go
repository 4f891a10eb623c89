// pattern: Imperative Shell
package instance

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"logfake/internal/logfake"
	"logfake/internal/logging"
	"logfake/internal/web"
)

// Client is a thin HTTP client for a running logfake server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Entries fetches the entries whose channel matches prefix.
func (c *Client) Entries(prefix string) ([]logging.LogEntry, error) {
	q := url.Values{}
	if prefix != "" {
		q.Set("channel", prefix)
	}
	body, err := c.get("/api/entries", q)
	if err != nil {
		return nil, err
	}
	var entries []logging.LogEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	return entries, nil
}

// Check runs check against the server's log file.
func (c *Client) Check(check logfake.Check) (web.CheckResponse, error) {
	var resp web.CheckResponse
	body, err := c.get("/api/check", checkQuery(check))
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("failed to decode check response: %w", err)
	}
	return resp, nil
}

func checkQuery(check logfake.Check) url.Values {
	q := url.Values{}
	if check.Channel != "" {
		q.Set("channel", check.Channel)
	}
	if check.Level != "" {
		q.Set("level", string(check.Level))
	}
	if check.Message != "" {
		q.Set("message", check.Message)
	}
	if check.Times >= 0 {
		q.Set("times", strconv.Itoa(check.Times))
	}
	if check.Absent {
		q.Set("absent", "true")
	}
	if check.Nothing {
		q.Set("nothing", "true")
	}
	return q
}

// get performs a GET request and returns the response body.
func (c *Client) get(path string, q url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	resp, err := c.httpClient.Get(target)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to logfake server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logfake server returned status %d: %s", resp.StatusCode, extractErrorMessage(body))
	}
	return body, nil
}

// extractErrorMessage returns the "error" field of a JSON body, or the raw body.
func extractErrorMessage(body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	return string(body)
}
