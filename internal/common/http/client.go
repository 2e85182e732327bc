// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

// Doer is the subset of *http.Client the platform clients need.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient *http.Client
}

// NewClient returns a client whose requests give up after timeout.
// A zero timeout means no limit.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
