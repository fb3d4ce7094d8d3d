package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxFetchBytes caps the size of a fetched template or logo.
const MaxFetchBytes = 32 << 20

// Fetcher downloads raw bytes from a URL.
type Fetcher interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher is a Fetcher backed by net/http.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// GetBytes returns the body of a GET request. Any non-200 status is an error.
func (f *HTTPFetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxFetchBytes {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, MaxFetchBytes)
	}
	return body, nil
}

// NormalizeURL turns a protocol-relative URL ("//host/x") into https.
func NormalizeURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
