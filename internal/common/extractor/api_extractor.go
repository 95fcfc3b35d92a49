package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// APIExtractor fetches JSON documents from job board APIs
type APIExtractor struct {
	client  *http.Client
	config  Config
	limiter *HostLimiter
}

// NewAPIExtractor creates a new API-based extractor
func NewAPIExtractor(cfg Config) *APIExtractor {
	cfg = cfg.withDefaults()
	return &APIExtractor{
		client:  &http.Client{Timeout: cfg.Timeout},
		config:  cfg,
		limiter: NewHostLimiter(cfg.RequestDelay),
	}
}

// FetchJSON performs one GET and returns the body. Transport failures and
// non-2xx responses are reported as *TransportError.
func (e *APIExtractor) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	if err := e.limiter.WaitURL(ctx, url); err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("wait for rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}

	e.setHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.config.MaxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}

func (e *APIExtractor) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept", "application/json")
}
