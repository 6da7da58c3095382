// Package resilience provides the HTTP client used by concrete provider
// adapters: per-source circuit breaking, bounded retries with exponential
// backoff, and JSON and XML convenience wrappers.
package resilience

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Resilience errors.
var (
	// ErrCircuitOpen is returned without touching the network while the
	// source's circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrUnexpectedStatus wraps non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// ClientConfig holds configuration for one source's HTTP client.
type ClientConfig struct {
	// Name identifies the source for circuit breaker state.
	Name string

	// Timeout bounds each individual HTTP call. Default: 10s.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts on transient failures
	// (network errors, 5xx). Default: 2.
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Default: 2s.
	MaxInterval time.Duration

	// BreakerTimeout is how long the breaker stays open before probing
	// the source again. Default: 60s.
	BreakerTimeout time.Duration
}

// Client wraps http.Client with a circuit breaker and retry policy.
// One Client is built per concrete source so a broken source trips only
// its own breaker.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient HTTP client for one source.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && ratio >= 0.5
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
	}
}

// Do executes the request through the breaker, retrying transient
// failures. 5xx responses count as breaker failures; 4xx do not, since
// they signal a request problem the source cannot fix.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries bounded by WithMaxRetries

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var result *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			attempt := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				attempt.Body = body
			}
			r, err := c.httpClient.Do(attempt)
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				drain(r)
				return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, r.StatusCode)
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			return err
		}
		result = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

// GetJSON fetches url and decodes the body into v. Header values are added
// to the request. Non-2xx responses surface as ErrUnexpectedStatus.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// GetXML fetches url and decodes the XML body into v. Used by sources
// that publish WFS feeds instead of JSON.
func (c *Client) GetXML(ctx context.Context, url string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// PostJSON sends body as JSON to url and decodes the response into v.
// Used by the GraphQL transit source.
func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, body, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// State returns the breaker's current state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func drain(r *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, 4096))
	_ = r.Body.Close()
}
