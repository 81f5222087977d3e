package work

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const (
	// HeaderAuthToken carries the bearer token on every authenticated call.
	HeaderAuthToken = "X-Auth-Token"

	// HeaderRequestID correlates client logs with server logs.
	HeaderRequestID = "X-Request-ID"
)

// Client issues requests against a single Work server.
type Client struct {
	config *Config
	client *http.Client
	logger hclog.Logger
}

// NewClient creates a new Work REST client.
func NewClient(cfg *Config) (*Client, error) {
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	return &Client{
		config: cfg,
		client: cfg.NewHTTPClient(),
		logger: cfg.Logger,
	}, nil
}

// BaseURL returns the server base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// request describes one logical API call.
type request struct {
	op     string
	method string
	path   string
	token  string
	body   interface{}

	// retry allows backoff when MaxRetries > 0.
	retry bool
}

// do executes the request and decodes a 2xx JSON body into result.
func (c *Client) do(ctx context.Context, r request, result interface{}) error {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request body: %w", r.op, err)
		}
	}

	if !r.retry || c.config.MaxRetries == 0 {
		return c.attempt(ctx, r, payload, result)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryDelay
	policy := backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(c.config.MaxRetries)), ctx)

	operation := func() error {
		err := c.attempt(ctx, r, payload, result)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("request failed, retrying",
			"op", r.op,
			"error", err,
			"wait", wait)
	}

	return backoff.RetryNotify(operation, policy, notify)
}

// attempt performs a single HTTP round trip.
func (c *Client) attempt(ctx context.Context, r request, payload []byte, result interface{}) error {
	endpoint := c.config.BaseURL + r.path

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", r.op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set(HeaderAuthToken, r.token)
	}

	c.logger.Debug("sending request",
		"op", r.op,
		"method", r.method,
		"url", endpoint,
		"request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: r.op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: r.op, URL: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("received response",
		"op", r.op,
		"status", resp.StatusCode,
		"request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{
			Op:         r.op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if result == nil {
		return nil
	}
	if err := decodeJSON(respBody, result); err != nil {
		return &ResponseShapeError{Op: r.op, Err: err}
	}

	return nil
}

// decodeJSON keeps numbers as json.Number so document numbers are not
// rendered in float notation.
func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
