package work

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
)

// DefaultCustomerID is the customer segment used in v2 library paths.
const DefaultCustomerID = "1"

// Config contains configuration for the Work REST client.
type Config struct {
	// BaseURL is the scheme and host of the Work server
	// Example: "https://work.example.com"
	BaseURL string

	// TLSVerify controls TLS certificate verification.
	// Nil means verify. Set to false only for servers with self-signed certs.
	TLSVerify *bool

	// Timeout for a single HTTP request. Zero means no timeout.
	Timeout time.Duration

	// MaxRetries for transport failures and 5xx responses.
	// Default: 0 (fail on first error). Login is never retried.
	MaxRetries int

	// RetryDelay is the initial backoff interval when MaxRetries > 0.
	// Default: 500 milliseconds
	RetryDelay time.Duration

	// CustomerID is the customer segment of /api/v2 paths.
	// Default: "1"
	CustomerID string

	// Logger receives request-level debug logs. Default: null logger.
	Logger hclog.Logger
}

// BaseURLFromServer turns a bare server name into an https base URL.
// Values that already carry a scheme are kept as they are.
func BaseURLFromServer(server string) string {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if strings.Contains(server, "://") {
		return server
	}
	return "https://" + server
}

// InsecureSkipVerify reports whether TLS verification was explicitly disabled.
func (c *Config) InsecureSkipVerify() bool {
	return c.TLSVerify != nil && !*c.TLSVerify
}

func (c *Config) applyDefaults() {
	if c.RetryDelay == 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
	if c.CustomerID == "" {
		c.CustomerID = DefaultCustomerID
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(validateBaseURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
	)
}

func validateBaseURL(value interface{}) error {
	s, _ := value.(string)
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// NewHTTPClient creates the HTTP client used for every call.
func (c *Config) NewHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if c.InsecureSkipVerify() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // opt-in via -insecure / tls_verify = false
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
