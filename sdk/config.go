package sdk

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ClientConfig contains the configuration for creating a new SDK client.
type ClientConfig struct {
	// BaseURL is the platform API base URL (e.g., "https://api.choreo.example.com").
	BaseURL string

	// Token is an optional static bearer token attached to every request.
	// Token acquisition and refresh are outside the SDK's responsibility.
	Token string

	// HTTPClient is the HTTP client to use for requests.
	// Optional: if nil, a default client with reasonable timeouts is created.
	HTTPClient *http.Client

	// RetryAttempts is the number of times to retry failed requests.
	// Default: 3
	RetryAttempts int

	// RetryWaitMin is the minimum wait time between retries.
	// Default: 1 second
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait time between retries.
	// Default: 30 seconds
	RetryWaitMax time.Duration

	// Timeout is the HTTP request timeout.
	// Default: 30 seconds
	Timeout time.Duration

	// PageLimit is the page size requested from list endpoints.
	// Default: 100
	PageLimit int
}

// Validate checks if the client configuration is valid and sets defaults.
func (c *ClientConfig) Validate() error {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	// Normalize: no trailing slash
	base = strings.TrimSuffix(base, "/")
	c.BaseURL = base

	// Validate URL format (must start with http:// or https://)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("%w: base URL must start with http:// or https://", ErrInvalidConfig)
	}

	// Set default retry attempts if not provided
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}

	// Set default retry wait times if not provided
	if c.RetryWaitMin == 0 {
		c.RetryWaitMin = 1 * time.Second
	}
	if c.RetryWaitMax == 0 {
		c.RetryWaitMax = 30 * time.Second
	}

	// Set default timeout if not provided
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	// Set default page size if not provided
	if c.PageLimit == 0 {
		c.PageLimit = 100
	}

	// Create default HTTP client if not provided
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return nil
}
