package kimicheck

import (
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Request deadlines. Listing models is cheap, generating text is not.
const (
	ListTimeout = 10 * time.Second
	ChatTimeout = 30 * time.Second
)

// ClientConfig configures the API client used by the checks.
type ClientConfig struct {
	// BaseURL is the base URL of the API, DefaultBaseURL if empty.
	BaseURL string

	// HTTPClient is the HTTP client to use for requests.
	//
	// If nil, then http.DefaultClient is used.
	HTTPClient *http.Client
}

// ClientOption is a function that configures a ClientConfig.
type ClientOption func(*ClientConfig)

// WithHTTPClient is a ClientOption that sets the HTTP client to use for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *ClientConfig) {
		if c == nil {
			c = http.DefaultClient
		}
		cfg.HTTPClient = c
	}
}

// WithBaseURL is a ClientOption that points the client at another
// OpenAI-compatible endpoint.
func WithBaseURL(u string) ClientOption {
	return func(cfg *ClientConfig) {
		if u != "" {
			cfg.BaseURL = u
		}
	}
}

// NewClient returns an API client authenticated with the given credential.
//
// The client never retries: every check is a single attempt. OpenAI
// organization and project headers picked up from the environment are
// stripped, they mean nothing to another provider.
//
// # Example
//
//	c := kimicheck.NewClient(cred, kimicheck.WithBaseURL(kimicheck.DefaultBaseURL))
func NewClient(cred Credential, opts ...ClientOption) openai.Client {
	cfg := &ClientConfig{
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cred.Value()),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(0),
		option.WithHeaderDel("OpenAI-Organization"),
		option.WithHeaderDel("OpenAI-Project"),
	)
}
