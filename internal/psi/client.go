package psi

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/proxy"

	"github.com/nao1215/vitalscan/internal/model"
)

const (
	// DefaultEndpoint is the public runPagespeed endpoint.
	DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

	// DefaultTimeout bounds a single API call. Lighthouse runs server side and
	// regularly takes 20-40 seconds.
	DefaultTimeout = 90 * time.Second

	// DefaultUserAgent identifies vitalscan in outbound requests.
	DefaultUserAgent = "vitalscan/1.0 (+https://github.com/nao1215/vitalscan)"

	// maxBodySize caps how much of a response is read. Full Lighthouse
	// reports with screenshots are a few MB.
	maxBodySize = 32 << 20

	// maxErrorBody is how much of a non-200 body is kept in StatusError.
	maxErrorBody = 512

	// category is the only Lighthouse category requested.
	category = "performance"
)

// Client calls the runPagespeed endpoint.
// It is safe for concurrent use; nothing is mutated after New returns.
type Client struct {
	endpoint   string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	proxyAddr  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithAPIKey sets the API key. An empty key selects the anonymous tier.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithProxy routes API calls through a SOCKS5 proxy at "host:port".
func WithProxy(addr string) Option {
	return func(c *Client) {
		c.proxyAddr = addr
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
// Timeout, proxy and tracing options are then ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client. It fails only when the proxy address is invalid.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := c.newHTTPClient()
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}
	return c, nil
}

// HasAPIKey reports whether calls are authenticated.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// newHTTPClient builds the HTTP client, optionally dialing through SOCKS5,
// and instruments it with OpenTelemetry.
func (c *Client) newHTTPClient() (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if c.proxyAddr != "" {
		if !isValidProxyAddress(c.proxyAddr) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", c.proxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
		Timeout:   c.timeout,
	}, nil
}

// isValidProxyAddress checks for a "host:port" address with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// RequestURL builds the GET URL for one (target, device) pair.
func (c *Client) RequestURL(target string, device model.Device) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}

	q := u.Query()
	q.Set("url", target)
	q.Set("strategy", device.String())
	q.Set("category", category)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Run performs one runPagespeed call and returns the raw body.
//
// A non-200 status yields *StatusError. Any other failure (request build,
// dial, timeout, body read) is returned wrapped as-is.
func (c *Client) Run(ctx context.Context, target string, device model.Device) ([]byte, error) {
	if strings.TrimSpace(target) == "" {
		return nil, ErrEmptyURL
	}

	reqURL, err := c.RequestURL(target, device)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // Best effort diagnostics
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// redactKey removes the API key from errors that echo the request URL,
// such as *url.Error.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	if ue, ok := err.(*url.Error); ok { //nolint:errorlint // Only the top-level error carries the URL
		return &url.Error{
			Op:  ue.Op,
			URL: strings.ReplaceAll(ue.URL, url.QueryEscape(key), "***"),
			Err: ue.Err,
		}
	}
	return err
}
