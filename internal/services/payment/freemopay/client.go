package freemopay

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// API endpoints
	tokenEndpoint   = "/app/token"
	paymentEndpoint = "/payment"
	statusEndpoint  = "/payment/%s"

	// DefaultDescription is sent when a payment request carries no description
	DefaultDescription = "Your payment has been processed"

	requestTimeout = 30 * time.Second
	maxRedirects   = 10
)

// Config holds the credentials needed to talk to the FreemoPay API
type Config struct {
	User     string
	Password string
	BaseURL  string

	// AccessToken is an optional pre-generated bearer token. When empty the
	// client fetches one from the token endpoint on first use.
	AccessToken string
}

// Client represents the FreemoPay API client
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
}

var _ Gateway = (*Client)(nil)

// Option customises a Client at construction time
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a new FreemoPay API client. User, password and base URL are
// required; the base URL loses any trailing slash.
func New(cfg Config, opts ...Option) (*Client, error) {
	switch {
	case cfg.User == "":
		return nil, &ConfigurationError{Field: "user"}
	case cfg.Password == "":
		return nil, &ConfigurationError{Field: "password"}
	case cfg.BaseURL == "":
		return nil, &ConfigurationError{Field: "base url"}
	}

	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		user:        cfg.User,
		password:    cfg.Password,
		accessToken: cfg.AccessToken,
		httpClient:  newHTTPClient(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// newHTTPClient builds the fixed transport policy: HTTP/1.1 only, gzip
// decoded transparently, at most ten redirects and a 30 second deadline.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
		// A non-nil empty map disables the HTTP/2 upgrade over TLS.
		TLSNextProto:       make(map[string]func(string, *tls.Conn) http.RoundTripper),
		DisableCompression: false,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// EnsureToken returns the cached bearer token, fetching one from the token
// endpoint when none is held yet. The token is never refreshed.
func (c *Client) EnsureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" {
		return c.accessToken, nil
	}

	form := encodeForm(
		"user", c.user,
		"password", c.password,
	)

	data, err := c.do(ctx, http.MethodPost, tokenEndpoint, "", form)
	if err != nil {
		return "", err
	}

	serverErr := stringField(data, "error")
	token, ok := data["token"].(string)
	if !ok || token == "" || serverErr != "" {
		c.logger.Warn("freemopay token rejected", zap.String("server_error", serverErr))
		return "", &AuthenticationError{Message: serverErr}
	}

	c.accessToken = token
	c.logger.Debug("freemopay token acquired")

	return token, nil
}

// PaymentRequest represents a request to collect money from a mobile payer
type PaymentRequest struct {
	Payer       string
	ExternalID  string
	Amount      int64
	Description string
}

// PaymentResponse is the payment body returned by FreemoPay, kept as-is
type PaymentResponse map[string]any

// StatusResponse is the status body returned by FreemoPay, kept as-is
type StatusResponse map[string]any

// Pay initiates a payment from the payer's mobile money account
func (c *Client) Pay(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	token, err := c.EnsureToken(ctx)
	if err != nil {
		return nil, &PaymentError{Err: err}
	}

	description := req.Description
	if description == "" {
		description = DefaultDescription
	}

	form := encodeForm(
		"payer", req.Payer,
		"external_id", req.ExternalID,
		"amount", strconv.FormatInt(req.Amount, 10),
		"description", description,
	)

	resp, err := c.do(ctx, http.MethodPost, paymentEndpoint, token, form)
	if err != nil {
		return nil, &PaymentError{Err: err}
	}

	c.logger.Info("freemopay payment submitted",
		zap.String("external_id", req.ExternalID),
		zap.Int64("amount", req.Amount))

	return PaymentResponse(resp), nil
}

// CheckStatus gets the status of a payment by its provider reference
func (c *Client) CheckStatus(ctx context.Context, reference string) (StatusResponse, error) {
	if reference == "" {
		return nil, &StatusCheckError{Err: ErrMissingReference}
	}

	token, err := c.EnsureToken(ctx)
	if err != nil {
		return nil, &StatusCheckError{Reference: reference, Err: err}
	}

	endpoint := fmt.Sprintf(statusEndpoint, reference)
	resp, err := c.do(ctx, http.MethodGet, endpoint, token, "")
	if err != nil {
		return nil, &StatusCheckError{Reference: reference, Err: err}
	}

	return StatusResponse(resp), nil
}

// do performs one request and decodes the JSON object body. There is
// no retry: the first failure is returned.
func (c *Client) do(ctx context.Context, method, endpoint, token, form string) (map[string]any, error) {
	var body io.Reader
	if form != "" {
		body = strings.NewReader(form)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if form != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("freemopay request", zap.String("method", method), zap.String("endpoint", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("freemopay request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("freemopay request rejected",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return decodeObject(raw)
}

// decodeObject accepts only a JSON object; arrays, scalars and null are
// rejected as well as malformed input.
func decodeObject(raw []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Body: string(raw), Err: err}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Body: string(raw), Err: errNotAnObject}
	}

	return obj, nil
}

// encodeForm form-encodes key/value pairs keeping their order, which
// url.Values.Encode does not.
func encodeForm(pairs ...string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pairs[i]))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pairs[i+1]))
	}
	return sb.String()
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
