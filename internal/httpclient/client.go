package httpclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/btw-claude/confluence-skills/internal/config"
	"github.com/btw-claude/confluence-skills/internal/errs"
)

const (
	userAgent = "confluence-skills/0.1"

	maxErrorBody = 500
)

// Option customizes the HTTP client wrapper.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     hclog.Logger
}

// Client wraps http.Client and injects Confluence authentication. It never
// retries: a failed call is returned to the caller as-is.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	logger     hclog.Logger
}

// Request describes one call relative to the configured base URL. Path must
// already include the API prefix (for example "/api/v2/pages").
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response carries the raw JSON body of a 2xx response. Body is nil when the
// server sent nothing (204, or an empty 202).
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// New constructs a Client from a resolved configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	o := options{
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: timeout}
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}

	authHeader, err := buildAuthHeader(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: o.httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: authHeader,
		logger:     o.logger,
	}, nil
}

// WithHTTPClient overrides the default http.Client used by the wrapper.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// BaseURL returns the configured site URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends the request and returns the raw body of a 2xx response. Non-2xx
// statuses become *errs.Error classified by status code; transport failures
// become network errors.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.logger.Debug("sending request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Network(fmt.Sprintf("reading response from %s", req.URL.Redacted()), err)
	}

	c.logger.Debug("received response", "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))

	if err := checkResponse(resp, body); err != nil {
		return nil, err
	}

	out := &Response{StatusCode: resp.StatusCode}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if !json.Valid(trimmed) {
			return nil, &errs.Error{
				Kind:       errs.KindAPI,
				StatusCode: resp.StatusCode,
				Message:    "response body is not valid JSON: " + truncate(string(trimmed)),
			}
		}
		out.Body = json.RawMessage(trimmed)
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	decorateRequest(req, c.authHeader)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func buildAuthHeader(cfg *config.Config) (string, error) {
	switch cfg.AuthMode {
	case config.AuthModePAT:
		return "Bearer " + cfg.Token, nil
	case config.AuthModeBasic:
		credentials := fmt.Sprintf("%s:%s", cfg.Email, cfg.APIToken)
		encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
		return "Basic " + encoded, nil
	default:
		return "", errs.Configuration(fmt.Sprintf("unsupported auth mode %q", cfg.AuthMode), "")
	}
}

func decorateRequest(req *http.Request, authHeader string) {
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("User-Agent", userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

func classifyTransportError(req *http.Request, err error) error {
	target := req.URL.Redacted()

	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Network(fmt.Sprintf("request to %s timed out", target), err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.Network(fmt.Sprintf("request to %s timed out", target), err)
	}
	if errors.Is(err, context.Canceled) {
		return errs.Network(fmt.Sprintf("request to %s was cancelled", target), err)
	}
	return errs.Network(fmt.Sprintf("request to %s failed", target), err)
}

func checkResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return errs.FromStatus(resp.StatusCode, upstreamMessage(body))
}

// errorBody covers both error shapes Confluence returns: v2 lists errors,
// v1 has a single message.
type errorBody struct {
	Errors []struct {
		Status int     `json:"status"`
		Code   string  `json:"code"`
		Title  string  `json:"title"`
		Detail *string `json:"detail"`
	} `json:"errors"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func upstreamMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var parsed errorBody
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		var parts []string
		for _, e := range parsed.Errors {
			msg := e.Title
			if e.Detail != nil && *e.Detail != "" {
				if msg != "" {
					msg += ": "
				}
				msg += *e.Detail
			}
			if msg == "" {
				msg = e.Code
			}
			if msg != "" {
				parts = append(parts, msg)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Reason != "" {
			return parsed.Reason
		}
	}
	return truncate(trimmed)
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
