package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/btw-claude/confluence-skills/internal/config"
	"github.com/btw-claude/confluence-skills/internal/errs"
	"github.com/btw-claude/confluence-skills/internal/httpclient"
)

// APIVersion selects the REST base path. Most operations use v2; a few
// (space deletion, CQL search, auth verification) only exist in v1.
type APIVersion int

const (
	APIv2 APIVersion = iota
	APIv1
)

func (v APIVersion) Prefix() string {
	if v == APIv1 {
		return "/rest/api"
	}
	return "/api/v2"
}

func (v APIVersion) String() string {
	if v == APIv1 {
		return "v1"
	}
	return "v2"
}

// Doer is the subset of httpclient.Client this package needs.
type Doer interface {
	Do(ctx context.Context, r httpclient.Request) (*httpclient.Response, error)
}

type Client struct {
	http Doer
	cfg  *config.Config
}

func NewClient(doer Doer, cfg *config.Config) (*Client, error) {
	if doer == nil {
		return nil, errors.New("http client is required")
	}
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	return &Client{http: doer, cfg: cfg}, nil
}

// Call issues one request against the given API version. path is relative
// to the API prefix and must start with "/".
func (c *Client) Call(ctx context.Context, version APIVersion, method, path string, query url.Values, body any) (*httpclient.Response, error) {
	return c.http.Do(ctx, httpclient.Request{
		Method: method,
		Path:   version.Prefix() + path,
		Query:  query,
		Body:   body,
	})
}

// Verification is the result of VerifyAuth.
type Verification struct {
	Authenticated bool            `json:"authenticated"`
	AuthMode      config.AuthMode `json:"auth_mode"`
	BaseURL       string          `json:"base_url"`
}

// VerifyAuth makes the cheapest authenticated call available
// (GET /rest/api/space?limit=1) and adds mode-specific guidance on failure.
func (c *Client) VerifyAuth(ctx context.Context) (*Verification, error) {
	_, err := c.Call(ctx, APIv1, http.MethodGet, "/space", url.Values{"limit": []string{"1"}}, nil)
	if err != nil {
		var apiErr *errs.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Kind {
			case errs.KindAuthentication:
				apiErr.Hint = c.authHint()
			case errs.KindPermission:
				apiErr.Hint = "credentials are valid but lack access to Confluence; contact your Confluence administrator"
			case errs.KindNetwork:
				apiErr.Hint = fmt.Sprintf("verify %s is correct and the server is reachable", config.EnvBaseURL)
			}
		}
		return nil, err
	}
	return &Verification{Authenticated: true, AuthMode: c.cfg.AuthMode, BaseURL: c.cfg.BaseURL}, nil
}

func (c *Client) authHint() string {
	if c.cfg.AuthMode == config.AuthModePAT {
		return fmt.Sprintf("%s is invalid or expired; generate a new token under Settings > Personal Access Tokens", config.EnvPAT)
	}
	return fmt.Sprintf("check that %s is your Atlassian account email and %s is a valid API token "+
		"(https://id.atlassian.com/manage-profile/security/api-tokens)", config.EnvEmail, config.EnvAPIToken)
}

// Links is the `_links` object of a list response.
type Links struct {
	Next string `json:"next,omitempty"`
	Base string `json:"base,omitempty"`
}

// ListEnvelope models only what the client inspects in a list response; the
// results themselves stay opaque.
type ListEnvelope struct {
	Results []json.RawMessage `json:"results"`
	Links   Links             `json:"_links"`
}

// Version is the optimistic-locking sub-object of versioned entities.
type Version struct {
	Number    int    `json:"number"`
	AuthorID  string `json:"authorId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	Message   string `json:"message,omitempty"`
}

// NextCursor extracts the cursor query parameter from `_links.next`. It
// reports false when there is no further page. The value is returned exactly
// as the server encoded it once query-unescaped; sending it back through
// url.Values reproduces the original wire form.
func NextCursor(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var envelope ListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", false
	}
	next := strings.TrimSpace(envelope.Links.Next)
	if next == "" {
		return "", false
	}

	parsed, err := url.Parse(next)
	if err != nil {
		return "", false
	}
	values, err := url.ParseQuery(parsed.RawQuery)
	if err != nil {
		return "", false
	}
	cursor := values.Get("cursor")
	if cursor == "" {
		return "", false
	}
	return cursor, true
}
