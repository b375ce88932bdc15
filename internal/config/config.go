package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/btw-claude/confluence-skills/internal/errs"
)

const (
	EnvBaseURL  = "CONFLUENCE_URL"
	EnvPAT      = "CONFLUENCE_PAT"
	EnvEmail    = "CONFLUENCE_EMAIL"
	EnvAPIToken = "CONFLUENCE_API_TOKEN"
	EnvTimeout  = "CONFLUENCE_TIMEOUT"

	// DefaultTimeout bounds every request when CONFLUENCE_TIMEOUT is unset.
	DefaultTimeout = 10 * time.Second

	envFileName = "env"
	envFileDir  = ".claude"
	sourceEnv   = "environment"
)

var knownKeys = []string{EnvBaseURL, EnvPAT, EnvEmail, EnvAPIToken, EnvTimeout}

const setupHint = "set CONFLUENCE_URL plus either CONFLUENCE_PAT (personal access token) " +
	"or both CONFLUENCE_EMAIL and CONFLUENCE_API_TOKEN (basic auth) in .claude/env, ~/.claude/env or the environment"

type AuthMode string

const (
	AuthModePAT   AuthMode = "pat"
	AuthModeBasic AuthMode = "basic"
)

// Config is resolved once per process and never mutated afterwards.
type Config struct {
	BaseURL  string
	AuthMode AuthMode
	Token    string
	Email    string
	APIToken string
	Timeout  time.Duration
	// Source is the env file the values came from, or "environment".
	Source string
}

// Redacted is the printable form of a Config; secrets are masked.
type Redacted struct {
	BaseURL        string   `json:"base_url"`
	AuthMode       AuthMode `json:"auth_mode"`
	Email          string   `json:"email,omitempty"`
	Token          string   `json:"token,omitempty"`
	APIToken       string   `json:"api_token,omitempty"`
	TimeoutSeconds float64  `json:"timeout_seconds"`
	Source         string   `json:"source"`
}

func (c *Config) Redacted() Redacted {
	r := Redacted{
		BaseURL:        c.BaseURL,
		AuthMode:       c.AuthMode,
		TimeoutSeconds: c.Timeout.Seconds(),
		Source:         c.Source,
	}
	switch c.AuthMode {
	case AuthModePAT:
		r.Token = mask(c.Token)
	case AuthModeBasic:
		r.Email = c.Email
		r.APIToken = mask(c.APIToken)
	}
	return r
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

// Option customizes where Resolve looks for configuration.
type Option func(*options)

type options struct {
	fs        afero.Fs
	workDir   string
	homeDir   string
	lookupEnv func(string) (string, bool)
	logger    hclog.Logger
}

func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

func WithHomeDir(dir string) Option {
	return func(o *options) {
		o.homeDir = dir
	}
}

// WithLookupEnv replaces os.LookupEnv for the process environment fallback.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookupEnv = fn
	}
}

func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// EnvFilePaths lists the env files in lookup order: project first, then user.
func EnvFilePaths(workDir, homeDir string) []string {
	paths := []string{filepath.Join(workDir, envFileDir, envFileName)}
	if homeDir != "" {
		paths = append(paths, filepath.Join(homeDir, envFileDir, envFileName))
	}
	return paths
}

// Resolve loads the first env file found (or the process environment when
// there is none) and selects the authentication mode. PAT always wins over
// basic auth.
func Resolve(opts ...Option) (*Config, error) {
	o := options{
		fs:        afero.NewOsFs(),
		workDir:   ".",
		lookupEnv: os.LookupEnv,
	}
	if home, err := os.UserHomeDir(); err == nil {
		o.homeDir = home
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}

	values, source, err := loadValues(o)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL: strings.TrimRight(values[EnvBaseURL], "/"),
		Timeout: parseTimeout(values[EnvTimeout], o.logger),
		Source:  source,
	}
	if cfg.BaseURL == "" {
		return nil, errs.Configuration(fmt.Sprintf("missing required %s (read from %s)", EnvBaseURL, source), setupHint)
	}

	pat := values[EnvPAT]
	email, apiToken := values[EnvEmail], values[EnvAPIToken]
	switch {
	case pat != "":
		cfg.AuthMode = AuthModePAT
		cfg.Token = pat
	case email != "" && apiToken != "":
		cfg.AuthMode = AuthModeBasic
		cfg.Email = email
		cfg.APIToken = apiToken
	default:
		return nil, errs.Configuration(fmt.Sprintf("no authentication configured (read from %s)", source), setupHint)
	}

	o.logger.Debug("configuration resolved", "source", source, "base_url", cfg.BaseURL,
		"auth_mode", cfg.AuthMode, "timeout", cfg.Timeout)
	return cfg, nil
}

func loadValues(o options) (map[string]string, string, error) {
	for _, path := range EnvFilePaths(o.workDir, o.homeDir) {
		exists, err := afero.Exists(o.fs, path)
		if err != nil {
			return nil, "", errs.Configuration(fmt.Sprintf("failed to stat %s: %v", path, err), setupHint)
		}
		if !exists {
			continue
		}

		v := viper.New()
		v.SetFs(o.fs)
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errs.Configuration(fmt.Sprintf("failed to read %s: %v", path, err), setupHint)
		}

		values := make(map[string]string, len(knownKeys))
		for _, key := range knownKeys {
			values[key] = strings.TrimSpace(v.GetString(strings.ToLower(key)))
		}
		return values, path, nil
	}

	values := make(map[string]string, len(knownKeys))
	for _, key := range knownKeys {
		if value, ok := o.lookupEnv(key); ok {
			values[key] = strings.TrimSpace(value)
		}
	}
	return values, sourceEnv, nil
}

// maxTimeoutSeconds is the largest timeout a time.Duration can hold.
const maxTimeoutSeconds = math.MaxInt64 / float64(time.Second)

func parseTimeout(raw string, logger hclog.Logger) time.Duration {
	if raw == "" {
		return DefaultTimeout
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(seconds) || seconds <= 0 || seconds >= maxTimeoutSeconds {
		logger.Warn("invalid timeout, using default", "value", raw, "default", DefaultTimeout)
		return DefaultTimeout
	}
	return time.Duration(seconds * float64(time.Second))
}
