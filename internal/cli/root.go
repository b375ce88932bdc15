package cli

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/btw-claude/confluence-skills/internal/config"
	"github.com/btw-claude/confluence-skills/internal/confluence"
	"github.com/btw-claude/confluence-skills/internal/httpclient"
	"github.com/btw-claude/confluence-skills/internal/output"
)

// Option customizes the environment the commands run in. Tests use these to
// swap out the filesystem, the process environment and the HTTP transport.
type Option func(*app)

func WithFs(fs afero.Fs) Option {
	return func(a *app) { a.fs = fs }
}

func WithDirs(workDir, homeDir string) Option {
	return func(a *app) {
		a.workDir = workDir
		a.homeDir = homeDir
	}
}

func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(a *app) { a.lookupEnv = fn }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(a *app) { a.httpClient = hc }
}

type app struct {
	verbose bool

	fs         afero.Fs
	workDir    string
	homeDir    string
	lookupEnv  func(string) (string, bool)
	httpClient *http.Client
}

func NewRootCmd(version string, opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "confluence",
		Short: "JSON-in/JSON-out commands for Confluence Cloud",
		Long: `Each command reads one JSON object on stdin and writes the Confluence API
response as JSON on stdout. Failures print a single "Error: <message>" line on
stderr and exit 1.

Credentials are read from the first env file found:
- ./.claude/env
- ~/.claude/env
falling back to the process environment:
- CONFLUENCE_URL (required, e.g. https://company.atlassian.net/wiki)
- CONFLUENCE_PAT, or CONFLUENCE_EMAIL and CONFLUENCE_API_TOKEN
- CONFLUENCE_TIMEOUT (seconds, default 10)

Examples:
  echo '{"space_id": "123456"}' | confluence spaces get
  echo '{"query": "type=page AND space=DEV"}' | confluence search
  echo '{}' | confluence config verify`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log requests, resolved configuration and pagination cursors to stderr")

	for _, cmd := range newOperationCmds(a) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// Execute runs the CLI and prints the error line. The caller owns the exit
// code.
func Execute(version string) error {
	return runRoot(NewRootCmd(version))
}

func runRoot(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		output.WriteError(cmd.ErrOrStderr(), err.Error())
	}
	return err
}

func (a *app) logger(cmd *cobra.Command) hclog.Logger {
	return output.NewLogger(cmd.ErrOrStderr(), a.verbose)
}

func (a *app) resolveConfig(logger hclog.Logger) (*config.Config, error) {
	opts := []config.Option{config.WithLogger(logger)}
	if a.fs != nil {
		opts = append(opts, config.WithFs(a.fs))
	}
	if a.workDir != "" {
		opts = append(opts, config.WithWorkDir(a.workDir))
	}
	if a.homeDir != "" {
		opts = append(opts, config.WithHomeDir(a.homeDir))
	}
	if a.lookupEnv != nil {
		opts = append(opts, config.WithLookupEnv(a.lookupEnv))
	}
	return config.Resolve(opts...)
}

func (a *app) connect(logger hclog.Logger) (*confluence.Client, error) {
	cfg, err := a.resolveConfig(logger)
	if err != nil {
		return nil, err
	}

	opts := []httpclient.Option{httpclient.WithLogger(logger.Named("http"))}
	if a.httpClient != nil {
		custom := *a.httpClient
		custom.Timeout = cfg.Timeout
		opts = append(opts, httpclient.WithHTTPClient(&custom))
	}
	hc, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return confluence.NewClient(hc, cfg)
}
