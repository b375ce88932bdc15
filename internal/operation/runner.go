package operation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"

	"github.com/btw-claude/confluence-skills/internal/confluence"
	"github.com/btw-claude/confluence-skills/internal/errs"
	"github.com/btw-claude/confluence-skills/internal/httpclient"
	"github.com/btw-claude/confluence-skills/internal/output"
)

// Caller issues one request against the Confluence API.
type Caller interface {
	Call(ctx context.Context, version confluence.APIVersion, method, path string, query url.Values, body any) (*httpclient.Response, error)
}

// Runner executes definitions. Connect is only invoked once the input has
// validated, so bad input never triggers credential resolution or network I/O.
type Runner struct {
	Connect func() (Caller, error)
	Logger  hclog.Logger
}

func (r *Runner) Run(ctx context.Context, def *Definition, stdin io.Reader, stdout io.Writer) error {
	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named(strings.ReplaceAll(def.CommandPath(), " ", "."))

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errs.Input("stdin is a terminal: pipe a JSON object, e.g. echo '{}' | confluence %s", def.CommandPath())
	}

	in, err := Decode(def, stdin)
	if err != nil {
		return err
	}
	logger.Debug("input validated", "params", in.Names())

	caller, err := r.Connect()
	if err != nil {
		return err
	}
	return Execute(ctx, def, in, caller, stdout, logger)
}

// Execute performs the request for an already decoded input and writes the
// result. Nothing is written to stdout unless the whole call succeeded.
func Execute(ctx context.Context, def *Definition, in Input, caller Caller, stdout io.Writer, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	path, err := def.renderPath(in)
	if err != nil {
		return errs.Validation("%v", err)
	}

	var query url.Values
	if def.Query != nil {
		query = def.Query(in)
	}
	var body any
	if def.Body != nil {
		body = def.Body(in)
	}

	resp, err := caller.Call(ctx, def.API, def.Method, path, query, body)
	if err != nil {
		return annotate(def, in, err)
	}

	if cursor, ok := confluence.NextCursor(resp.Body); ok {
		logger.Debug("more results available", "cursor", cursor)
	}

	var result any = resp.Body
	switch {
	case def.Result != nil:
		result = def.Result(in, resp)
	case len(resp.Body) == 0:
		result = map[string]any{"success": true}
	}

	if err := output.WriteJSON(stdout, result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func annotate(def *Definition, in Input, err error) error {
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Kind == errs.KindConflict && def.ConflictHint != nil {
		apiErr.Hint = def.ConflictHint(in)
	}
	return err
}
