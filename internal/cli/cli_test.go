package cli

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btw-claude/confluence-skills/internal/errs"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, env map[string]string, server *httptest.Server, stdin string, args ...string) result {
	t.Helper()
	opts := []Option{
		WithFs(afero.NewMemMapFs()),
		WithDirs("/work", "/home/agent"),
		WithLookupEnv(func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}),
	}
	if server != nil {
		opts = append(opts, WithHTTPClient(server.Client()))
	}

	cmd := NewRootCmd("1.2.3", opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := runRoot(cmd)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func patEnv(server *httptest.Server) map[string]string {
	return map[string]string{
		"CONFLUENCE_URL": server.URL + "/wiki",
		"CONFLUENCE_PAT": "secret-pat",
	}
}

func TestSpacesGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/api/v2/spaces/123456", r.URL.Path)
		assert.Equal(t, "Bearer secret-pat", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"123456","key":"DEV"}`)
	}))
	defer server.Close()

	res := execute(t, patEnv(server), server, `{"space_id": "123456"}`, "spaces", "get")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"id":"123456","key":"DEV"}`, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestInvalidInputMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	res := execute(t, patEnv(server), server, `{"space_id": `, "pages", "create")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errs.ErrInput))
	assert.Empty(t, res.stdout)
	assert.Equal(t, "Error: "+res.err.Error()+"\n", res.stderr)
	assert.True(t, strings.HasPrefix(res.stderr, "Error: invalid input"), res.stderr)
	assert.Zero(t, hits.Load())

	res = execute(t, patEnv(server), server, `{}`, "search")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errs.ErrValidation))
	assert.Contains(t, res.err.Error(), "query")
	assert.Equal(t, 1, strings.Count(res.stderr, "\n"))
	assert.Equal(t, "Error: "+res.err.Error()+"\n", res.stderr)
	assert.Zero(t, hits.Load())
}

func TestInvalidInputWinsOverMissingConfig(t *testing.T) {
	res := execute(t, map[string]string{}, nil, `not json`, "spaces", "list")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errs.ErrInput))
}

func TestMissingConfiguration(t *testing.T) {
	res := execute(t, map[string]string{}, nil, `{}`, "spaces", "list")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errs.ErrConfiguration))
	assert.Contains(t, res.err.Error(), "CONFLUENCE_URL")
	assert.Empty(t, res.stdout)
}

func TestDeleteSpace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/wiki/rest/api/space/DEV", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	res := execute(t, patEnv(server), server, `{"space_key": "DEV"}`, "spaces", "delete")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"success": true, "space_key": "DEV", "message": "Space deletion initiated. This is an asynchronous operation."}`, res.stdout)
}

func TestUpdatePageConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"errors":[{"status":409,"title":"Version must be incremented"}]}`)
	}))
	defer server.Close()

	input := `{"page_id": "1", "title": "T", "body": "<p>B</p>", "version_number": 3}`
	res := execute(t, patEnv(server), server, input, "pages", "update")
	require.Error(t, res.err)
	assert.Equal(t, errs.ExitFailure, errs.ExitCodeFromError(res.err))
	assert.Contains(t, res.err.Error(), "version conflict")
	assert.Empty(t, res.stdout)
	assert.Equal(t, 1, strings.Count(res.stderr, "\n"), res.stderr)
	assert.True(t, strings.HasPrefix(res.stderr, "Error: conflict (HTTP 409 Conflict): Version must be incremented"), res.stderr)
	assert.Contains(t, res.stderr, "version conflict")
}

func TestVerboseLogsNextCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"results":[],"_links":{"next":"/wiki/api/v2/spaces?cursor=abc123"}}`)
	}))
	defer server.Close()

	res := execute(t, patEnv(server), server, `{}`, "--verbose", "spaces", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "cursor=abc123")

	res = execute(t, patEnv(server), server, `{}`, "spaces", "list")
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)
}

func TestConfigShowMasksSecrets(t *testing.T) {
	env := map[string]string{
		"CONFLUENCE_URL":       "https://example.atlassian.net/wiki",
		"CONFLUENCE_EMAIL":     "agent@example.com",
		"CONFLUENCE_API_TOKEN": "very-secret",
	}
	res := execute(t, env, nil, "", "config", "show")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, "very-secret")
	assert.Contains(t, res.stdout, `"auth_mode": "basic"`)
	assert.Contains(t, res.stdout, `"email": "agent@example.com"`)
	assert.Contains(t, res.stdout, `"source": "environment"`)
}

func TestConfigVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/space", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		if r.Header.Get("Authorization") != "Bearer secret-pat" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"results":[]}`)
	}))
	defer server.Close()

	res := execute(t, patEnv(server), server, "", "config", "verify")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"authenticated": true`)
	assert.Contains(t, res.stdout, `"auth_mode": "pat"`)

	env := patEnv(server)
	env["CONFLUENCE_PAT"] = "expired"
	res = execute(t, env, server, "", "config", "verify")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errs.ErrAuthentication))
	assert.Contains(t, res.err.Error(), "CONFLUENCE_PAT")
}

func TestCommandsListing(t *testing.T) {
	res := execute(t, nil, nil, "", "commands")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 22)
	assert.True(t, strings.HasPrefix(lines[0], "COMMAND"))
	assert.Contains(t, res.stdout, "/rest/api/search")
	assert.Contains(t, res.stdout, "page_id,title,body,version_number")
}

func TestVersion(t *testing.T) {
	res := execute(t, nil, nil, "", "version")
	require.NoError(t, res.err)
	assert.Equal(t, "1.2.3\n", res.stdout)
}

func TestUnknownCommand(t *testing.T) {
	res := execute(t, nil, nil, "", "archive")
	require.Error(t, res.err)
	assert.Empty(t, res.stdout)
}

func TestOperationHelpListsParameters(t *testing.T) {
	res := execute(t, nil, nil, "", "pages", "update", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "version_number")
	assert.Contains(t, res.stdout, "PUT /api/v2/pages/{page_id}")
}
