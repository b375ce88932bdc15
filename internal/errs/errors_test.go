package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
		kind     Kind
	}{
		{http.StatusBadRequest, ErrValidation, KindValidation},
		{http.StatusUnauthorized, ErrAuthentication, KindAuthentication},
		{http.StatusForbidden, ErrPermission, KindPermission},
		{http.StatusNotFound, ErrNotFound, KindNotFound},
		{http.StatusConflict, ErrConflict, KindConflict},
		{http.StatusTooManyRequests, ErrAPI, KindAPI},
		{http.StatusInternalServerError, ErrAPI, KindAPI},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			err := FromStatus(tc.status, "upstream said no")
			assert.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, tc.status, err.StatusCode)

			var wrapped *Error
			require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &wrapped))
			assert.Equal(t, tc.kind, wrapped.Kind)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := FromStatus(http.StatusConflict, "Version must be incremented")
	err.Hint = "fetch the current version"
	assert.Equal(t,
		"conflict (HTTP 409 Conflict): Version must be incremented (hint: fetch the current version)",
		err.Error())
}

func TestErrorMessageIsSingleLine(t *testing.T) {
	err := Configuration("missing CONFLUENCE_URL", "set it in\n  .claude/env")
	assert.Equal(t, "configuration error: missing CONFLUENCE_URL (hint: set it in .claude/env)", err.Error())
}

func TestNetworkWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Network("request to https://example.test failed", cause)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExitCodeFromError(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeFromError(nil))
	assert.Equal(t, ExitFailure, ExitCodeFromError(errors.New("boom")))
	assert.Equal(t, ExitFailure, ExitCodeFromError(Input("not json")))
}
