package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInput          = errors.New("invalid input")
	ErrValidation     = errors.New("validation failed")
	ErrConfiguration  = errors.New("configuration error")
	ErrAuthentication = errors.New("authentication failed")
	ErrPermission     = errors.New("permission denied")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrNetwork        = errors.New("network error")
	ErrAPI            = errors.New("api error")
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Kind identifies which part of the error taxonomy an Error belongs to.
type Kind int

const (
	KindAPI Kind = iota
	KindInput
	KindValidation
	KindConfiguration
	KindAuthentication
	KindPermission
	KindNotFound
	KindConflict
	KindNetwork
)

var kindSentinels = map[Kind]error{
	KindAPI:            ErrAPI,
	KindInput:          ErrInput,
	KindValidation:     ErrValidation,
	KindConfiguration:  ErrConfiguration,
	KindAuthentication: ErrAuthentication,
	KindPermission:     ErrPermission,
	KindNotFound:       ErrNotFound,
	KindConflict:       ErrConflict,
	KindNetwork:        ErrNetwork,
}

// Error is the single error type surfaced to the command layer. StatusCode is
// zero for failures that never reached the server.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Hint       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(kindSentinels[e.Kind].Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d %s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Hint != "" {
		b.WriteString(" (hint: ")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}
	return singleLine(b.String())
}

// Unwrap exposes both the kind sentinel and the wrapped cause so errors.Is
// works for either.
func (e *Error) Unwrap() []error {
	out := []error{kindSentinels[e.Kind]}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (e *Error) ExitCode() int {
	return ExitFailure
}

func Input(format string, args ...any) *Error {
	return &Error{Kind: KindInput, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Configuration(message, hint string) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Hint: hint}
}

func Network(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

// FromStatus classifies a non-2xx response status.
func FromStatus(status int, message string) *Error {
	kind := KindAPI
	switch status {
	case http.StatusBadRequest:
		kind = KindValidation
	case http.StatusUnauthorized:
		kind = KindAuthentication
	case http.StatusForbidden:
		kind = KindPermission
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusConflict:
		kind = KindConflict
	}
	return &Error{Kind: kind, StatusCode: status, Message: message}
}

func ExitCodeFromError(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	if err != nil {
		return ExitFailure
	}
	return ExitSuccess
}

func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
