// Package apperr defines the error taxonomy shared by the build pipeline.
//
// Every error is fatal to a run. The types exist so the CLI can pick an exit
// code and so callers can tell a bad template from a bad network.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind string

const (
	KindUnknown   Kind = "unknown"
	KindTransport Kind = "transport"
	KindRemote    Kind = "remote"
	KindParse     Kind = "parse"
	KindTemplate  Kind = "template"
	KindConfig    Kind = "config"
)

var (
	ErrMarkersMissing = errors.New("markers missing")
	ErrMarkerOrder    = errors.New("end marker precedes start marker")
	ErrMarkerInBlock  = errors.New("rendered block contains a marker")
)

// TransportError reports a request that never produced an HTTP response
// (DNS, connection reset, timeout, cancelled context).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports a non-2xx response. Code and Message are filled from
// the service's error body when it can be decoded.
type RemoteError struct {
	StatusCode int
	Body       string
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TemplateError reports a template document whose markers cannot be used.
// The document is never written when this error is returned.
type TemplateError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *TemplateError) Error() string {
	path := e.Path
	if path == "" {
		path = "template"
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("template %s: %v: %s", path, e.Err, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("template %s: %v", path, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// ConfigError reports missing or invalid process configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first taxonomy error in err's chain.
func KindOf(err error) Kind {
	var (
		transportErr *TransportError
		remoteErr    *RemoteError
		parseErr     *ParseError
		templateErr  *TemplateError
		configErr    *ConfigError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &templateErr):
		return KindTemplate
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &remoteErr):
		return KindRemote
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	switch KindOf(err) {
	case "":
		return 0
	case KindTemplate:
		return 2
	case KindConfig:
		return 3
	default:
		return 1
	}
}
