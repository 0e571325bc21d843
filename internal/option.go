package internal

import (
	"io"
	"log/slog"
	"net/http"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	logger     *slog.Logger
	httpClient *http.Client
	dryRun     io.Writer
	skipBuild  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithHTTPClient sets the client used for Notion requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *application) {
		a.httpClient = hc
	}
}

// WithDryRun writes the spliced template to w instead of the template file.
func WithDryRun(w io.Writer) Option {
	return func(a *application) {
		a.dryRun = w
	}
}

// WithoutBuild makes Serve start without building first.
func WithoutBuild() Option {
	return func(a *application) {
		a.skipBuild = true
	}
}
