// Package build runs one site build: fetch published entries, render them
// and splice the result into the template document.
package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/starford/notionsite/internal/apperr"
	"github.com/starford/notionsite/internal/models"
	"github.com/starford/notionsite/internal/render"
	"github.com/starford/notionsite/internal/splice"
	"github.com/starford/notionsite/internal/storage"
)

// Source returns the published entries in display order.
type Source interface {
	Fetch(ctx context.Context) ([]models.Entry, error)
}

// Options configures a Builder.
type Options struct {
	Template string
	Markers  splice.Markers
	// DryRun, when non-nil, receives the spliced document and the template
	// is not written.
	DryRun io.Writer
}

// Report summarises a completed build.
type Report struct {
	Entries  int
	Template string
	Result   *splice.Result
	Duration time.Duration
}

// Builder wires a Source to a template document.
type Builder struct {
	source Source
	opts   Options
	logger *slog.Logger
}

// New creates a Builder. A nil logger falls back to slog.Default.
func New(source Source, opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{source: source, opts: opts, logger: logger}
}

// Run fetches, renders and splices. The template is not touched until the
// fetch has completed, and not at all if any step fails.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	started := time.Now()

	b.logger.Info("Fetching published entries")
	entries, err := b.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Entries fetched", slog.Int("count", len(entries)))

	block := render.Articles(entries)

	store, name, err := storage.ForFile(b.opts.Template)
	if err != nil {
		return nil, &apperr.TemplateError{Path: b.opts.Template, Err: err}
	}
	splicer := splice.NewSplicer(store, b.opts.Markers, b.logger)

	var res *splice.Result
	if b.opts.DryRun != nil {
		b.logger.Info("Dry run: writing spliced document to output", slog.String("template", b.opts.Template))
		res, err = splicer.Preview(name, block, b.opts.DryRun)
	} else {
		b.logger.Info("Injecting entries into template", slog.String("template", b.opts.Template))
		res, err = splicer.Apply(name, block)
	}
	if err != nil {
		return nil, fmt.Errorf("splice: %w", err)
	}

	report := &Report{
		Entries:  len(entries),
		Template: b.opts.Template,
		Result:   res,
		Duration: time.Since(started),
	}
	b.logger.Info("Build complete",
		slog.Int("entries", report.Entries),
		slog.String("template", report.Template),
		slog.Bool("written", res.Written),
		slog.Bool("unchanged", res.Unchanged),
		slog.String("checksum_before", res.Before),
		slog.String("checksum_after", res.After),
		slog.Duration("duration", report.Duration))
	return report, nil
}
