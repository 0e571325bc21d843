// Package content fetches published records and normalizes them into entries.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/notionsite/internal/models"
	"github.com/starford/notionsite/internal/notion"
)

// Querier runs a database query. *notion.Client implements it.
type Querier interface {
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryRequest) (*notion.QueryResponse, error)
}

// Options selects and shapes the published records.
type Options struct {
	DatabaseID     string
	TitleProperty  string
	StatusProperty string
	StatusValue    string
	DateProperty   string
	Link           LinkOptions
}

// Fetcher issues the published-entries query and normalizes the result.
type Fetcher struct {
	client Querier
	opts   Options
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. A nil logger falls back to slog.Default.
func NewFetcher(client Querier, opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TitleProperty == "" {
		opts.TitleProperty = DefaultTitleProperty
	}
	return &Fetcher{client: client, opts: opts, logger: logger}
}

// Fetch performs exactly one query and returns the entries in service order.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.Entry, error) {
	req := notion.PublishedQuery(f.opts.StatusProperty, f.opts.StatusValue, f.opts.DateProperty)

	resp, err := f.client.QueryDatabase(ctx, f.opts.DatabaseID, req)
	if err != nil {
		return nil, fmt.Errorf("fetch published entries: %w", err)
	}
	if resp.HasMore {
		f.logger.Warn("query has more results than one page; only the first page is used",
			slog.Int("results", len(resp.Results)))
	}

	entries := make([]models.Entry, 0, len(resp.Results))
	for i := range resp.Results {
		e := Normalize(&resp.Results[i], f.opts)
		attrs := []any{
			slog.String("id", e.ID),
			slog.String("title", e.Title),
			slog.String("link", e.Link),
		}
		if e.HasDate() {
			attrs = append(attrs, slog.String("date", e.Date.Format(time.DateOnly)))
		}
		f.logger.Debug("entry", attrs...)
		entries = append(entries, e)
	}
	return entries, nil
}
