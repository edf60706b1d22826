// Package aggregate drives page-by-page accumulation of one endpoint
// into a complete in-memory dataset, tolerating mid-fetch failure.
package aggregate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"nsefetch/pkg/dataset"
	"nsefetch/pkg/nse"
)

// PageFetcher is the single-page contract the aggregator drives.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint string, params map[string]string, page, perPage int) (*nse.PageResponse, error)
}

// Config holds aggregator configuration.
type Config struct {
	// PerPage is the page size requested from the source.
	PerPage int

	// Delay is the fixed politeness pause between page requests. The
	// source is a shared resource; this is a deliberate self-imposed
	// rate limit, not adaptive.
	Delay time.Duration
}

// DefaultConfig returns safe defaults matching the source's observed
// limits.
func DefaultConfig() Config {
	return Config{
		PerPage: nse.MaxPerPage,
		Delay:   500 * time.Millisecond,
	}
}

// Aggregator fetches every page of an endpoint/parameter combination
// sequentially. Sequencing is required: total_pages is only known from
// the previous response, and the delay is a rate limit.
type Aggregator struct {
	fetcher PageFetcher
	config  Config
}

// New creates a new aggregator.
func New(fetcher PageFetcher, config Config) *Aggregator {
	if config.PerPage <= 0 {
		config.PerPage = nse.MaxPerPage
	}
	if config.Delay < 0 {
		config.Delay = 0
	}
	return &Aggregator{fetcher: fetcher, config: config}
}

// FetchAll accumulates all pages of an endpoint into one dataset.
//
// Any page failure stops the loop immediately: the records gathered so
// far become the dataset's final content and the error is recorded on
// it. A partial dataset is normal output, never escalated as a fatal
// failure. Cancellation between iterations behaves the same way, so
// progress is never discarded.
func (a *Aggregator) FetchAll(ctx context.Context, endpoint string, params map[string]string) *dataset.Dataset {
	start := time.Now()
	logger := log.With().Str("component", "aggregator").Str("endpoint", endpoint).Logger()

	ds := &dataset.Dataset{
		FetchedAt: time.Now(),
		Source:    endpoint,
		Params:    params,
		Metadata: dataset.Metadata{
			SourceEndpoint: endpoint,
			MarketType:     params["market"],
		},
	}

	page := 1
	totalPages := 1

	for page <= totalPages {
		if err := ctx.Err(); err != nil {
			logger.Warn().
				Int("page", page).
				Int("records", len(ds.Records)).
				Msg("Fetch interrupted - keeping accumulated records")
			ds.FetchErr = err
			break
		}

		resp, err := a.fetcher.FetchPage(ctx, endpoint, params, page, a.config.PerPage)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("error_class", string(nse.ClassOf(err))).
				Int("page", page).
				Int("records", len(ds.Records)).
				Msg("Page fetch failed - truncating dataset")
			ds.FetchErr = err
			break
		}

		// Pagination metadata is authoritative per response; never
		// carried over from page 1.
		if resp.Pagination.TotalPages > 0 {
			totalPages = resp.Pagination.TotalPages
		}

		ds.Records = append(ds.Records, resp.Data...)
		applySourceMetadata(&ds.Metadata, resp.Metadata, totalPages)
		ds.Metadata.TotalPagesScraped = page

		logger.Info().
			Int("page", page).
			Int("total_pages", totalPages).
			Int("page_records", len(resp.Data)).
			Int("records", len(ds.Records)).
			Msg("Page fetched")

		page++

		if page <= totalPages && a.config.Delay > 0 {
			select {
			case <-ctx.Done():
				// Next iteration records the cancellation.
			case <-time.After(a.config.Delay):
			}
		}
	}

	ds.Metadata.TotalRecords = len(ds.Records)

	logger.Info().
		Int("pages", ds.Metadata.TotalPagesScraped).
		Int("records", len(ds.Records)).
		Bool("partial", ds.Partial()).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return ds
}

// applySourceMetadata folds the freshest wire metadata into the dataset
// provenance.
func applySourceMetadata(meta *dataset.Metadata, src nse.SourceMetadata, totalPages int) {
	if src.SourceURL != "" {
		meta.SourceURL = src.SourceURL
	}
	if src.ScrapeTimestamp != "" {
		meta.ScrapeTimestamp = src.ScrapeTimestamp
	}
	if src.MarketType != "" {
		meta.MarketType = src.MarketType
	}
	meta.TotalPages = totalPages
}
