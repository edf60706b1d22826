// Package runner drives a full health-gated fetch of every endpoint and
// market, persisting each dataset and the cross-dataset summary.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"nsefetch/pkg/dataset"
	"nsefetch/pkg/logging"
	"nsefetch/pkg/nse"
	"nsefetch/pkg/store"
)

// ErrNoReadyMonitors is returned when the health probe reports zero
// ready monitors and no override was configured.
var ErrNoReadyMonitors = errors.New("no monitors are ready")

// Endpoint is one named endpoint/market combination to fetch.
type Endpoint struct {
	Name   string
	Path   string
	Params map[string]string
}

// Endpoints returns the fixed fetch list: the event calendar,
// announcements per market, the CRD database, and Reg.30 credit ratings
// per market.
func Endpoints() []Endpoint {
	eps := []Endpoint{
		{Name: "event_calendar", Path: "/event-calendar"},
	}
	for _, market := range []string{"equity", "sme", "debt", "mf"} {
		eps = append(eps, Endpoint{
			Name:   "announcements_" + market,
			Path:   "/announcements",
			Params: map[string]string{"market": market},
		})
	}
	eps = append(eps, Endpoint{Name: "crd", Path: "/crd"})
	for _, market := range []string{"equity", "sme"} {
		eps = append(eps, Endpoint{
			Name:   "credit_rating_" + market,
			Path:   "/credit-rating",
			Params: map[string]string{"market": market},
		})
	}
	return eps
}

// HealthChecker gates the run.
type HealthChecker interface {
	CheckHealth(ctx context.Context) (*nse.ReadinessReport, error)
}

// Fetcher produces one complete dataset per endpoint.
type Fetcher interface {
	FetchAll(ctx context.Context, endpoint string, params map[string]string) *dataset.Dataset
}

// Options tunes a run.
type Options struct {
	// ProceedWithoutReady runs the fetch even when the probe reports
	// zero ready monitors. The decision is configuration, never an
	// interactive prompt inside the pipeline.
	ProceedWithoutReady bool

	// SourceURL is recorded in the summary index.
	SourceURL string
}

// Result reports one endpoint's outcome.
type Result struct {
	Name    string
	Records int
	Pages   int
	File    string
	Skipped bool
	Err     error
}

// Runner executes the fetch pipeline.
type Runner struct {
	health  HealthChecker
	fetcher Fetcher
	store   *store.Store
	opts    Options
	logger  zerolog.Logger
}

// New creates a runner.
func New(health HealthChecker, fetcher Fetcher, st *store.Store, opts Options) *Runner {
	return &Runner{
		health:  health,
		fetcher: fetcher,
		store:   st,
		opts:    opts,
		logger:  logging.NewLogger("runner"),
	}
}

// Run probes health, fetches every endpoint in order, persists non-empty
// datasets, and writes the summary index. Fetch errors truncate single
// datasets without failing the run; an interrupt stops further requests
// but everything fetched so far is still persisted and summarized.
// Storage failures are fatal.
func (r *Runner) Run(ctx context.Context) (*store.Summary, []Result, error) {
	report, err := r.health.CheckHealth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("health gate: %w", err)
	}
	if report.ReadyCount() == 0 {
		if !r.opts.ProceedWithoutReady {
			return nil, nil, ErrNoReadyMonitors
		}
		r.logger.Warn().Msg("No monitors ready - proceeding on override")
	}

	persisted := make(map[string]*dataset.Dataset)
	var results []Result

	for _, ep := range Endpoints() {
		if ctx.Err() != nil {
			r.logger.Warn().Str("endpoint", ep.Name).Msg("Run interrupted - skipping remaining endpoints")
			break
		}

		ds := r.fetcher.FetchAll(ctx, ep.Path, ep.Params)
		result := Result{
			Name:    ep.Name,
			Records: len(ds.Records),
			Pages:   ds.Metadata.TotalPagesScraped,
			Err:     ds.FetchErr,
		}

		if ds.Empty() {
			result.Skipped = true
			r.logger.Warn().
				Str("endpoint", ep.Name).
				Msg("No data available - dataset skipped")
			results = append(results, result)
			continue
		}

		if ds.Partial() {
			r.logger.Warn().
				Str("endpoint", ep.Name).
				Int("records", len(ds.Records)).
				Int("pages", ds.Metadata.TotalPagesScraped).
				Err(ds.FetchErr).
				Msg("Partial dataset - persisting what was fetched")
		}

		path, err := r.store.Save(ds, ep.Name)
		if err != nil {
			return nil, results, fmt.Errorf("persist %s: %w", ep.Name, err)
		}
		result.File = path
		persisted[ep.Name] = ds
		results = append(results, result)
	}

	summary := store.BuildSummary(r.opts.SourceURL, persisted)
	if err := r.store.SaveSummary(summary); err != nil {
		return nil, results, err
	}

	r.logger.Info().
		Int("files", summary.TotalFiles).
		Int("records", summary.TotalRecords).
		Msg("Fetch run complete")

	return summary, results, nil
}
