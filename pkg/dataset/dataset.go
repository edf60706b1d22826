package dataset

import "time"

// Metadata is the provenance record attached to a fetched dataset. Wire
// fields mirror what the NSE API reports per request; the scraped counts
// are recomputed locally after aggregation.
type Metadata struct {
	// SourceEndpoint is the endpoint path the dataset was fetched from.
	SourceEndpoint string `json:"source_endpoint,omitempty"`

	// SourceURL is the full source URL as reported by the API itself.
	SourceURL string `json:"source_url,omitempty"`

	// ScrapeTimestamp is the source-side scrape time, verbatim.
	ScrapeTimestamp string `json:"scrape_timestamp,omitempty"`

	// MarketType is the market selector this dataset covers, if any.
	MarketType string `json:"market_type,omitempty"`

	// TotalRecords is the number of records actually accumulated.
	TotalRecords int `json:"total_records"`

	// TotalPages is the page count the source reported last.
	TotalPages int `json:"total_pages,omitempty"`

	// TotalPagesScraped is the number of pages successfully fetched.
	// Less than TotalPages when the fetch was truncated by an error.
	TotalPagesScraped int `json:"total_pages_scraped"`
}

// Dataset is one complete (or partial) fetched dataset: provenance
// metadata plus records accumulated in page order. It is owned by the
// in-flight aggregation until returned, then treated as immutable.
type Dataset struct {
	Metadata  Metadata
	FetchedAt time.Time
	Source    string
	Params    map[string]string
	Records   []Record

	// FetchErr is set when the fetch was truncated mid-run. The records
	// accumulated before the failure are retained; a partial dataset is
	// still usable output.
	FetchErr error
}

// Empty reports whether the dataset holds no records. Empty datasets
// are skipped by the store, never persisted.
func (d *Dataset) Empty() bool {
	return len(d.Records) == 0
}

// Partial reports whether the fetch stopped before the source's
// reported page count.
func (d *Dataset) Partial() bool {
	return d.FetchErr != nil
}
