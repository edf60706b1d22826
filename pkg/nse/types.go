package nse

import (
	"nsefetch/pkg/dataset"
)

// Pagination is the pagination envelope the API reports per request.
// The values are authoritative for that response only and may change
// between pages of the same fetch; callers must re-read them every page.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalPages   int `json:"total_pages"`
	TotalRecords int `json:"total_records"`
}

// SourceMetadata is the metadata envelope the API attaches to each page.
type SourceMetadata struct {
	SourceURL       string `json:"source_url,omitempty"`
	ScrapeTimestamp string `json:"scrape_timestamp,omitempty"`
	MarketType      string `json:"market_type,omitempty"`
	TotalRecords    int    `json:"total_records,omitempty"`
	TotalPages      int    `json:"total_pages,omitempty"`
}

// PageResponse is one page of records plus its pagination and metadata
// envelope.
type PageResponse struct {
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	Metadata   SourceMetadata   `json:"metadata"`
	Pagination Pagination       `json:"pagination"`
	Data       []dataset.Record `json:"data"`
}

// ReadinessReport is the health endpoint's view of which data categories
// are populated and safe to bulk-fetch.
type ReadinessReport struct {
	Status    string          `json:"status"`
	Ready     bool            `json:"ready"`
	Monitors  map[string]bool `json:"monitors"`
	Timestamp string          `json:"timestamp"`
}

// ReadyCount returns the number of monitors reporting ready.
func (r *ReadinessReport) ReadyCount() int {
	n := 0
	for _, ok := range r.Monitors {
		if ok {
			n++
		}
	}
	return n
}
