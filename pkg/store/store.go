// Package store persists fetched datasets as JSON files and maintains
// the cross-dataset summary index.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"nsefetch/pkg/dataset"
)

// ErrNoRecords is returned when a zero-record dataset is offered for
// persistence. Empty datasets are dropped, never stored as empty files.
var ErrNoRecords = errors.New("dataset has no records")

// SummaryFile is the name of the cross-dataset index file.
const SummaryFile = "summary.json"

// Store writes datasets and the summary index under one directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// datasetFile is the persisted shape of one dataset.
type datasetFile struct {
	Metadata     dataset.Metadata  `json:"metadata"`
	TotalRecords int               `json:"total_records"`
	FetchedAt    time.Time         `json:"fetched_at"`
	Source       string            `json:"source"`
	Params       map[string]string `json:"params,omitempty"`
	FetchError   string            `json:"fetch_error,omitempty"`
	Data         []dataset.Record  `json:"data"`
}

// FileName returns the dataset file name for a dataset name.
func FileName(name string) string {
	return name + "_all.json"
}

// Save persists one dataset under its name and returns the file path.
// Zero-record datasets are refused with ErrNoRecords. I/O failures are
// propagated, never swallowed.
func (s *Store) Save(ds *dataset.Dataset, name string) (string, error) {
	if ds == nil || ds.Empty() {
		return "", ErrNoRecords
	}

	file := datasetFile{
		Metadata:     ds.Metadata,
		TotalRecords: len(ds.Records),
		FetchedAt:    ds.FetchedAt,
		Source:       ds.Source,
		Params:       ds.Params,
		Data:         ds.Records,
	}
	if ds.FetchErr != nil {
		file.FetchError = ds.FetchErr.Error()
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal dataset %s: %w", name, err)
	}

	path := filepath.Join(s.dir, FileName(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write dataset %s: %w", name, err)
	}

	log.Info().
		Str("component", "store").
		Str("file", path).
		Int("records", len(ds.Records)).
		Bool("partial", ds.Partial()).
		Msg("Dataset saved")

	return path, nil
}

// Load reads a persisted dataset back from a file path.
func (s *Store) Load(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var file datasetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	ds := &dataset.Dataset{
		Metadata:  file.Metadata,
		FetchedAt: file.FetchedAt,
		Source:    file.Source,
		Params:    file.Params,
		Records:   file.Data,
	}
	if file.FetchError != "" {
		ds.FetchErr = errors.New(file.FetchError)
	}
	return ds, nil
}

// FileInfo describes one persisted dataset file.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns the dataset files in the store directory sorted by name.
// The summary index is not a dataset and is excluded.
func (s *Store) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" || entry.Name() == SummaryFile {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(s.dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// SummaryEntry is one dataset's line in the summary index.
type SummaryEntry struct {
	Records int    `json:"records"`
	File    string `json:"file"`
}

// Summary is the cross-dataset index built from one fetch run.
type Summary struct {
	FetchTimestamp time.Time               `json:"fetch_timestamp"`
	SourceURL      string                  `json:"api_url"`
	TotalFiles     int                     `json:"total_files"`
	TotalRecords   int                     `json:"total_records"`
	Datasets       map[string]SummaryEntry `json:"datasets"`
}

// BuildSummary folds record counts and file references over all datasets
// produced in one run. A dataset absent from the input is simply absent
// from the summary.
func BuildSummary(sourceURL string, datasets map[string]*dataset.Dataset) *Summary {
	summary := &Summary{
		FetchTimestamp: time.Now(),
		SourceURL:      sourceURL,
		Datasets:       make(map[string]SummaryEntry),
	}

	for name, ds := range datasets {
		if ds == nil || ds.Empty() {
			continue
		}
		summary.Datasets[name] = SummaryEntry{
			Records: len(ds.Records),
			File:    FileName(name),
		}
		summary.TotalRecords += len(ds.Records)
		summary.TotalFiles++
	}

	return summary
}

// SaveSummary writes the summary index file.
func (s *Store) SaveSummary(summary *Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	path := filepath.Join(s.dir, SummaryFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	log.Info().
		Str("component", "store").
		Str("file", path).
		Int("files", summary.TotalFiles).
		Int("records", summary.TotalRecords).
		Msg("Summary saved")

	return nil
}
