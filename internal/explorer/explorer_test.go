package explorer

import (
	"strings"
	"testing"
	"time"

	"nsefetch/pkg/dataset"
	"nsefetch/pkg/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}

	ds := &dataset.Dataset{
		FetchedAt: time.Now(),
		Source:    "/announcements",
		Metadata: dataset.Metadata{
			MarketType:        "equity",
			TotalPagesScraped: 1,
			SourceURL:         "https://www.nseindia.com",
		},
	}
	subjects := []string{"Dividend Declaration", "Financial Results", "Interim Dividend"}
	for i, subject := range subjects {
		rec := dataset.NewRecord()
		rec.Set("SYMBOL", dataset.Scalar([]string{"INFY", "TCS", "WIPRO"}[i]))
		rec.Set("SUBJECT", dataset.Scalar(subject))
		ds.Records = append(ds.Records, *rec)
	}
	if _, err := st.Save(ds, "announcements_equity"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	return st
}

// run drives a scripted session and returns the terminal output.
func run(t *testing.T, st *store.Store, script ...string) string {
	t.Helper()

	var out strings.Builder
	e := New(st, strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	if err := e.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return out.String()
}

func TestRun_ExitFromFileList(t *testing.T) {
	out := run(t, seedStore(t), "0")
	if !strings.Contains(out, "announcements_equity_all.json") {
		t.Errorf("file list missing dataset:\n%s", out)
	}
}

func TestRun_EmptyStore(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}

	out := run(t, st)
	if !strings.Contains(out, "No data files found") {
		t.Errorf("missing empty-store notice:\n%s", out)
	}
}

func TestRun_SearchBySubject(t *testing.T) {
	// Select file 1, search subject "dividend", then exit.
	out := run(t, seedStore(t), "1", "3", "dividend", "0")

	if !strings.Contains(out, "Found 2 records") {
		t.Errorf("expected 2 dividend matches:\n%s", out)
	}
	if !strings.Contains(out, "INFY") || !strings.Contains(out, "WIPRO") {
		t.Errorf("matches missing from table:\n%s", out)
	}
}

func TestRun_Statistics(t *testing.T) {
	out := run(t, seedStore(t), "1", "6", "0")

	if !strings.Contains(out, "Total records: 3") {
		t.Errorf("statistics missing totals:\n%s", out)
	}
	if !strings.Contains(out, "Financial Results: 1") {
		t.Errorf("statistics missing subject tally:\n%s", out)
	}
}

func TestRun_MetadataView(t *testing.T) {
	out := run(t, seedStore(t), "1", "8", "0")

	if !strings.Contains(out, "Market type: equity") {
		t.Errorf("metadata missing market type:\n%s", out)
	}
	if !strings.Contains(out, "https://www.nseindia.com") {
		t.Errorf("metadata missing source:\n%s", out)
	}
}

func TestRun_EOFAtSearchPrompt(t *testing.T) {
	// Input ends at the keyword prompt; no filter may run with an
	// empty keyword, which would match every record.
	out := run(t, seedStore(t), "1", "3")

	if strings.Contains(out, "Found") {
		t.Errorf("search ran on exhausted input:\n%s", out)
	}
}

func TestRun_EOFTerminates(t *testing.T) {
	// Script ends inside the menu; the session must end, not spin.
	out := run(t, seedStore(t), "1")
	if !strings.Contains(out, "Menu") {
		t.Errorf("menu never shown:\n%s", out)
	}
}
