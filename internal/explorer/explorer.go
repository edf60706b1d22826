package explorer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"nsefetch/pkg/dataset"
	"nsefetch/pkg/store"
	"nsefetch/pkg/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)

// Explorer runs the interactive session over a dataset store.
type Explorer struct {
	store *store.Store
	in    *bufio.Scanner
	out   io.Writer
}

// New creates an explorer reading menu choices from in and writing to
// out.
func New(st *store.Store, in io.Reader, out io.Writer) *Explorer {
	return &Explorer{
		store: st,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run drives the select-file / menu loop until the user exits or input
// ends.
func (e *Explorer) Run() error {
	for {
		path, ok, err := e.selectFile()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		ds, err := e.store.Load(path)
		if err != nil {
			fmt.Fprintln(e.out, errorStyle.Render("Error loading data: "+err.Error()))
			continue
		}
		if len(ds.Records) == 0 {
			fmt.Fprintln(e.out, errorStyle.Render("No records in this file"))
			continue
		}

		fields := MapFor(filepath.Base(path))
		e.showMetadata(ds, fields)

		fmt.Fprintln(e.out, titleStyle.Render("Preview (first 10 records)"))
		_ = view.Render(e.out, ds.Records, view.RenderOptions{MaxRows: 10, MaxColWidth: 40})

		if done := e.menuLoop(ds, fields); done {
			return nil
		}
	}
}

// selectFile lists the store's dataset files and asks for a choice.
// ok=false means exit.
func (e *Explorer) selectFile() (string, bool, error) {
	files, err := e.store.List()
	if err != nil {
		return "", false, err
	}
	if len(files) == 0 {
		fmt.Fprintln(e.out, errorStyle.Render("No data files found in "+e.store.Dir()))
		fmt.Fprintln(e.out, "Run the fetch command first.")
		return "", false, nil
	}

	fmt.Fprintln(e.out, titleStyle.Render("Available data files"))
	for i, f := range files {
		fmt.Fprintf(e.out, "%d. %s %s\n", i+1, f.Name,
			infoStyle.Render(fmt.Sprintf("(%.1f KB, modified %s)",
				float64(f.Size)/1024, f.ModTime.Format("2006-01-02 15:04:05"))))
	}
	fmt.Fprintln(e.out, "0. Exit")

	choice, alive := e.prompt("Select file")
	if !alive {
		return "", false, nil
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 0 || idx > len(files) {
		fmt.Fprintln(e.out, errorStyle.Render("Invalid choice"))
		return "", true, nil
	}
	if idx == 0 {
		return "", false, nil
	}
	return files[idx-1].Path, true, nil
}

// menuLoop runs the per-dataset menu. Returns true when the user exits
// the whole session (rather than switching files).
func (e *Explorer) menuLoop(ds *dataset.Dataset, fields FieldMap) bool {
	for {
		fmt.Fprintln(e.out, titleStyle.Render("\n"+fields.Label+" - Menu"))
		fmt.Fprintf(e.out, "1. View first 20 records\n")
		fmt.Fprintf(e.out, "2. View all records\n")
		fmt.Fprintf(e.out, "3. Search by %s\n", fields.Subject)
		fmt.Fprintf(e.out, "4. Search by %s\n", strings.Join(fields.Primary, "/"))
		fmt.Fprintf(e.out, "5. Search by %s\n", fields.Date)
		fmt.Fprintf(e.out, "6. Statistics\n")
		fmt.Fprintf(e.out, "7. Export to CSV\n")
		fmt.Fprintf(e.out, "8. Show metadata\n")
		fmt.Fprintf(e.out, "9. Switch file\n")
		fmt.Fprintf(e.out, "0. Exit\n")

		choice, alive := e.prompt("Enter your choice")
		if !alive {
			return true
		}

		switch choice {
		case "1":
			_ = view.Render(e.out, ds.Records, view.RenderOptions{MaxRows: 20, MaxColWidth: 40})
		case "2":
			_ = view.Render(e.out, ds.Records, view.RenderOptions{MaxColWidth: 40})
		case "3":
			keyword, ok := e.prompt("Enter " + fields.Subject + " keyword")
			if !ok {
				return true
			}
			e.showFiltered(view.Filter(ds.Records, fields.Subject, keyword), keyword)
		case "4":
			keyword, ok := e.prompt("Enter " + strings.Join(fields.Primary, " or "))
			if !ok {
				return true
			}
			e.showFiltered(view.FilterAny(ds.Records, fields.Primary, keyword), keyword)
		case "5":
			date, ok := e.prompt("Enter date (e.g. 12-Dec-2025)")
			if !ok {
				return true
			}
			e.showFiltered(view.Filter(ds.Records, fields.Date, date), date)
		case "6":
			e.showStatistics(ds.Records, fields)
		case "7":
			e.exportCSV(ds, fields)
		case "8":
			e.showMetadata(ds, fields)
		case "9":
			return false
		case "0":
			fmt.Fprintln(e.out, "Goodbye!")
			return true
		default:
			fmt.Fprintln(e.out, errorStyle.Render("Invalid choice"))
		}
	}
}

func (e *Explorer) showFiltered(matches []dataset.Record, keyword string) {
	fmt.Fprintf(e.out, "Found %d records matching %q\n", len(matches), keyword)
	if len(matches) == 0 {
		return
	}
	_ = view.Render(e.out, matches, view.RenderOptions{MaxRows: 20, MaxColWidth: 40})
}

func (e *Explorer) showStatistics(records []dataset.Record, fields FieldMap) {
	fmt.Fprintln(e.out, titleStyle.Render("Statistics"))
	fmt.Fprintf(e.out, "Total records: %d\n", len(records))
	if len(fields.Primary) > 0 {
		fmt.Fprintf(e.out, "Unique %s: %d\n", fields.Primary[0], view.Uniques(records, fields.Primary[0]))
	}
	if len(fields.Artifacts) > 0 {
		fmt.Fprintf(e.out, "With PDF: %d\n", view.CountArtifacts(records, fields.Artifacts, "pdf"))
		fmt.Fprintf(e.out, "With XBRL: %d\n", view.CountArtifacts(records, fields.Artifacts, "xbrl"))
	}

	for _, field := range fields.Tally {
		fmt.Fprintln(e.out, infoStyle.Render("Top "+field+":"))
		for _, fc := range view.TopN(view.Frequency(records, field), 15) {
			fmt.Fprintf(e.out, "  %s: %d\n", fc.Value, fc.Count)
		}
	}
}

func (e *Explorer) exportCSV(ds *dataset.Dataset, fields FieldMap) {
	name := strings.ToLower(strings.ReplaceAll(fields.Label, " ", "_"))
	filename := fmt.Sprintf("%s_export_%s.csv", name, time.Now().Format("20060102_150405"))

	f, err := os.Create(filename)
	if err != nil {
		fmt.Fprintln(e.out, errorStyle.Render("Error exporting: "+err.Error()))
		return
	}
	defer f.Close()

	if err := view.ExportCSV(f, ds.Records); err != nil {
		fmt.Fprintln(e.out, errorStyle.Render("Error exporting: "+err.Error()))
		return
	}
	fmt.Fprintln(e.out, "Data exported to: "+filename)
}

func (e *Explorer) showMetadata(ds *dataset.Dataset, fields FieldMap) {
	meta := ds.Metadata
	fmt.Fprintln(e.out, titleStyle.Render(fields.Label+" - Metadata"))
	if meta.ScrapeTimestamp != "" {
		fmt.Fprintf(e.out, "Scraped: %s\n", meta.ScrapeTimestamp)
	}
	if meta.MarketType != "" {
		fmt.Fprintf(e.out, "Market type: %s\n", meta.MarketType)
	}
	fmt.Fprintf(e.out, "Total records: %d\n", len(ds.Records))
	fmt.Fprintf(e.out, "Pages scraped: %d\n", meta.TotalPagesScraped)
	if meta.SourceURL != "" {
		fmt.Fprintf(e.out, "Source: %s\n", meta.SourceURL)
	}
	if ds.FetchErr != nil {
		fmt.Fprintln(e.out, errorStyle.Render("Partial dataset: "+ds.FetchErr.Error()))
	}
}

// prompt reads one trimmed input line. ok is false once input is
// exhausted, so loops terminate instead of spinning on EOF.
func (e *Explorer) prompt(label string) (string, bool) {
	fmt.Fprintf(e.out, "%s: ", label)
	if !e.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(e.in.Text()), true
}
