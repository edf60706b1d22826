package view

import (
	"strings"
	"testing"

	"nsefetch/pkg/dataset"
)

func TestRender_Table(t *testing.T) {
	records := []dataset.Record{
		rec("SYMBOL", "INFY", "SUBJECT", "Dividend"),
		rec("SYMBOL", "TCS", "SUBJECT", "Results"),
	}

	var buf strings.Builder
	if err := Render(&buf, records, RenderOptions{MaxColWidth: 40}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"SYMBOL", "SUBJECT", "INFY", "Results", "+-"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "showing") {
		t.Error("unexpected truncation notice")
	}
}

func TestRender_TruncationNotice(t *testing.T) {
	records := []dataset.Record{
		rec("SYMBOL", "A"),
		rec("SYMBOL", "B"),
		rec("SYMBOL", "C"),
	}

	var buf strings.Builder
	if err := Render(&buf, records, RenderOptions{MaxRows: 2, MaxColWidth: 40}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.Contains(buf.String(), "... showing 2 of 3 records") {
		t.Errorf("missing truncation notice:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "| C") {
		t.Error("row past MaxRows was rendered")
	}
}

func TestRender_CellTruncation(t *testing.T) {
	long := strings.Repeat("x", 60)
	records := []dataset.Record{rec("SUBJECT", long)}

	var buf strings.Builder
	if err := Render(&buf, records, RenderOptions{MaxColWidth: 10}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if strings.Contains(buf.String(), long) {
		t.Error("cell not truncated")
	}
	if !strings.Contains(buf.String(), "xxxxxxx...") {
		t.Errorf("expected truncated cell:\n%s", buf.String())
	}
}

func TestRender_Empty(t *testing.T) {
	var buf strings.Builder
	if err := Render(&buf, nil, DefaultRenderOptions()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No data") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRender_ColumnsFromFirstRecord(t *testing.T) {
	first := rec("A", "1", "B", "2")
	second := rec("B", "3", "C", "4") // C is not a column

	var buf strings.Builder
	if err := Render(&buf, []dataset.Record{first, second}, DefaultRenderOptions()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.String()

	header := strings.SplitN(out, "\n", 3)[1]
	if !strings.Contains(header, "A") || !strings.Contains(header, "B") {
		t.Errorf("header = %q", header)
	}
	if strings.Contains(header, "C") {
		t.Errorf("header includes field absent from first record: %q", header)
	}
}
