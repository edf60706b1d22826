package dataset

import (
	"encoding/json"
	"testing"
)

func TestCell_Display(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{
			name: "plain scalar",
			cell: Scalar("plain"),
			want: "plain",
		},
		{
			name: "pdf attachment",
			cell: Rich("Q3 Results", "pdf", "https://example.com/q3.pdf"),
			want: "Q3 Results [PDF]",
		},
		{
			name: "xbrl filing",
			cell: Rich("Filing", "xbrl", ""),
			want: "Filing [XBRL]",
		},
		{
			name: "uppercase kind",
			cell: Rich("Doc", "PDF", ""),
			want: "Doc [PDF]",
		},
		{
			name: "unrecognized kind",
			cell: Rich("X", "other", ""),
			want: "X",
		},
		{
			name: "zero cell",
			cell: Cell{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCell_ExportValue(t *testing.T) {
	cell := Rich("Q3 Results", "pdf", "https://example.com/q3.pdf")
	if got := cell.ExportValue(); got != "Q3 Results" {
		t.Errorf("ExportValue() = %q, want %q (no annotation)", got, "Q3 Results")
	}

	if got := Scalar("plain").ExportValue(); got != "plain" {
		t.Errorf("ExportValue() = %q, want %q", got, "plain")
	}
}

func TestCell_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText string
		wantKind string
		wantRich bool
	}{
		{
			name:     "string scalar",
			input:    `"INFY"`,
			wantText: "INFY",
		},
		{
			name:     "rich object",
			input:    `{"text":"INFY","type":"pdf","link":"https://x/y.pdf"}`,
			wantText: "INFY",
			wantKind: "pdf",
			wantRich: true,
		},
		{
			name:     "object without type",
			input:    `{"text":"INFY"}`,
			wantText: "INFY",
			wantRich: true,
		},
		{
			name:     "null",
			input:    `null`,
			wantText: "",
		},
		{
			name:     "number degrades to text",
			input:    `42`,
			wantText: "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cell Cell
			if err := json.Unmarshal([]byte(tt.input), &cell); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if cell.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", cell.Text, tt.wantText)
			}
			if cell.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", cell.Kind, tt.wantKind)
			}
			if cell.IsRich() != tt.wantRich {
				t.Errorf("IsRich() = %v, want %v", cell.IsRich(), tt.wantRich)
			}
		})
	}
}

func TestCell_MarshalRoundTrip(t *testing.T) {
	original := Rich("Annual Report", "xbrl", "https://x/ar.xml")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded Cell
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}
