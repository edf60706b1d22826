// Package dataset defines the in-memory model for fetched NSE data:
// cell values, schema-free ordered records, and complete datasets with
// provenance metadata.
package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Cell is a single field value. A cell is either a plain scalar or a
// rich cell carrying display text plus an artifact kind and an optional
// link, as published by the NSE API (e.g. PDF attachments, XBRL filings).
type Cell struct {
	Text string
	Kind string
	Link string

	rich bool
}

// Scalar creates a plain scalar cell.
func Scalar(text string) Cell {
	return Cell{Text: text}
}

// Rich creates a rich cell with an artifact kind and optional link.
func Rich(text, kind, link string) Cell {
	return Cell{Text: text, Kind: kind, Link: link, rich: true}
}

// IsRich reports whether the cell carries artifact information.
func (c Cell) IsRich() bool {
	return c.rich
}

// Display returns the human-readable form of the cell. Rich cells whose
// kind denotes a downloadable artifact get a bracketed tag ("Q3 Results
// [PDF]"); any other kind displays as bare text. A zero cell displays
// as the empty string.
func (c Cell) Display() string {
	if !c.rich {
		return c.Text
	}

	switch strings.ToLower(c.Kind) {
	case "pdf":
		return c.Text + " [PDF]"
	case "xbrl":
		return c.Text + " [XBRL]"
	default:
		return c.Text
	}
}

// ExportValue returns the machine-readable form of the cell: the bare
// text with no annotation, for CSV and similar exports.
func (c Cell) ExportValue() string {
	return c.Text
}

// richCell is the wire shape of a structured cell.
type richCell struct {
	Text string `json:"text"`
	Kind string `json:"type,omitempty"`
	Link string `json:"link,omitempty"`
}

// UnmarshalJSON decides scalar vs rich once at ingestion. Objects with a
// "text" key become rich cells; any other JSON value degrades to its
// scalar string form, never an error.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = Cell{}
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var rc richCell
		if err := json.Unmarshal(data, &rc); err != nil {
			*c = Scalar(trimmed)
			return nil
		}
		*c = Rich(rc.Text, rc.Kind, rc.Link)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Scalar(s)
		return nil
	}

	// Numbers, booleans and arrays keep their literal text.
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*c = Cell{}
		return nil
	}
	*c = Scalar(fmt.Sprintf("%v", v))
	return nil
}

// MarshalJSON writes scalars as strings and rich cells in their
// {text, type, link} wire shape.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.rich {
		return json.Marshal(c.Text)
	}
	return json.Marshal(richCell{Text: c.Text, Kind: c.Kind, Link: c.Link})
}
