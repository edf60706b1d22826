package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an insertion-ordered mapping from field name to Cell. Field
// sets may vary between records of the same dataset; no schema is
// enforced. The zero value is an empty record ready for use.
type Record struct {
	fields []string
	values map[string]Cell
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Cell)}
}

// Set stores a cell under the given field, appending the field to the
// encounter order if it is new.
func (r *Record) Set(field string, cell Cell) {
	if r.values == nil {
		r.values = make(map[string]Cell)
	}
	if _, exists := r.values[field]; !exists {
		r.fields = append(r.fields, field)
	}
	r.values[field] = cell
}

// Get returns the cell stored under field and whether it exists.
func (r Record) Get(field string) (Cell, bool) {
	cell, ok := r.values[field]
	return cell, ok
}

// Display returns the display form of the field's value, or the empty
// string when the field is absent.
func (r Record) Display(field string) string {
	cell, ok := r.values[field]
	if !ok {
		return ""
	}
	return cell.Display()
}

// Fields returns the field names in encounter order. The returned slice
// must not be modified.
func (r Record) Fields() []string {
	return r.fields
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// UnmarshalJSON decodes a JSON object preserving key order. The standard
// decoder's token stream is the only way to observe the order the source
// wrote its columns in, which drives table and CSV layout downstream.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode record: expected object, got %v", tok)
	}

	r.fields = nil
	r.values = make(map[string]Cell)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode record key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode record key: %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode record value %q: %w", key, err)
		}

		var cell Cell
		if err := cell.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("decode cell %q: %w", key, err)
		}
		r.Set(key, cell)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// MarshalJSON encodes the record as a JSON object in field encounter
// order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[field])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
