// Package view provides schema-free exploration over a loaded dataset:
// substring filtering, frequency statistics, tabular rendering, and CSV
// export. All operations treat the records as an immutable snapshot and
// are safe for concurrent readers.
package view

import (
	"sort"
	"strings"

	"nsefetch/pkg/dataset"
)

// Filter returns the records whose field's display form contains keyword
// case-insensitively. Records missing the field never match. Filtering
// an already filtered result with the same keyword returns the same set.
func Filter(records []dataset.Record, field, keyword string) []dataset.Record {
	return FilterAny(records, []string{field}, keyword)
}

// FilterAny matches keyword against the display form of any of the given
// fields, for searches spanning several columns (e.g. company name or
// symbol).
func FilterAny(records []dataset.Record, fields []string, keyword string) []dataset.Record {
	needle := strings.ToLower(keyword)

	var out []dataset.Record
	for _, rec := range records {
		for _, field := range fields {
			cell, ok := rec.Get(field)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(cell.Display()), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// FieldCount is one value's occurrence count.
type FieldCount struct {
	Value string
	Count int
}

// Frequency counts the display values of field across records, in
// first-seen order. Records missing the field count under "Unknown".
func Frequency(records []dataset.Record, field string) []FieldCount {
	index := make(map[string]int)
	var counts []FieldCount

	for _, rec := range records {
		value := rec.Display(field)
		if value == "" {
			value = "Unknown"
		}
		if i, seen := index[value]; seen {
			counts[i].Count++
			continue
		}
		index[value] = len(counts)
		counts = append(counts, FieldCount{Value: value, Count: 1})
	}
	return counts
}

// TopN returns the n highest counts, descending, ties broken by
// first-seen order.
func TopN(counts []FieldCount, n int) []FieldCount {
	out := make([]FieldCount, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Uniques returns the number of distinct display values of field,
// ignoring records where the field is absent or empty.
func Uniques(records []dataset.Record, field string) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if value := rec.Display(field); value != "" {
			seen[value] = struct{}{}
		}
	}
	return len(seen)
}

// CountArtifacts returns how many records carry a rich cell of the given
// kind in any of the given fields.
func CountArtifacts(records []dataset.Record, fields []string, kind string) int {
	n := 0
	for _, rec := range records {
		for _, field := range fields {
			cell, ok := rec.Get(field)
			if ok && cell.IsRich() && strings.EqualFold(cell.Kind, kind) {
				n++
				break
			}
		}
	}
	return n
}
