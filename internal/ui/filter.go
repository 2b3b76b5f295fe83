package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/productdevbook/serial-logger/internal/record"
)

// recordSource exposes records to the fuzzy matcher.
type recordSource []record.PortRecord

func (s recordSource) String(i int) string {
	r := s[i]
	parts := []string{r.Port, r.Description, r.Manufacturer, r.SerialNumber}
	if r.VID != nil && r.PID != nil {
		parts = append(parts, *r.VID+":"+*r.PID)
	}
	return strings.Join(parts, " ")
}

func (s recordSource) Len() int {
	return len(s)
}

// Filter returns the records fuzzily matching query, best match first.
// An empty query returns all records in their original order.
func Filter(records []record.PortRecord, query string) []record.PortRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}

	matches := fuzzy.FindFrom(query, recordSource(records))

	out := make([]record.PortRecord, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}

	return out
}
