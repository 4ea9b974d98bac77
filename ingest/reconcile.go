// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"strings"

	"github.com/danielhkuo/voter-roster/models"
)

// RawTable is parsed rows of cells with no column semantics yet
type RawTable [][]string

// HeaderMap maps canonical field names to zero-based column indexes.
// Fields that could not be located are absent. Immutable once built.
type HeaderMap struct {
	index      map[string]int
	positional bool
}

// Index returns the column for field, false when it is absent
func (m HeaderMap) Index(field string) (int, bool) {
	i, ok := m.index[field]
	return i, ok
}

// Positional reports whether the map was derived from column order
// rather than from a header row
func (m HeaderMap) Positional() bool {
	return m.positional
}

// Len returns how many canonical fields were located
func (m HeaderMap) Len() int {
	return len(m.index)
}

// Reconcile locates each canonical field in header by trimmed,
// case-insensitive exact match. The last matching column wins and
// extra columns are ignored. Missing fields come back in schema order.
func Reconcile(header []string) (HeaderMap, []string) {
	m := HeaderMap{index: make(map[string]int, len(models.Fields))}
	var missing []string

	for _, field := range models.Fields {
		found := false
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), field) {
				m.index[field] = i
				found = true
			}
		}
		if !found {
			missing = append(missing, field)
		}
	}

	return m, missing
}

// PositionalMap assigns canonical fields to columns in schema order
func PositionalMap() HeaderMap {
	m := HeaderMap{index: make(map[string]int, len(models.Fields)), positional: true}
	for i, field := range models.Fields {
		m.index[field] = i
	}
	return m
}

// HasLeaderHeader reports whether row carries the leader header token,
// which marks it as a true header row
func HasLeaderHeader(row []string) bool {
	for _, cell := range row {
		if strings.ToUpper(strings.TrimSpace(cell)) == models.FieldLeader {
			return true
		}
	}
	return false
}
