// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"strings"

	"github.com/danielhkuo/voter-roster/models"
)

// Project converts raw rows into canonical records. Every record has the
// full canonical field set; cells past the end of a row read as "".
func Project(rows RawTable, m HeaderMap) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.NewRecord()
		for _, field := range models.Fields {
			idx, ok := m.Index(field)
			if !ok || idx < 0 || idx >= len(row) {
				continue
			}
			rec[field] = strings.TrimSpace(row[idx])
		}
		out = append(out, rec)
	}
	return out
}
