// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/danielhkuo/voter-roster/models"
)

// ExportDelimiter separates exported fields
const ExportDelimiter = ';'

// Export writes records as semicolon-delimited text: a header row of the
// canonical fields, then one line per record. Every value is wrapped in
// double quotes with inner quotes doubled.
func Export(w io.Writer, records []models.CanonicalRecord) error {
	bw := bufio.NewWriter(w)

	writeLine(bw, models.Fields)
	values := make([]string, len(models.Fields))
	for _, rec := range records {
		for i, field := range models.Fields {
			values[i] = rec[field]
		}
		writeLine(bw, values)
	}

	return bw.Flush()
}

func writeLine(bw *bufio.Writer, values []string) {
	for i, v := range values {
		if i > 0 {
			bw.WriteRune(ExportDelimiter)
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(v, `"`, `""`))
		bw.WriteByte('"')
	}
	bw.WriteByte('\n')
}

// ExportFilename names an export after the active filter and the date
func ExportFilename(filter string, now time.Time) string {
	if strings.TrimSpace(filter) == "" {
		filter = "Todos"
	}
	// keep the name a single path segment
	filter = strings.NewReplacer("/", "-", "\\", "-", `"`, "", "\n", " ").Replace(filter)
	return "consolidado_" + filter + "_" + now.Format("2006-01-02") + ".csv"
}
