// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/voter-roster/models"
)

func TestExport_QuotesAndDelimits(t *testing.T) {
	rec := models.NewRecord()
	rec[models.FieldFirstName] = `ANA "LA NEGRA"`
	rec[models.FieldDocument] = "123"

	var buf bytes.Buffer
	if err := Export(&buf, []models.CanonicalRecord{rec}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus 1 line, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"LÍDER";"NOMBRES";`) {
		t.Errorf("Unexpected header line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"ANA ""LA NEGRA"""`) {
		t.Errorf("Expected doubled inner quotes, got %s", lines[1])
	}
	if got := strings.Count(lines[1], ";"); got != len(models.Fields)-1 {
		t.Errorf("Expected %d delimiters, got %d", len(models.Fields)-1, got)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	a := models.NewRecord()
	for i, f := range models.Fields {
		a[f] = strings.Repeat("x", i+1)
	}
	a[models.FieldLeader] = "MARÍA JOSÉ"
	a[models.FieldAddress] = `CALLE "10"; APTO 2`
	a[models.FieldNeighborhood] = "SAN ANTONIO, SECTOR 2"

	b := models.NewRecord()
	b[models.FieldDocument] = "987"
	b[models.RowIDKey] = "ignored-id"

	records := []models.CanonicalRecord{a, b}

	var buf bytes.Buffer
	if err := Export(&buf, records); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// the matching attempt, then the full prober
	direct, failure, err := ProbeAttempt(buf.Bytes(), Attempt{Encoding: UTF8, Delimiter: ';'})
	if err != nil || direct == nil {
		t.Fatalf("Expected UTF-8 semicolon attempt to succeed, got failure %+v, err %v", failure, err)
	}
	probed, err := Probe("export.csv", buf.Bytes())
	if err != nil {
		t.Fatalf("Probe failed on exported file: %v", err)
	}

	for _, res := range []*Result{direct, probed} {
		if len(res.Records) != len(records) {
			t.Fatalf("Expected %d records, got %d", len(records), len(res.Records))
		}
		for i, want := range records {
			for _, f := range models.Fields {
				if got := res.Records[i][f]; got != want[f] {
					t.Errorf("Row %d field %q: expected %q, got %q", i, f, want[f], got)
				}
			}
		}
	}
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		filter string
		want   string
	}{
		{"", "consolidado_Todos_2026-03-08.csv"},
		{"Todos", "consolidado_Todos_2026-03-08.csv"},
		{"CARLOS GÓMEZ", "consolidado_CARLOS GÓMEZ_2026-03-08.csv"},
		{"A/B", "consolidado_A-B_2026-03-08.csv"},
	}

	for _, tt := range tests {
		if got := ExportFilename(tt.filter, day); got != tt.want {
			t.Errorf("ExportFilename(%q) = %q, want %q", tt.filter, got, tt.want)
		}
	}
}
