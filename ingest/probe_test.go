// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/danielhkuo/voter-roster/models"
)

// sampleRow returns 14 cells in canonical order
func sampleRow(leader, doc, phone string) []string {
	return []string{
		leader, "ANA", "PÉREZ", doc, phone,
		"CRA 1 # 2-3", "CENTRO", "MEDELLÍN", "ANTIOQUIA",
		"IE SAN JOSÉ", "CL 10 # 5-5", "3", "ANTIOQUIA", "MEDELLÍN",
	}
}

func buildFile(delim string, header []string, rows ...[]string) string {
	var b strings.Builder
	if header != nil {
		b.WriteString(strings.Join(header, delim))
		b.WriteString("\n")
	}
	for _, r := range rows {
		b.WriteString(strings.Join(r, delim))
		b.WriteString("\n")
	}
	return b.String()
}

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("Failed to encode Latin-1: %v", err)
	}
	return []byte(out)
}

func TestProbe_LatinSemicolonScenario(t *testing.T) {
	text := buildFile(";", models.Fields,
		sampleRow("CARLOS GÓMEZ", "111", "3001112222"),
		sampleRow("CARLOS GÓMEZ", "222", "3003334444"),
		sampleRow("LUZ MARÍA", "333", ""),
	)

	res, err := Probe("roster.csv", latin1(t, text))
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if res.Number != 3 {
		t.Errorf("Expected success on attempt 3, got %d (%s)", res.Number, res.Attempt)
	}
	if res.Attempt.Encoding != Latin1 || res.Attempt.Delimiter != ';' {
		t.Errorf("Expected Latin-1 semicolon attempt, got %s", res.Attempt)
	}
	if !res.HasHeader {
		t.Error("Expected header row to be detected")
	}
	if res.Map.Len() != len(models.Fields) {
		t.Errorf("Expected %d mapped fields, got %d", len(models.Fields), res.Map.Len())
	}
	if len(res.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(res.Records))
	}
	if got := res.Records[0][models.FieldLeader]; got != "CARLOS GÓMEZ" {
		t.Errorf("Expected leader 'CARLOS GÓMEZ', got %q", got)
	}
	if got := res.Records[2][models.FieldVotingMunicipality]; got != "MEDELLÍN" {
		t.Errorf("Expected accented municipality to survive decoding, got %q", got)
	}
}

func TestProbe_EveryAttemptRecoversHeader(t *testing.T) {
	rows := [][]string{sampleRow("JUAN", "10", "1"), sampleRow("JUAN", "20", "2")}

	tests := []struct {
		name    string
		data    []byte
		attempt int
	}{
		{"utf8 comma", []byte(buildFile(",", models.Fields, rows...)), 1},
		{"utf8 tab", []byte(buildFile("\t", models.Fields, rows...)), 1},
		{"latin1 comma", latin1(t, buildFile(",", models.Fields, rows...)), 2},
		{"latin1 semicolon", latin1(t, buildFile(";", models.Fields, rows...)), 3},
		{"utf8 semicolon", []byte(buildFile(";", models.Fields, rows...)), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Probe("file.csv", tt.data)
			if err != nil {
				t.Fatalf("Probe failed: %v", err)
			}
			if res.Number != tt.attempt {
				t.Errorf("Expected attempt %d, got %d", tt.attempt, res.Number)
			}
			for _, f := range models.Fields {
				if _, ok := res.Map.Index(f); !ok {
					t.Errorf("Field %q not recovered", f)
				}
			}
			if len(res.Records) != 2 {
				t.Errorf("Expected 2 records, got %d", len(res.Records))
			}
		})
	}
}

func TestProbe_HeaderCaseAndOrder(t *testing.T) {
	// reversed order, mixed case, padded
	header := make([]string, 0, len(models.Fields))
	for i := len(models.Fields) - 1; i >= 0; i-- {
		header = append(header, "  "+strings.ToLower(models.Fields[i])+" ")
	}
	row := sampleRow("ROSA", "555", "3110000000")
	reversed := make([]string, len(row))
	for i := range row {
		reversed[len(row)-1-i] = row[i]
	}

	res, err := Probe("mixed.csv", []byte(buildFile(",", header, reversed)))
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	rec := res.Records[0]
	if rec[models.FieldDocument] != "555" {
		t.Errorf("Expected document '555', got %q", rec[models.FieldDocument])
	}
	if rec[models.FieldVotingPostAddress] != "CL 10 # 5-5" {
		t.Errorf("Expected voting post address, got %q", rec[models.FieldVotingPostAddress])
	}
}

func TestProbe_HeaderlessMatchesHeaderPresent(t *testing.T) {
	rows := [][]string{sampleRow("PEDRO", "1", "300"), sampleRow("", "2", "301")}

	withHeader, err := Probe("a.csv", []byte(buildFile(",", models.Fields, rows...)))
	if err != nil {
		t.Fatalf("Probe with header failed: %v", err)
	}
	headerless, err := Probe("b.csv", []byte(buildFile(",", nil, rows...)))
	if err != nil {
		t.Fatalf("Probe without header failed: %v", err)
	}

	if headerless.HasHeader || !headerless.Map.Positional() {
		t.Error("Expected positional mapping for headerless file")
	}
	if len(withHeader.Records) != len(headerless.Records) {
		t.Fatalf("Record count mismatch: %d vs %d", len(withHeader.Records), len(headerless.Records))
	}
	for i := range withHeader.Records {
		for _, f := range models.Fields {
			if withHeader.Records[i][f] != headerless.Records[i][f] {
				t.Errorf("Row %d field %q: %q vs %q", i, f, withHeader.Records[i][f], headerless.Records[i][f])
			}
		}
	}
}

func TestProbe_MissingFieldsExhausts(t *testing.T) {
	header := []string{"LÍDER", "NOMBRES", "APELLIDOS"}
	data := []byte(buildFile(";", header, []string{"A", "B", "C"}))

	_, err := Probe("short.csv", data)
	var exhausted *ParseExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected ParseExhaustedError, got %v", err)
	}
	if len(exhausted.Attempts) != len(Attempts) {
		t.Errorf("Expected %d attempts, got %d", len(Attempts), len(exhausted.Attempts))
	}
	missing := exhausted.Missing()
	if len(missing) != len(models.Fields)-3 {
		t.Errorf("Expected %d missing fields, got %d: %v", len(models.Fields)-3, len(missing), missing)
	}
	if missing[0] != models.FieldDocument {
		t.Errorf("Expected first missing field %q, got %q", models.FieldDocument, missing[0])
	}
	if len(exhausted.Details()) < len(Attempts) {
		t.Errorf("Expected per-attempt details, got %v", exhausted.Details())
	}
}

func TestProbe_TooFewColumnsExhausts(t *testing.T) {
	data := []byte("a,b,c\nd,e,f\n")

	_, err := Probe("few.csv", data)
	var exhausted *ParseExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected ParseExhaustedError, got %v", err)
	}
	last := exhausted.Last()
	if last.Columns != 1 || last.Expected != len(models.Fields) {
		t.Errorf("Expected 1 of %d columns on last attempt, got %d of %d", len(models.Fields), last.Columns, last.Expected)
	}
	if !strings.Contains(err.Error(), "expected 14 columns") {
		t.Errorf("Expected column mismatch in message, got %q", err.Error())
	}
}

func TestProbe_HeaderWithoutDataExhausts(t *testing.T) {
	data := []byte(buildFile(",", models.Fields))

	_, err := Probe("header-only.csv", data)
	var exhausted *ParseExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected ParseExhaustedError, got %v", err)
	}
	if !exhausted.Attempts[0].NoData {
		t.Error("Expected first attempt to fail for lack of data rows")
	}
}

func TestProbe_EmptyFile(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("  \n\n"), []byte("\xEF\xBB\xBF")} {
		if _, err := Probe("empty.csv", data); !errors.Is(err, ErrEmptyFile) {
			t.Errorf("Expected ErrEmptyFile for %q, got %v", data, err)
		}
	}
}

func TestProbe_SkipsBlankLinesAndBOM(t *testing.T) {
	text := "\xEF\xBB\xBF" + buildFile(",", models.Fields) + "\n , , \n" + buildFile(",", nil, sampleRow("X", "9", "1"))

	res, err := Probe("bom.csv", []byte(text))
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if res.Number != 1 {
		t.Errorf("Expected attempt 1, got %d", res.Number)
	}
	if len(res.Records) != 1 {
		t.Errorf("Expected blank lines to be skipped, got %d records", len(res.Records))
	}
}

func TestDecode_RefusesGarblingDecodes(t *testing.T) {
	if _, err := decode([]byte{'L', 0xCD, 'D'}, UTF8); err == nil {
		t.Error("Expected invalid UTF-8 to be refused under UTF-8")
	}
	if _, err := decode([]byte("LÍDER"), Latin1); err == nil {
		t.Error("Expected multi-byte UTF-8 to be refused under Latin-1")
	}
	got, err := decode([]byte("LIDER"), Latin1)
	if err != nil || got != "LIDER" {
		t.Errorf("Expected ASCII to decode under Latin-1, got %q, %v", got, err)
	}
	got, err = decode([]byte{'L', 0xCD, 'D', 'E', 'R'}, Latin1)
	if err != nil || got != "LÍDER" {
		t.Errorf("Expected Latin-1 decode to 'LÍDER', got %q, %v", got, err)
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
		{"single column falls back", "abc\ndef\n", ','},
		{"semicolon is not guessed", "a;b;c\n1;2;3\n", ','},
		{"consistent beats noisy", "a|b|c,d\n1|2|3\n4|5|6\n", '|'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.text); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestProbe_ReportsMostInformativeFailure(t *testing.T) {
	header := make([]string, 0, len(models.Fields)-1)
	for _, f := range models.Fields {
		if f != models.FieldVotingTable {
			header = append(header, f)
		}
	}
	row := sampleRow("JUAN", "1", "300")
	row = append(row[:11:11], row[12:]...)
	data := []byte(buildFile(",", header, row))

	_, err := Probe("sin-mesa.csv", data)
	var exhausted *ParseExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected ParseExhaustedError, got %v", err)
	}

	// only the first attempt finds the header; later ones fail on structure
	if len(exhausted.Last().Missing) != 0 {
		t.Fatalf("Expected last attempt without header, got %v", exhausted.Last().Missing)
	}
	missing := exhausted.Missing()
	if len(missing) != 1 || missing[0] != models.FieldVotingTable {
		t.Errorf("Expected [%s], got %v", models.FieldVotingTable, missing)
	}
	if !strings.Contains(err.Error(), models.FieldVotingTable) {
		t.Errorf("Expected message to name the missing field, got %q", err.Error())
	}
}
