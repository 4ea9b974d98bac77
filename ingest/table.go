// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"encoding/csv"
	"io"
	"strings"
)

// Delimiters considered by DetectDelimiter. Semicolon files are covered
// by their own explicit attempts.
var guessableDelimiters = []rune{',', '\t', '|'}

// sniffLines is how many non-empty lines DetectDelimiter looks at
const sniffLines = 10

// DetectDelimiter guesses the field delimiter of text. It picks the
// candidate whose field counts vary least across the first lines while
// still splitting them into more than one field, preferring more fields
// on ties. Falls back to comma.
func DetectDelimiter(text string) rune {
	sample := firstLines(text, sniffLines)

	best := ','
	bestDelta := -1
	bestAvg := 0.0
	for _, delim := range guessableDelimiters {
		counts, err := fieldCounts(sample, delim)
		if err != nil || len(counts) == 0 {
			continue
		}

		total, delta := 0, 0
		for i, c := range counts {
			total += c
			if i > 0 {
				d := c - counts[i-1]
				if d < 0 {
					d = -d
				}
				delta += d
			}
		}
		avg := float64(total) / float64(len(counts))
		if avg < 2 {
			continue
		}

		if bestDelta == -1 || delta < bestDelta || (delta == bestDelta && avg > bestAvg) {
			best, bestDelta, bestAvg = delim, delta, avg
		}
	}
	return best
}

func firstLines(text string, n int) string {
	var b strings.Builder
	kept := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		kept++
		if kept == n {
			break
		}
	}
	return b.String()
}

func fieldCounts(sample string, delim rune) ([]int, error) {
	rows, err := parseTable(sample, delim)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(rows))
	for i, row := range rows {
		counts[i] = len(row)
	}
	return counts, nil
}

// parseTable splits text into rows of cells, skipping rows whose cells
// are all blank. Rows may have differing lengths.
func parseTable(text string, delim rune) (RawTable, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows RawTable
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blankRow(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
