// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/voter-roster/models"
)

// Attempt is one (encoding, delimiter) combination. A zero Delimiter
// means the delimiter is detected from the text.
type Attempt struct {
	Encoding  Encoding `json:"encoding"`
	Delimiter rune     `json:"delimiter"`
}

func (a Attempt) String() string {
	if a.Delimiter == 0 {
		return string(a.Encoding) + " auto"
	}
	return fmt.Sprintf("%s %q", a.Encoding, a.Delimiter)
}

// Attempts is the fixed probing order
var Attempts = []Attempt{
	{Encoding: UTF8},
	{Encoding: Latin1},
	{Encoding: Latin1, Delimiter: ';'},
	{Encoding: UTF8, Delimiter: ';'},
}

// workbookAttempt labels results read from an .xlsx file
var workbookAttempt = Attempt{Encoding: "XLSX"}

// Result is a successful parse
type Result struct {
	Attempt Attempt
	// Number is the 1-based position of Attempt in the probing order
	Number    int
	Delimiter rune
	Map       HeaderMap
	// HasHeader is false when columns were assigned by position
	HasHeader bool
	Records   []models.CanonicalRecord
}

// Probe parses an uploaded file, trying each attempt in order until one
// resolves every canonical field and yields at least one data row.
// Workbooks (.xlsx) are read directly and reconciled once.
func Probe(fileName string, data []byte) (*Result, error) {
	if len(bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))) == 0 {
		return nil, ErrEmptyFile
	}

	if isWorkbook(fileName, data) {
		return probeWorkbook(data)
	}

	exhausted := &ParseExhaustedError{}
	for i, a := range Attempts {
		res, failure, err := ProbeAttempt(data, a)
		if err != nil {
			return nil, err
		}
		if res != nil {
			res.Number = i + 1
			slog.Info("file parsed",
				"file", fileName,
				"attempt", i+1,
				"encoding", a.Encoding,
				"delimiter", string(res.Delimiter),
				"header", res.HasHeader,
				"records", len(res.Records),
			)
			return res, nil
		}
		slog.Debug("parse attempt rejected", "file", fileName, "attempt", i+1, "reason", failure.Reason())
		exhausted.Attempts = append(exhausted.Attempts, *failure)
	}

	exhausted.Charset = charsetHint(data)
	slog.Warn("file could not be parsed", "file", fileName, "error", exhausted.Error())
	return nil, exhausted
}

// ProbeAttempt runs a single attempt. Exactly one of the result and the
// failure is non-nil unless the parser itself errors.
func ProbeAttempt(data []byte, a Attempt) (*Result, *AttemptFailure, error) {
	text, err := decode(data, a.Encoding)
	if err != nil {
		return nil, &AttemptFailure{Attempt: a, Expected: len(models.Fields), Decoding: err.Error()}, nil
	}

	delim := a.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(text)
	}

	table, err := parseTable(text, delim)
	if err != nil {
		return nil, nil, &FileReadError{Attempt: a.String(), Err: err}
	}

	res, failure := resolve(table, a)
	if res != nil {
		res.Delimiter = delim
	}
	return res, failure, nil
}

// resolve applies header detection, reconciliation and projection to a
// parsed table
func resolve(table RawTable, a Attempt) (*Result, *AttemptFailure) {
	failure := &AttemptFailure{Attempt: a, Expected: len(models.Fields)}
	if len(table) == 0 {
		failure.NoData = true
		return nil, failure
	}

	first := table[0]
	failure.Columns = len(first)

	var (
		m         HeaderMap
		missing   []string
		rows      RawTable
		hasHeader bool
	)
	switch {
	case HasLeaderHeader(first):
		m, missing = Reconcile(first)
		rows = table[1:]
		hasHeader = true
	case len(first) >= len(models.Fields):
		m = PositionalMap()
		rows = table
	default:
		return nil, failure
	}

	if len(missing) > 0 {
		failure.Missing = missing
		return nil, failure
	}
	if len(rows) == 0 {
		failure.NoData = true
		return nil, failure
	}

	return &Result{
		Attempt:   a,
		Map:       m,
		HasHeader: hasHeader,
		Records:   Project(rows, m),
	}, nil
}

func isWorkbook(fileName string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		return true
	}
	// zip local file header
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}
