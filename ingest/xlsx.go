// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

var errNoSheets = errors.New("workbook has no sheets")

// probeWorkbook reads the first sheet of an .xlsx file and reconciles it
// the same way as a delimited file
func probeWorkbook(data []byte) (*Result, error) {
	table, err := readWorkbook(data)
	if err != nil {
		return nil, &FileReadError{Attempt: workbookAttempt.String(), Err: err}
	}

	res, failure := resolve(table, workbookAttempt)
	if res == nil {
		return nil, &ParseExhaustedError{Attempts: []AttemptFailure{*failure}}
	}
	res.Number = 1
	slog.Info("workbook parsed", "header", res.HasHeader, "records", len(res.Records))
	return res, nil
}

func readWorkbook(data []byte) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	var table RawTable
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		table = append(table, row)
	}
	return table, nil
}
