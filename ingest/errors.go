// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyFile = errors.New("file is empty")
)

// AttemptFailure records why one (encoding, delimiter) attempt was rejected
type AttemptFailure struct {
	Attempt  Attempt  `json:"attempt"`
	Missing  []string `json:"missing,omitempty"`
	Columns  int      `json:"columns"`
	Expected int      `json:"expected"`
	NoData   bool     `json:"no_data,omitempty"`
	Decoding string   `json:"decoding,omitempty"`
}

// Reason returns a one-line human-readable explanation
func (f AttemptFailure) Reason() string {
	switch {
	case f.Decoding != "":
		return f.Decoding
	case len(f.Missing) > 0:
		return "missing fields: " + strings.Join(f.Missing, ", ")
	case f.NoData:
		return "header found but no data rows"
	default:
		return fmt.Sprintf("unknown structure: expected %d columns, found %d", f.Expected, f.Columns)
	}
}

// ParseExhaustedError is returned when no attempt located the canonical schema
type ParseExhaustedError struct {
	Attempts []AttemptFailure
	// Charset is the detector's best guess for the input, empty when unknown
	Charset string
}

func (e *ParseExhaustedError) Error() string {
	best := e.Best()
	if best == nil {
		return "could not read file: no parse attempts were made"
	}
	return fmt.Sprintf("could not read file after %d attempts: %s", len(e.Attempts), best.Reason())
}

// Last returns the final attempt's failure
func (e *ParseExhaustedError) Last() *AttemptFailure {
	if len(e.Attempts) == 0 {
		return nil
	}
	return &e.Attempts[len(e.Attempts)-1]
}

// Best returns the most informative failure: the latest attempt that found
// a header but missed fields, otherwise the final attempt
func (e *ParseExhaustedError) Best() *AttemptFailure {
	for i := len(e.Attempts) - 1; i >= 0; i-- {
		if len(e.Attempts[i].Missing) > 0 {
			return &e.Attempts[i]
		}
	}
	return e.Last()
}

// Missing returns the fields that could not be located
func (e *ParseExhaustedError) Missing() []string {
	if best := e.Best(); best != nil {
		return best.Missing
	}
	return nil
}

// Details lists every attempt's outcome, in attempt order
func (e *ParseExhaustedError) Details() []string {
	out := make([]string, 0, len(e.Attempts)+1)
	for i, a := range e.Attempts {
		out = append(out, fmt.Sprintf("attempt %d (%s): %s", i+1, a.Attempt, a.Reason()))
	}
	if e.Charset != "" {
		out = append(out, "detected charset: "+e.Charset)
	}
	return out
}

// FileReadError wraps a failure of the underlying parser
type FileReadError struct {
	Attempt string
	Err     error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read error during %s: %v", e.Attempt, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
