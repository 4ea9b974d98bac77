// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names a text encoding the prober knows how to decode
type Encoding string

const (
	UTF8   Encoding = "UTF-8"
	Latin1 Encoding = "ISO-8859-1"
)

var (
	errNotUTF8    = errors.New("input is not valid UTF-8")
	errLikelyUTF8 = errors.New("input is UTF-8 with non-ASCII text; Latin-1 would garble it")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode converts data to a Go string under enc. A decode that would
// certainly garble the text is refused: invalid UTF-8 under UTF-8, and
// multi-byte UTF-8 under Latin-1. Pure ASCII decodes under both.
func decode(data []byte, enc Encoding) (string, error) {
	switch enc {
	case UTF8:
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", errNotUTF8
		}
		return string(data), nil
	case Latin1:
		if utf8.Valid(data) && !isASCII(data) {
			return "", errLikelyUTF8
		}
		out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", errors.New("unsupported encoding " + string(enc))
	}
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// charsetHint asks the detector for its best guess. Used only to enrich
// error reports; attempt order never depends on it.
func charsetHint(data []byte) string {
	sample := data
	if len(sample) > 2048 {
		sample = sample[:2048]
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil {
		return ""
	}
	return strings.ToUpper(res.Charset)
}
