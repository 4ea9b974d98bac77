// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voter-roster/cliparse"
	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/models"
)

// SetupTestStore opens a private in-memory database with the full schema.
// The connection is closed when the test ends.
func SetupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db.NewSQLStore(conn, db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: db.TypeSQLite,
		RateLimit:    100,
		RateWindow:   time.Minute,
		RosterLimit:  cliparse.DefaultRosterLimit,
	}
}

// TestRecord returns a record with every worklist field filled in
func TestRecord(leader, first, last, doc string) models.CanonicalRecord {
	rec := models.NewRecord()
	rec[models.FieldLeader] = leader
	rec[models.FieldFirstName] = first
	rec[models.FieldLastName] = last
	rec[models.FieldDocument] = doc
	rec[models.FieldPhone] = "3000000000"
	rec[models.FieldAddress] = "Calle 10 # 20-30"
	rec[models.FieldNeighborhood] = "Centro"
	rec[models.FieldMunicipality] = "Medellín"
	rec[models.FieldDepartment] = "Antioquia"
	rec[models.FieldVotingPost] = "Escuela Central"
	rec[models.FieldVotingPostAddress] = "Carrera 50 # 40-10"
	rec[models.FieldVotingTable] = "12"
	rec[models.FieldVotingDepartment] = "Antioquia"
	rec[models.FieldVotingMunicipality] = "Medellín"
	return rec
}

// SeedVoters writes records to the store, creating their leaders
func SeedVoters(t *testing.T, store db.Store, records ...models.CanonicalRecord) {
	t.Helper()
	ctx := context.Background()

	leaderIDs := make(map[string]string)
	payloads := make([]models.VoterPayload, 0, len(records))
	for _, rec := range records {
		p := models.VoterPayload{
			FirstName:          rec[models.FieldFirstName],
			LastName:           rec[models.FieldLastName],
			DocumentNumber:     rec[models.FieldDocument],
			Phone:              rec[models.FieldPhone],
			Address:            rec[models.FieldAddress],
			Neighborhood:       rec[models.FieldNeighborhood],
			Municipality:       rec[models.FieldMunicipality],
			Department:         rec[models.FieldDepartment],
			VotingPost:         rec[models.FieldVotingPost],
			VotingPostAddress:  rec[models.FieldVotingPostAddress],
			VotingTable:        rec[models.FieldVotingTable],
			VotingDepartment:   rec[models.FieldVotingDepartment],
			VotingMunicipality: rec[models.FieldVotingMunicipality],
		}
		if name := rec[models.FieldLeader]; name != "" {
			id, ok := leaderIDs[name]
			if !ok {
				var err error
				id, err = store.UpsertLeader(ctx, name)
				if err != nil {
					t.Fatalf("Failed to create test leader: %v", err)
				}
				leaderIDs[name] = id
			}
			p.LeaderID = &id
		}
		payloads = append(payloads, p)
	}

	if err := store.UpsertVoters(ctx, payloads); err != nil {
		t.Fatalf("Failed to create test voters: %v", err)
	}
}

// CSVFile renders a header row and data rows joined by delim
func CSVFile(delim string, header []string, rows ...[]string) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(header, delim) + "\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, delim) + "\n")
	}
	return []byte(b.String())
}

// CSVRow orders a record's values by the canonical fields
func CSVRow(rec models.CanonicalRecord) []string {
	row := make([]string, len(models.Fields))
	for i, f := range models.Fields {
		row[i] = rec[f]
	}
	return row
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeUploadRequest creates a multipart request carrying data as the
// "file" field plus any extra form values
func MakeUploadRequest(t *testing.T, path, fileName string, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
