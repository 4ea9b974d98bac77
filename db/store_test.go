// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voter-roster/models"
)

// openTestStore creates a private in-memory SQLite store with the schema
func openTestStore(t *testing.T) *SQLStore {
	t.Helper()

	conn, err := Open(TypeSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return NewSQLStore(conn, TypeSQLite)
}

func payload(doc, first, phone string, leaderID *string) models.VoterPayload {
	return models.VoterPayload{
		LeaderID:       leaderID,
		FirstName:      first,
		LastName:       "TEST",
		DocumentNumber: doc,
		Phone:          phone,
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType, got %v", err)
	}
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	s, err := Connect(ctx, TypeSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer s.DB().Close()

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Expected schema to be in place, got %v", err)
	}

	if _, err := Connect(ctx, "oracle", "x"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType, got %v", err)
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	s := openTestStore(t)
	if err := CreateSchema(context.Background(), s.DB()); err != nil {
		t.Errorf("Second CreateSchema failed: %v", err)
	}
}

func TestRebind(t *testing.T) {
	pg := NewSQLStore(nil, TypePostgres)
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("Unexpected postgres rebind: %s", got)
	}
	lite := NewSQLStore(nil, TypeSQLite)
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("Expected sqlite query unchanged, got %s", got)
	}
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	s.DB().Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Expected ping on closed database to fail")
	}
}

func TestUpsertLeader_ConflictReturnsSameID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertLeader(ctx, "CARLOS GÓMEZ")
	if err != nil {
		t.Fatalf("UpsertLeader failed: %v", err)
	}
	second, err := s.UpsertLeader(ctx, "CARLOS GÓMEZ")
	if err != nil {
		t.Fatalf("Second UpsertLeader failed: %v", err)
	}
	if first != second {
		t.Errorf("Expected same id on conflict, got %s and %s", first, second)
	}

	var count int
	s.DB().QueryRow("SELECT COUNT(*) FROM leaders").Scan(&count)
	if count != 1 {
		t.Errorf("Expected 1 leader row, got %d", count)
	}
}

func TestUpsertVoters_ConflictUpdates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	leaderID, _ := s.UpsertLeader(ctx, "LUZ")
	if err := s.UpsertVoters(ctx, []models.VoterPayload{
		payload("123", "ANA", "3000000001", &leaderID),
		payload("456", "BETO", "", nil),
	}); err != nil {
		t.Fatalf("UpsertVoters failed: %v", err)
	}
	if err := s.UpsertVoters(ctx, []models.VoterPayload{payload("123", "ANA", "3000000002", nil)}); err != nil {
		t.Fatalf("Second UpsertVoters failed: %v", err)
	}

	voters, err := s.ListVoters(ctx, VoterQuery{})
	if err != nil {
		t.Fatalf("ListVoters failed: %v", err)
	}
	if len(voters) != 2 {
		t.Fatalf("Expected 2 voters, got %d", len(voters))
	}

	byDoc := map[string]models.Voter{}
	for _, v := range voters {
		byDoc[v.DocumentNumber] = v
	}
	ana := byDoc["123"]
	if ana.Phone == nil || *ana.Phone != "3000000002" {
		t.Errorf("Expected updated phone, got %v", ana.Phone)
	}
	if ana.LeaderID != nil {
		t.Errorf("Expected leader cleared by later upsert, got %v", *ana.LeaderID)
	}
	if byDoc["456"].Phone != nil {
		t.Errorf("Expected empty phone stored as NULL, got %q", *byDoc["456"].Phone)
	}
}

func TestUpsertVoters_AllOrNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	missing := "no-such-leader"
	if _, err := s.DB().Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	err := s.UpsertVoters(ctx, []models.VoterPayload{
		payload("1", "OK", "", nil),
		payload("2", "BAD", "", &missing),
	})
	if err == nil {
		t.Fatal("Expected foreign key violation")
	}

	var count int
	s.DB().QueryRow("SELECT COUNT(*) FROM voters").Scan(&count)
	if count != 0 {
		t.Errorf("Expected no rows after failed batch, got %d", count)
	}
}

func TestUpdateVoter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.UpsertVoters(ctx, []models.VoterPayload{payload("1", "ANA", "", nil)})
	voters, _ := s.ListVoters(ctx, VoterQuery{})
	id := voters[0].ID

	err := s.UpdateVoter(ctx, id, map[string]string{
		models.FieldPhone:       "3111111111",
		models.FieldVotingTable: "12",
	})
	if err != nil {
		t.Fatalf("UpdateVoter failed: %v", err)
	}

	voters, _ = s.ListVoters(ctx, VoterQuery{})
	rec := voters[0].Record()
	if rec[models.FieldPhone] != "3111111111" || rec[models.FieldVotingTable] != "12" {
		t.Errorf("Fields not updated: %v", rec)
	}

	// surrounding whitespace is dropped; whitespace-only clears the field
	err = s.UpdateVoter(ctx, id, map[string]string{
		models.FieldPhone:       " 3222222222 ",
		models.FieldVotingTable: "   ",
	})
	if err != nil {
		t.Fatalf("UpdateVoter failed: %v", err)
	}
	voters, _ = s.ListVoters(ctx, VoterQuery{})
	if voters[0].Phone == nil || *voters[0].Phone != "3222222222" {
		t.Errorf("Expected trimmed phone, got %v", voters[0].Phone)
	}
	if voters[0].VotingTable != nil {
		t.Errorf("Expected NULL voting table, got %q", *voters[0].VotingTable)
	}

	tests := []struct {
		name   string
		id     string
		fields map[string]string
		want   error
	}{
		{"no fields", id, map[string]string{}, ErrNoFields},
		{"identity is fixed", id, map[string]string{models.FieldDocument: "2"}, ErrUnknownField},
		{"unknown row", "missing", map[string]string{models.FieldPhone: "1"}, ErrVoterNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.UpdateVoter(ctx, tt.id, tt.fields); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestListVoters_FiltersAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	luz, _ := s.UpsertLeader(ctx, "LUZ")
	s.UpsertVoters(ctx, []models.VoterPayload{
		payload("100", "Ana", "", &luz),
		payload("200", "Beto", "", nil),
	})
	clock = clock.Add(time.Hour)
	s.UpsertVoters(ctx, []models.VoterPayload{payload("300", "Carla", "", &luz)})

	tests := []struct {
		name string
		q    VoterQuery
		want []string
	}{
		{"all newest first", VoterQuery{}, []string{"300", "100", "200"}},
		{"by leader", VoterQuery{LeaderName: "LUZ"}, []string{"300", "100"}},
		{"search name", VoterQuery{Search: "bet"}, []string{"200"}},
		{"search full name", VoterQuery{Search: "ana test"}, []string{"100"}},
		{"search document", VoterQuery{Search: "30"}, []string{"300"}},
		{"limit", VoterQuery{Limit: 1}, []string{"300"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voters, err := s.ListVoters(ctx, tt.q)
			if err != nil {
				t.Fatalf("ListVoters failed: %v", err)
			}
			if len(voters) != len(tt.want) {
				t.Fatalf("Expected %d voters, got %d", len(tt.want), len(voters))
			}
			for i, doc := range tt.want {
				if voters[i].DocumentNumber != doc {
					t.Errorf("Position %d: expected %s, got %s", i, doc, voters[i].DocumentNumber)
				}
			}
		})
	}

	voters, _ := s.ListVoters(ctx, VoterQuery{LeaderName: "LUZ", Limit: 1})
	if voters[0].LeaderName == nil || *voters[0].LeaderName != "LUZ" {
		t.Errorf("Expected joined leader name, got %v", voters[0].LeaderName)
	}
}
