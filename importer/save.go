// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/models"
)

// ConnectivityError means the pre-flight store check failed; nothing was written
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("could not connect to the store: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// BulkUpsertError means the voter batch was rejected as a whole
type BulkUpsertError struct {
	Voters int
	Err    error
}

func (e *BulkUpsertError) Error() string {
	return fmt.Sprintf("saving %d voters failed: %v", e.Voters, e.Err)
}

func (e *BulkUpsertError) Unwrap() error {
	return e.Err
}

// SaveResult summarizes one persisted import
type SaveResult struct {
	LeadersUpserted int
	// FailedLeaders lost their upsert; their voters were saved without a leader
	FailedLeaders []string
	VotersSaved   int
	// DuplicatesDropped counts earlier rows overwritten by a later row
	// with the same identity number
	DuplicatesDropped int
	// MissingDocument counts rows skipped for lacking an identity number
	MissingDocument int
}

// Summary is a short human-readable description of the save
func (r *SaveResult) Summary() string {
	msg := fmt.Sprintf("Saved %s voters and %s leaders",
		humanize.Comma(int64(r.VotersSaved)), humanize.Comma(int64(r.LeadersUpserted)))
	if r.DuplicatesDropped > 0 {
		msg += fmt.Sprintf("; %s duplicate rows replaced by later rows", humanize.Comma(int64(r.DuplicatesDropped)))
	}
	if r.MissingDocument > 0 {
		msg += fmt.Sprintf("; %s rows without identity number skipped", humanize.Comma(int64(r.MissingDocument)))
	}
	return msg
}

// LeaderNames returns the distinct non-empty leader names in order of
// first appearance
func LeaderNames(records []models.CanonicalRecord) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		name := strings.TrimSpace(rec[models.FieldLeader])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// BuildPayloads projects records into upsert payloads. leaderIDs maps
// leader name to stored id; names without an id get no leader.
func BuildPayloads(records []models.CanonicalRecord, leaderIDs map[string]string) []models.VoterPayload {
	out := make([]models.VoterPayload, 0, len(records))
	for _, rec := range records {
		p := models.VoterPayload{
			FirstName:          rec[models.FieldFirstName],
			LastName:           rec[models.FieldLastName],
			DocumentNumber:     strings.TrimSpace(rec[models.FieldDocument]),
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
		if id, ok := leaderIDs[strings.TrimSpace(rec[models.FieldLeader])]; ok {
			leaderID := id
			p.LeaderID = &leaderID
		}
		out = append(out, p)
	}
	return out
}

// Dedupe collapses payloads by identity number. A later payload replaces
// an earlier one but keeps the earlier one's position. Payloads without
// an identity number are dropped.
func Dedupe(payloads []models.VoterPayload) (unique []models.VoterPayload, duplicates, missingDocument int) {
	position := make(map[string]int)
	for _, p := range payloads {
		if p.DocumentNumber == "" {
			missingDocument++
			continue
		}
		if i, ok := position[p.DocumentNumber]; ok {
			unique[i] = p
			duplicates++
			continue
		}
		position[p.DocumentNumber] = len(unique)
		unique = append(unique, p)
	}
	return unique, duplicates, missingDocument
}

// Save persists one import: a connectivity check, one upsert per distinct
// leader, then one all-or-nothing upsert of the deduplicated voters.
// A failed leader upsert only drops that leader's association.
func Save(ctx context.Context, store db.Store, records []models.CanonicalRecord) (*SaveResult, error) {
	if err := store.Ping(ctx); err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	result := &SaveResult{}
	leaderIDs := make(map[string]string)
	for _, name := range LeaderNames(records) {
		id, err := store.UpsertLeader(ctx, name)
		if err != nil {
			slog.Warn("leader upsert failed, voters saved without leader", "leader", name, "error", err)
			result.FailedLeaders = append(result.FailedLeaders, name)
			continue
		}
		leaderIDs[name] = id
		result.LeadersUpserted++
	}

	unique, duplicates, missing := Dedupe(BuildPayloads(records, leaderIDs))
	result.DuplicatesDropped = duplicates
	result.MissingDocument = missing
	if duplicates > 0 {
		slog.Warn("duplicate identity numbers in import, later rows kept", "duplicates", duplicates)
	}

	if err := store.UpsertVoters(ctx, unique); err != nil {
		return nil, &BulkUpsertError{Voters: len(unique), Err: err}
	}
	result.VotersSaved = len(unique)

	slog.Info("import saved",
		"voters", result.VotersSaved,
		"leaders", result.LeadersUpserted,
		"failed_leaders", len(result.FailedLeaders),
		"duplicates", duplicates,
		"missing_document", missing,
	)
	return result, nil
}
