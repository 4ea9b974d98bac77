// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/models"
)

// DefaultLimit caps how many voters a refresh loads, newest first
const DefaultLimit = 2000

// AllLeaders selects every leader in the consolidated view
const AllLeaders = "Todos"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNotEditable    = errors.New("field is not editable")
	ErrNoChanges      = errors.New("no fields to update")
	ErrEditClosed     = errors.New("edit already committed or rolled back")
)

// Roster is the in-memory voter set served to the console. It starts
// empty and is replaced wholesale by each Refresh.
type Roster struct {
	mu      sync.RWMutex
	store   db.Store
	limit   int
	loaded  bool
	records []models.CanonicalRecord
	// row ids shown on the missing-data worklist, nil until first load
	worklist map[string]bool
	loadedAt time.Time
}

func New(store db.Store, limit int) *Roster {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Roster{store: store, limit: limit}
}

// Refresh replaces all records with the newest voters from the store.
// On error the previous records are kept.
func (r *Roster) Refresh(ctx context.Context) error {
	voters, err := r.store.ListVoters(ctx, db.VoterQuery{Limit: r.limit})
	if err != nil {
		return fmt.Errorf("refresh roster: %w", err)
	}

	records := make([]models.CanonicalRecord, len(voters))
	for i, v := range voters {
		records[i] = v.Record()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
	r.loaded = true
	r.loadedAt = time.Now()
	if r.worklist == nil {
		r.captureWorklistLocked()
	}

	slog.Info("roster refreshed", "records", len(records), "limit", r.limit)
	return nil
}

// Loaded reports whether a refresh has completed
func (r *Roster) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *Roster) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Records returns copies of every record in store order
func (r *Roster) Records() []models.CanonicalRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.records)
}

// Leaders returns the distinct non-empty leader names, sorted
func (r *Roster) Leaders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	leaders := []string{}
	for _, rec := range r.records {
		name := rec[models.FieldLeader]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		leaders = append(leaders, name)
	}
	sort.Strings(leaders)
	return leaders
}

// Filter returns the consolidated view. An empty leader or AllLeaders
// matches everyone; search matches names case-insensitively or a
// substring of the identity number.
func (r *Roster) Filter(leader, search string) []models.CanonicalRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.CanonicalRecord{}
	for _, rec := range r.records {
		if matchesLeader(rec, leader) && matchesSearch(rec, search) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (r *Roster) find(id string) (int, bool) {
	for i, rec := range r.records {
		if rec.ID() == id {
			return i, true
		}
	}
	return -1, false
}

func matchesLeader(rec models.CanonicalRecord, leader string) bool {
	leader = strings.TrimSpace(leader)
	return leader == "" || leader == AllLeaders || rec[models.FieldLeader] == leader
}

func matchesSearch(rec models.CanonicalRecord, search string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	name := strings.ToLower(rec[models.FieldFirstName] + " " + rec[models.FieldLastName])
	return strings.Contains(name, term) || strings.Contains(rec[models.FieldDocument], term)
}

func cloneAll(records []models.CanonicalRecord) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}
