// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/ingest"
	"github.com/danielhkuo/voter-roster/models"
)

// State of one import session
type State string

const (
	StateIdle              State = "idle"
	StateFileSelected      State = "file_selected"
	StateProbing           State = "probing"
	StateReconciledPreview State = "reconciled_preview"
	StateParseFailed       State = "parse_failed"
	StateSaving            State = "saving"
	StateSaved             State = "saved"
	StateSaveFailed        State = "save_failed"
)

// PreviewLimit caps how many records a preview shows
const PreviewLimit = 50

var (
	ErrInvalidTransition = errors.New("invalid import state transition")
	ErrSessionNotFound   = errors.New("import session not found")
)

// Session walks one file through
// Idle → FileSelected → Probing → {ReconciledPreview | ParseFailed} → Saving → {Saved | SaveFailed}.
// A new file may be selected from any state except Probing and Saving.
// A failed save may be retried; the parsed records stay intact.
type Session struct {
	mu        sync.Mutex
	id        string
	state     State
	fileName  string
	data      []byte
	result    *ingest.Result
	parseErr  error
	save      *SaveResult
	saveErr   error
	updatedAt time.Time
}

func NewSession() *Session {
	return &Session{id: uuid.NewString(), state: StateIdle, updatedAt: time.Now()}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) transitionErr(to State) error {
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, s.state, to)
}

// Select attaches a file, discarding anything parsed before
func (s *Session) Select(fileName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateProbing || s.state == StateSaving {
		return s.transitionErr(StateFileSelected)
	}
	s.fileName = fileName
	s.data = data
	s.result = nil
	s.parseErr = nil
	s.save = nil
	s.saveErr = nil
	s.state = StateFileSelected
	s.updatedAt = time.Now()
	return nil
}

// Parse probes the selected file. The returned error is the parse error
// (also kept on the session) or a transition error.
func (s *Session) Parse() error {
	s.mu.Lock()
	if s.state != StateFileSelected {
		err := s.transitionErr(StateProbing)
		s.mu.Unlock()
		return err
	}
	s.state = StateProbing
	name, data := s.fileName, s.data
	s.mu.Unlock()

	res, err := ingest.Probe(name, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	if err != nil {
		s.parseErr = err
		s.state = StateParseFailed
		return err
	}
	s.result = res
	// raw bytes are no longer needed
	s.data = nil
	s.state = StateReconciledPreview
	return nil
}

// Save persists the parsed records. Only one save runs at a time.
func (s *Session) Save(ctx context.Context, store db.Store) (*SaveResult, error) {
	s.mu.Lock()
	if s.state != StateReconciledPreview && s.state != StateSaveFailed {
		err := s.transitionErr(StateSaving)
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateSaving
	records := s.result.Records
	s.mu.Unlock()

	res, err := Save(ctx, store, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	if err != nil {
		s.saveErr = err
		s.state = StateSaveFailed
		return nil, err
	}
	s.save = res
	s.saveErr = nil
	s.state = StateSaved
	return res, nil
}

// Snapshot is a consistent read of a session
type Snapshot struct {
	ID        string
	State     State
	FileName  string
	Result    *ingest.Result
	ParseErr  error
	Save      *SaveResult
	SaveErr   error
	UpdatedAt time.Time
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.id,
		State:     s.state,
		FileName:  s.fileName,
		Result:    s.result,
		ParseErr:  s.parseErr,
		Save:      s.save,
		SaveErr:   s.saveErr,
		UpdatedAt: s.updatedAt,
	}
}

// Preview returns up to limit parsed records and whether more exist
func (snap Snapshot) Preview(limit int) ([]models.CanonicalRecord, bool) {
	if snap.Result == nil {
		return nil, false
	}
	records := snap.Result.Records
	if len(records) <= limit {
		return records, false
	}
	return records[:limit], true
}

// Registry holds live import sessions by id
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewRegistry keeps sessions for ttl after their last change
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), ttl: ttl}
}

// Create registers a new idle session, pruning expired ones
func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(time.Now())
	s := NewSession()
	r.sessions[s.id] = s
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) pruneLocked(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for id, s := range r.sessions {
		snap := s.Snapshot()
		if snap.State == StateProbing || snap.State == StateSaving {
			continue
		}
		if now.Sub(snap.UpdatedAt) > r.ttl {
			delete(r.sessions, id)
		}
	}
}
