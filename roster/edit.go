// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/danielhkuo/voter-roster/models"
)

// Edit is a field update applied to the roster ahead of persistence.
// The caller writes Fields to the store, then calls Commit on success
// or Rollback on failure.
type Edit struct {
	roster   *Roster
	id       string
	fields   map[string]string
	previous map[string]string

	mu     sync.Mutex
	closed bool
}

// BeginEdit applies updates to the record with the given row id and
// returns the pending edit. Only editable fields are accepted; values
// are trimmed, so a whitespace-only value clears the field.
func (r *Roster) BeginEdit(id string, updates map[string]string) (*Edit, error) {
	if len(updates) == 0 {
		return nil, ErrNoChanges
	}
	for field := range updates {
		if !models.IsCanonical(field) {
			return nil, fmt.Errorf("%w: unknown field %q", ErrNotEditable, field)
		}
		if _, ok := models.EditableFields[field]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotEditable, field)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(id)
	if !ok {
		return nil, ErrRecordNotFound
	}

	e := &Edit{
		roster:   r,
		id:       id,
		fields:   make(map[string]string, len(updates)),
		previous: make(map[string]string, len(updates)),
	}
	rec := r.records[i]
	for field, value := range updates {
		value = strings.TrimSpace(value)
		e.fields[field] = value
		e.previous[field] = rec[field]
		rec[field] = value
	}
	return e, nil
}

func (e *Edit) ID() string {
	return e.id
}

// Fields returns the canonical field updates to persist
func (e *Edit) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// Record returns a copy of the edited record as the roster now holds it
func (e *Edit) Record() (models.CanonicalRecord, error) {
	e.roster.mu.RLock()
	defer e.roster.mu.RUnlock()

	i, ok := e.roster.find(e.id)
	if !ok {
		return nil, ErrRecordNotFound
	}
	return e.roster.records[i].Clone(), nil
}

// Commit keeps the applied values
func (e *Edit) Commit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditClosed
	}
	e.closed = true
	return nil
}

// Rollback restores the previous values. Fields changed by a later edit
// are left alone. A record dropped by a refresh is ignored.
func (e *Edit) Rollback() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditClosed
	}
	e.closed = true

	r := e.roster
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(e.id)
	if !ok {
		return nil
	}
	rec := r.records[i]
	for field, prev := range e.previous {
		if rec[field] == e.fields[field] {
			rec[field] = prev
		}
	}
	return nil
}
