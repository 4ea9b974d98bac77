// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"github.com/danielhkuo/voter-roster/models"
)

// Labels for what an incomplete record lacks
const (
	LabelPhone            = "Teléfono"
	LabelAddress          = "Dirección"
	LabelVotingPost       = "Puesto Votación"
	LabelVotingIncomplete = "Datos Votación Inc."
)

// Worklist categories
const (
	CategoryAll        = "all"
	CategoryPhone      = "phone"
	CategoryAddress    = "address"
	CategoryVotingPost = "voting_post"
)

var categoryLabels = map[string][]string{
	CategoryPhone:      {LabelPhone},
	CategoryAddress:    {LabelAddress},
	CategoryVotingPost: {LabelVotingPost, LabelVotingIncomplete},
}

// ValidCategory reports whether c is a known worklist category
func ValidCategory(c string) bool {
	if c == "" || c == CategoryAll {
		return true
	}
	_, ok := categoryLabels[c]
	return ok
}

// MissingLabels lists what a record lacks, empty when it is complete
func MissingLabels(rec models.CanonicalRecord) []string {
	labels := []string{}
	if blank(rec, models.FieldPhone) {
		labels = append(labels, LabelPhone)
	}
	if blank(rec, models.FieldAddress) {
		labels = append(labels, LabelAddress)
	}
	switch {
	case blank(rec, models.FieldVotingPost):
		labels = append(labels, LabelVotingPost)
	case blank(rec, models.FieldVotingPostAddress),
		blank(rec, models.FieldVotingTable),
		blank(rec, models.FieldVotingMunicipality):
		labels = append(labels, LabelVotingIncomplete)
	}
	return labels
}

// MissingFilter narrows the worklist. Zero values mean no filter.
type MissingFilter struct {
	Category string
	Leader   string
	Search   string
}

// Missing returns the worklist. Records incomplete at capture time stay
// listed after they are fixed, with no labels, until RefreshWorklist.
func (r *Roster) Missing(f MissingFilter) []models.IncompleteVoter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.IncompleteVoter{}
	for _, rec := range r.records {
		if !r.worklist[rec.ID()] {
			continue
		}
		labels := MissingLabels(rec)
		if !matchesCategory(labels, f.Category) {
			continue
		}
		if !matchesLeader(rec, f.Leader) || !matchesSearch(rec, f.Search) {
			continue
		}
		out = append(out, models.IncompleteVoter{Record: rec.Clone(), MissingFields: labels})
	}
	return out
}

// RefreshWorklist recaptures the worklist from the current records
func (r *Roster) RefreshWorklist() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captureWorklistLocked()
	return len(r.worklist)
}

func (r *Roster) captureWorklistLocked() {
	r.worklist = make(map[string]bool)
	for _, rec := range r.records {
		if len(MissingLabels(rec)) > 0 {
			r.worklist[rec.ID()] = true
		}
	}
}

// A fixed record (no labels) passes every category
func matchesCategory(labels []string, category string) bool {
	if category == "" || category == CategoryAll || len(labels) == 0 {
		return true
	}
	for _, want := range categoryLabels[category] {
		for _, l := range labels {
			if l == want {
				return true
			}
		}
	}
	return false
}
