// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"sort"
	"strings"

	"github.com/danielhkuo/voter-roster/models"
)

func blank(rec models.CanonicalRecord, field string) bool {
	return strings.TrimSpace(rec[field]) == ""
}

// Stats returns roster-wide totals
func (r *Roster) Stats() models.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := models.Stats{Total: len(r.records)}
	leaders := make(map[string]bool)
	for _, rec := range r.records {
		if name := rec[models.FieldLeader]; name != "" {
			leaders[name] = true
		}
		if blank(rec, models.FieldPhone) {
			s.MissingPhone++
		}
		if blank(rec, models.FieldAddress) {
			s.MissingAddress++
		}
		if blank(rec, models.FieldVotingPost) {
			s.MissingVotingPost++
		}
	}
	s.UniqueLeaders = len(leaders)
	return s
}

// LeaderStats groups voters by leader, biggest first. Voters without a
// leader are grouped under models.UnassignedLeader.
func (r *Roster) LeaderStats() []models.LeaderStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byName := make(map[string]*models.LeaderStats)
	for _, rec := range r.records {
		name := rec[models.FieldLeader]
		if name == "" {
			name = models.UnassignedLeader
		}
		ls, ok := byName[name]
		if !ok {
			ls = &models.LeaderStats{Name: name}
			byName[name] = ls
		}
		ls.VoterCount++
		if !blank(rec, models.FieldPhone) {
			ls.WithPhone++
		}
		if !blank(rec, models.FieldAddress) {
			ls.WithAddress++
		}
		if !blank(rec, models.FieldVotingPost) {
			ls.WithVotingPost++
		}
	}

	out := make([]models.LeaderStats, 0, len(byName))
	for _, ls := range byName {
		out = append(out, *ls)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VoterCount != out[j].VoterCount {
			return out[i].VoterCount > out[j].VoterCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Municipalities counts voters per voting municipality, biggest first.
// Voters without one are not counted.
func (r *Roster) Municipalities() []models.MunicipalityCount {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range r.records {
		if m := rec[models.FieldVotingMunicipality]; m != "" {
			counts[m]++
		}
	}

	out := make([]models.MunicipalityCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, models.MunicipalityCount{Municipality: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Municipality < out[j].Municipality
	})
	return out
}
