// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roster holds the console's in-memory voter set.

A Roster is created empty and filled by Refresh, which replaces every record
with the newest voters from the store. Each server owns one Roster and
passes it to the handlers that read it.

	r := roster.New(store, roster.DefaultLimit)
	if err := r.Refresh(ctx); err != nil {
		// previous records are kept
	}
	view := r.Filter("Todos", "pérez")

# Edits

Field edits are two-phase. BeginEdit applies the values in memory, the
caller persists them, then finishes the edit:

	e, err := r.BeginEdit(id, map[string]string{models.FieldPhone: "3001234567"})
	if err := store.UpdateVoter(ctx, id, e.Fields()); err != nil {
		e.Rollback()
	} else {
		e.Commit()
	}

# Missing-data worklist

Missing lists records lacking a phone, a residence address or voting
station data. The set of listed rows is captured on first load and kept
until RefreshWorklist, so a row fixed during a session stays in view.
*/
package roster
