// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the canonical voter schema and the API's request,
response, and domain types.

# Canonical Schema

Fields lists the fourteen canonical columns in their fixed order. The order
is the positional layout for headerless files and the column order of CSV
exports. EditableFields maps the fields that may change after import to
their store columns; leader, names and identity number are fixed.

A CanonicalRecord maps every canonical field to a value, plus the store row
id under RowIDKey once persisted:

	rec := models.NewRecord()
	rec[models.FieldDocument] = "1001"

# Domain Types

  - Leader: a person responsible for a group of voters
  - Voter: a stored voter row; Record converts it to a CanonicalRecord
  - VoterPayload: one voter ready for the bulk upsert

# Response Types

  - ImportResponse, SaveResponse: import session progress
  - VoterListResponse, UpdateVoterResponse, RefreshResponse: roster
  - Stats, LeaderStats, MunicipalityCount: statistics
  - MissingResponse, IncompleteVoter: missing-data worklist
  - ErrorResponse: error, message, details
*/
package models
