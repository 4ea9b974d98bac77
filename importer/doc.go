// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package importer turns a probed file into stored leaders and voters.

# Save

Save runs three steps against a db.Store:

 1. Ping. Failure returns *ConnectivityError and writes nothing.
 2. One UpsertLeader per distinct leader name. A failure is logged and the
    leader's voters are saved without a leader.
 3. One UpsertVoters call with the batch deduplicated by identity number.
    Failure returns *BulkUpsertError; the batch is all-or-nothing.

Deduplication keeps the last row for an identity number at the position of
the first. Rows without an identity number are skipped. Both counts are
reported on SaveResult.

# Sessions

A Session holds one file from selection to save:

	s := registry.Create()
	s.Select(name, data)
	if err := s.Parse(); err != nil {
		// *ingest.ParseExhaustedError, *ingest.FileReadError, ingest.ErrEmptyFile
	}
	res, err := s.Save(ctx, store)

Sessions live in a Registry keyed by id and expire after a period of
inactivity.
*/
package importer
