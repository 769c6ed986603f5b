// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used as primary keys.

Version 7 values sort by creation time, which keeps B-tree inserts on the
movies primary key append-only.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7.
func New() uuid.UUID {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id
}
