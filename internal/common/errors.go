// Package common defines sentinel errors shared by the store, the remote
// client and the sync engine. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound          = errors.New("not found")
	ErrServerIDImmutable = errors.New("server id already assigned")

	// ErrLocalReadCorrupt marks a persisted collection that could not be
	// decoded. The store logs it and serves an empty collection.
	ErrLocalReadCorrupt = errors.New("local data corrupt")

	// ErrFileUnreadable marks a staged video that is missing or unreadable.
	ErrFileUnreadable = errors.New("staged file unreadable")

	// Remote errors.
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRemoteRejected     = errors.New("remote rejected request")
)
