// Package apperr defines the sentinel errors shared across the app.
package apperr

import "errors"

var (
	// ErrAuthentication means the Granola credential was rejected (401).
	// It aborts a sync pass before any document is processed.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNoContent means a document lacks a recognized content field.
	// The document is skipped; the pass continues.
	ErrNoContent = errors.New("no content")

	// ErrFolderConflict means the output path exists but is not a
	// directory. Fatal for the whole pass.
	ErrFolderConflict = errors.New("output path is not a directory")

	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrSyncRunning   = errors.New("sync already running")
)
