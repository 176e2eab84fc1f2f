package library

import "errors"

var (
	// ErrInvalidID is returned when a paper without an identifier is added.
	ErrInvalidID = errors.New("paper id is empty")
	// ErrInvalidStatus is returned for statuses outside the known set.
	ErrInvalidStatus = errors.New("unknown paper status")
	// ErrCorruptSnapshot wraps decoding failures of persisted library data.
	ErrCorruptSnapshot = errors.New("library snapshot is corrupt")
	// ErrUnsupportedVersion is returned for snapshots written by a newer release.
	ErrUnsupportedVersion = errors.New("unsupported library snapshot version")
)
