package upload

import (
	"errors"
	"fmt"
)

// ErrStopped marks a batch whose consumer stopped iterating before the last candidate.
var ErrStopped = errors.New("upload: iteration stopped by caller")

// ConfigurationError means the batch was rejected before any candidate was touched.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "upload: invalid configuration: " + e.Reason
}

// StorageError is a failed object-storage call for the candidate at Index.
type StorageError struct {
	Index int
	Key   string
	Op    string // "save" or "public_url"
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("upload: storage %s failed for candidate %d (%s): %v", e.Op, e.Index, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError is a failed metadata insert after the object was stored.
// Orphaned reports whether the stored object was left behind without a row.
type PersistenceError struct {
	Index    int
	Key      string
	Orphaned bool
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("upload: recording candidate %d (%s) failed: %v", e.Index, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
