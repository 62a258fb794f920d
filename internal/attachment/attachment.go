// Package attachment implements the attachment lifecycle: intake of
// uploaded data, staging in temporary files, constraint validation and
// persistence to a storage backend. One Attachment instance belongs to a
// single request context; nothing here is safe for concurrent use.
package attachment

import (
	"errors"
	"os"
)

// State is the lifecycle position of an attachment record.
type State int

const (
	StateUnmodified State = iota
	StateStaged
	StateValidated
	StatePersisted
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateUnmodified:
		return "unmodified"
	case StateStaged:
		return "staged"
	case StateValidated:
		return "validated"
	case StatePersisted:
		return "persisted"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Attachment is the in-memory attachment record. Assigning an upload stages
// bytes into temp files; Save moves the current staged version into the
// backend and clears the staged list.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string

	state State

	// staged holds temp file paths, most recent first. The first element
	// is the current version of the data.
	staged []string

	// keyID pins the storage key namespace for this record across saves.
	keyID string
}

// State reports the current lifecycle state.
func (a *Attachment) State() State { return a.state }

// StagedPath returns the temp file holding the current version of the
// data, or "" when nothing is staged.
func (a *Attachment) StagedPath() string {
	if len(a.staged) == 0 {
		return ""
	}
	return a.staged[0]
}

// HasStagedData reports whether unsaved bytes are pending.
func (a *Attachment) HasStagedData() bool { return len(a.staged) > 0 }

func (a *Attachment) stage(path string) {
	a.staged = append([]string{path}, a.staged...)
}

// clearStaged removes every staged temp file. Removal errors are joined so
// one stubborn file does not leak the rest.
func (a *Attachment) clearStaged() error {
	var errs []error
	for _, p := range a.staged {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	a.staged = nil
	return errors.Join(errs...)
}

// Discard drops all staged data without persisting it. Safe to call on an
// instance that is being abandoned.
func (a *Attachment) Discard() error {
	err := a.clearStaged()
	if a.state == StateStaged || a.state == StateValidated {
		if a.StorageKey != "" {
			a.state = StatePersisted
		} else {
			a.state = StateUnmodified
		}
	}
	return err
}
