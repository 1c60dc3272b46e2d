// Package upload stores a batch of files for one project: each file goes to object
// storage, then gets an images row pointing at its public URL.
//
// Files are handled one at a time in input order and the batch stops at the first
// failure. Objects and rows written before that failure stay in place.
package upload

import (
	"context"
	"fmt"

	"github.com/ooo-portfolio/backend/internal/model"
)

// Candidate is one file offered for upload.
type Candidate struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Outcome reports what happened to the candidate at Index.
// Exactly one of Image and Err is set.
type Outcome struct {
	Index int
	Key   string
	Image *model.Image
	Err   error
}

// Succeeded reports whether the candidate was stored and recorded.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// ImageStore records the metadata row for a stored object.
type ImageStore interface {
	Insert(ctx context.Context, image *model.Image) error
}

// State is the lifecycle of one batch.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear as its name in JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names MarshalText produces.
func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{StateIdle, StateRunning, StateCompleted, StateAborted} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown upload state %q", b)
}

// Progress counts candidates that were stored and recorded.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Fraction is Completed/Total in [0,1]. An empty batch is complete.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// ProgressFunc observes progress after each successful candidate.
type ProgressFunc func(Progress)
