package dialogue

import (
	"context"
	"time"
)

// Step is a position in the dialogue.
type Step string

// Dialogue steps.
const (
	// StepStart waits for the graph description.
	StepStart Step = "start"

	// StepAwaitDirection holds the graph description and waits for the
	// answer to "is the graph directed?".
	StepAwaitDirection Step = "await_direction"
)

// State is the dialogue state of one session.
type State struct {
	Step      Step      `json:"step" bson:"step"`
	Text      string    `json:"text,omitempty" bson:"text,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// StartState returns the initial state.
func StartState() State {
	return State{Step: StepStart}
}

// expired reports whether s was last updated more than ttl ago.
// A zero ttl never expires.
func (s State) expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && !s.UpdatedAt.IsZero() && now.Sub(s.UpdatedAt) > ttl
}

// normalize maps the zero Step to StepStart.
func (s State) normalize() State {
	if s.Step == "" {
		s.Step = StepStart
	}
	return s
}

// Store keeps dialogue state per session.
//
// Get returns StartState for unknown or expired sessions rather than an
// error, so callers never distinguish "new" from "forgotten" sessions.
type Store interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Set(ctx context.Context, sessionID string, state State) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// DefaultTTL is how long an unfinished dialogue is remembered.
const DefaultTTL = 24 * time.Hour
