package party

import (
	"errors"
	"time"
)

// ErrNoOpenCycle is returned when a primary session would be created
// outside the window between the post time and the start time.
var ErrNoOpenCycle = errors.New("no party cycle is open")

// State is the lifecycle position of a session.
type State int

const (
	StateCreated State = iota
	StateFilling
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateFilling:
		return "filling"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Session is one posted party. ID is the id of the rendered message.
type Session struct {
	ID      string
	Label   string
	Primary bool
	// StartAt is set on the primary session only.
	StartAt time.Time
	Roster  Roster

	notified map[string]struct{}
	locked   bool
}

func NewSession(id, label string, primary bool, startAt time.Time) *Session {
	s := &Session{
		ID:       id,
		Label:    label,
		Primary:  primary,
		notified: make(map[string]struct{}),
	}
	if primary {
		s.StartAt = startAt
	}
	return s
}

func (s *Session) State() State {
	switch {
	case s.locked:
		return StateLocked
	case s.Roster.Len() == 0:
		return StateCreated
	default:
		return StateFilling
	}
}

func (s *Session) Locked() bool {
	return s.locked
}

// Started reports whether the primary session's start time has passed.
// Non-primary sessions never start.
func (s *Session) Started(now time.Time) bool {
	return s.Primary && !s.StartAt.IsZero() && !now.Before(s.StartAt)
}

// Observe records the size of the latest active slot and reports whether
// this observation locked the session. Only the primary session locks, and
// only the first time active reaches capacity; later observations, however
// the roster moves, return false.
func (s *Session) Observe(active, capacity int) bool {
	if !s.Primary || s.locked || active < capacity {
		return false
	}
	s.locked = true
	return true
}

// Unnotified returns roster members that have not been reminded yet.
func (s *Session) Unnotified() []Participant {
	var out []Participant
	for _, p := range s.Roster.Participants() {
		if _, ok := s.notified[p.UserID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) MarkNotified(userIDs ...string) {
	for _, id := range userIDs {
		s.notified[id] = struct{}{}
	}
}
