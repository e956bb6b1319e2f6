package party

import "time"

// Summary is a read-only copy of a session, safe to hand to other
// goroutines.
type Summary struct {
	ID       string
	Label    string
	Primary  bool
	StartAt  time.Time
	State    State
	Baseline Participant
	Active   []Participant
	Waitlist []Participant
}

func Summarize(s *Session, capacity int) Summary {
	active, waitlist := Partition(s.Roster.Participants(), capacity)
	base, _ := s.Roster.Baseline()
	return Summary{
		ID:       s.ID,
		Label:    s.Label,
		Primary:  s.Primary,
		StartAt:  s.StartAt,
		State:    s.State(),
		Baseline: base,
		Active:   active,
		Waitlist: waitlist,
	}
}
