package party

import "github.com/susu3304/partybot/internal/rank"

// Participant is one roster entry. Arrival order is the position in the
// roster, not a field.
type Participant struct {
	UserID string
	Name   string
	Rating rank.Rating
}

// Roster is an ordered participant list with unique user ids.
// It is not safe for concurrent use; the bot's runner owns every roster.
type Roster struct {
	entries []Participant
}

// Join appends p unless its user is already present. For a user already
// on the roster the name and rating are refreshed in place, keeping the
// original arrival position. It reports whether p was appended.
func (r *Roster) Join(p Participant) bool {
	if idx := r.index(p.UserID); idx >= 0 {
		r.entries[idx] = p
		return false
	}
	r.entries = append(r.entries, p)
	return true
}

// Leave removes the user and reports whether it was present.
func (r *Roster) Leave(userID string) bool {
	idx := r.index(userID)
	if idx < 0 {
		return false
	}
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	return true
}

func (r *Roster) Contains(userID string) bool {
	return r.index(userID) >= 0
}

func (r *Roster) Len() int {
	return len(r.entries)
}

// Participants returns a copy in arrival order.
func (r *Roster) Participants() []Participant {
	out := make([]Participant, len(r.entries))
	copy(out, r.entries)
	return out
}

// Baseline returns the earliest arrival, if any.
func (r *Roster) Baseline() (Participant, bool) {
	if len(r.entries) == 0 {
		return Participant{}, false
	}
	return r.entries[0], true
}

func (r *Roster) index(userID string) int {
	for i, p := range r.entries {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}
