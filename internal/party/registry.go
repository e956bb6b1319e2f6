package party

import (
	"errors"
	"fmt"
)

// ErrRegistryFull is returned by Reserve when every slot is taken.
var ErrRegistryFull = errors.New("party registry is full")

// Labels names sessions in creation order.
var Labels = []string{"パーティA", "パーティB", "パーティC"}

// Reservation is a registry slot held while the session's message is being
// posted. It becomes a Session on Commit.
type Reservation struct {
	Label   string
	Primary bool
	cycle   int
}

// Registry owns the live sessions of the current cycle. It is bounded by
// max, counting reservations that have not been committed yet. Like Roster
// it is owned by a single goroutine.
type Registry struct {
	max      int
	order    []string
	sessions map[string]*Session
	held     map[string]struct{}
	cycle    int
}

func NewRegistry(max int) *Registry {
	if max <= 0 || max > len(Labels) {
		max = len(Labels)
	}
	return &Registry{
		max:      max,
		sessions: make(map[string]*Session),
		held:     make(map[string]struct{}),
	}
}

func (r *Registry) Max() int {
	return r.max
}

// Reset drops every session and outstanding reservation. Reservations
// taken before the reset can no longer be committed.
func (r *Registry) Reset() {
	r.order = nil
	r.sessions = make(map[string]*Session)
	r.held = make(map[string]struct{})
	r.cycle++
}

// Reserve takes the first free label. The first label is the primary
// session.
func (r *Registry) Reserve() (Reservation, error) {
	if !r.HasRoom() {
		return Reservation{}, ErrRegistryFull
	}
	for i, label := range Labels {
		if r.inUse(label) {
			continue
		}
		r.held[label] = struct{}{}
		return Reservation{Label: label, Primary: i == 0, cycle: r.cycle}, nil
	}
	return Reservation{}, ErrRegistryFull
}

// Release gives back a reservation whose message could not be posted.
// Its label is handed out again by the next Reserve.
func (r *Registry) Release(res Reservation) {
	if res.cycle != r.cycle {
		return
	}
	delete(r.held, res.Label)
}

// Commit turns a reservation into a live session keyed by the posted
// message id.
func (r *Registry) Commit(res Reservation, s *Session) error {
	if res.cycle != r.cycle {
		return fmt.Errorf("reservation %s belongs to a previous cycle", res.Label)
	}
	if _, ok := r.held[res.Label]; !ok {
		return fmt.Errorf("reservation %s is not held", res.Label)
	}
	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("session %s already registered", s.ID)
	}
	delete(r.held, res.Label)
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *Registry) inUse(label string) bool {
	if _, ok := r.held[label]; ok {
		return true
	}
	for _, s := range r.sessions {
		if s.Label == label {
			return true
		}
	}
	return false
}

func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// Primary returns the cycle's primary session if it is live.
func (r *Registry) Primary() (*Session, bool) {
	for _, id := range r.order {
		if s := r.sessions[id]; s.Primary {
			return s, true
		}
	}
	return nil, false
}

// Sessions returns live sessions in creation order.
func (r *Registry) Sessions() []*Session {
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.sessions)
}

// HasRoom reports whether another session could be reserved.
func (r *Registry) HasRoom() bool {
	return len(r.sessions)+len(r.held) < r.max
}
