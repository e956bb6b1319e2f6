package guard

import "time"

// DefaultWindow is how long a second press by the same user is ignored.
const DefaultWindow = 800 * time.Millisecond

// Guard drops repeated presses from one user on one session that arrive
// within the window of the last accepted press. It keeps only the last
// accepted timestamp per pair and is not safe for concurrent use.
type Guard struct {
	window time.Duration
	last   map[string]map[string]time.Time
}

func New(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{
		window: window,
		last:   make(map[string]map[string]time.Time),
	}
}

// Allow reports whether the press should be processed and, if so,
// remembers it.
func (g *Guard) Allow(sessionID, userID string, now time.Time) bool {
	users, ok := g.last[sessionID]
	if !ok {
		users = make(map[string]time.Time)
		g.last[sessionID] = users
	}
	if prev, seen := users[userID]; seen && now.Sub(prev) < g.window {
		return false
	}
	users[userID] = now
	return true
}

// Forget drops everything remembered for sessionID.
func (g *Guard) Forget(sessionID string) {
	delete(g.last, sessionID)
}
