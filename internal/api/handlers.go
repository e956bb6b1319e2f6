package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/susu3304/partybot/internal/party"
)

// participantView leaves out the Discord user id; the endpoint is public.
type participantView struct {
	Name string `json:"name"`
	Rank string `json:"rank"`
}

type sessionView struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Primary  bool              `json:"primary"`
	State    string            `json:"state"`
	StartAt  *time.Time        `json:"start_at,omitempty"`
	Baseline string            `json:"baseline"`
	Active   []participantView `json:"active"`
	Waitlist []participantView `json:"waitlist"`
}

func toParticipantViews(ps []party.Participant) []participantView {
	out := make([]participantView, 0, len(ps))
	for _, p := range ps {
		out = append(out, participantView{Name: p.Name, Rank: p.Rating.String()})
	}
	return out
}

func toSessionView(s party.Summary) sessionView {
	v := sessionView{
		ID:       s.ID,
		Label:    s.Label,
		Primary:  s.Primary,
		State:    s.State.String(),
		Baseline: s.Baseline.Rating.String(),
		Active:   toParticipantViews(s.Active),
		Waitlist: toParticipantViews(s.Waitlist),
	}
	if !s.StartAt.IsZero() {
		start := s.StartAt
		v.StartAt = &start
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: failed to encode response: %v", err)
	}
}

func (a *API) handleAlive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("I'm alive"))
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sums, err := a.sessions.Summaries(r.Context())
	if err != nil {
		http.Error(w, "failed to load sessions", http.StatusServiceUnavailable)
		return
	}

	views := make([]sessionView, 0, len(sums))
	for _, s := range sums {
		views = append(views, toSessionView(s))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sums, err := a.sessions.Summaries(r.Context())
	if err != nil {
		http.Error(w, "failed to load sessions", http.StatusServiceUnavailable)
		return
	}

	for _, s := range sums {
		if s.ID == id {
			writeJSON(w, http.StatusOK, toSessionView(s))
			return
		}
	}
	http.Error(w, "session not found", http.StatusNotFound)
}
