package party

import "github.com/susu3304/partybot/internal/rank"

// DefaultCapacity is the size of the active slot.
const DefaultCapacity = 5

// Partition splits participants (in arrival order) into the active slot
// and the waitlist.
//
// A roster of capacity or more is a full party: matching is waived and the
// first capacity arrivals are active. Below that, the first arrival is the
// baseline and everyone else is active only when their rating is within
// range of the baseline's. Both lists keep arrival order.
func Partition(participants []Participant, capacity int) (active, waitlist []Participant) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(participants) == 0 {
		return nil, nil
	}

	if len(participants) >= capacity {
		active = append(active, participants[:capacity]...)
		waitlist = append(waitlist, participants[capacity:]...)
		return active, waitlist
	}

	baseline := participants[0]
	active = append(active, baseline)
	for _, p := range participants[1:] {
		if len(active) < capacity && rank.Classify(p.Rating, baseline.Rating) == rank.Within {
			active = append(active, p)
			continue
		}
		waitlist = append(waitlist, p)
	}
	return active, waitlist
}
