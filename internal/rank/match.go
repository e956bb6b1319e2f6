package rank

// Match is the outcome of Classify.
type Match int

const (
	Outside Match = iota
	Within
)

func (m Match) String() string {
	if m == Within {
		return "within"
	}
	return "outside"
}

// Classify decides whether candidate may play alongside baseline.
//
// Two players at or below Cutoff match when their groups are at most one
// apart, whatever their divisions. Once either side is above Cutoff the
// tiers must be at most three apart. Unset ratings never match.
func Classify(candidate, baseline Rating) Match {
	if !candidate.IsSet() || !baseline.IsSet() {
		return Outside
	}
	if candidate.Group <= Cutoff && baseline.Group <= Cutoff {
		if abs(candidate.Group-baseline.Group) <= maxGroupDistance {
			return Within
		}
		return Outside
	}
	if abs(candidate.Tier-baseline.Tier) <= maxTierDistance {
		return Within
	}
	return Outside
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
