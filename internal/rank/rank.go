package rank

import (
	"errors"
	"fmt"
	"strings"
)

// Cutoff is the group (Platinum) up to which two players match by group
// distance alone. Above it the tier distance decides.
const Cutoff = 4

const (
	maxGroupDistance = 1
	maxTierDistance  = 3
)

// ErrUnknownRank is returned by Parse for labels outside the rank table.
var ErrUnknownRank = errors.New("unknown rank")

// Rating is a canonical rank: the label shown to users plus its coarse
// group (0 Iron .. 8 Radiant) and fine tier (10 Iron1 .. 34 Radiant).
// The zero value means "not set".
type Rating struct {
	Label string
	Group int
	Tier  int
}

// IsSet reports whether r came out of Parse.
func (r Rating) IsSet() bool {
	return r.Label != ""
}

func (r Rating) String() string {
	if !r.IsSet() {
		return "未設定"
	}
	return r.Label
}

type entry struct {
	label string
	group int
	tier  int
}

var table = buildTable()

func buildTable() []entry {
	groups := []string{"Iron", "Bronze", "Silver", "Gold", "Platinum", "Diamond", "Ascendant", "Immortal"}
	out := make([]entry, 0, len(groups)*3+1)
	tier := 10
	for g, name := range groups {
		for div := 1; div <= 3; div++ {
			out = append(out, entry{label: fmt.Sprintf("%s%d", name, div), group: g, tier: tier})
			tier++
		}
	}
	return append(out, entry{label: "Radiant", group: len(groups), tier: tier})
}

// Labels returns every rank label from lowest to highest.
func Labels() []string {
	labels := make([]string, len(table))
	for i, e := range table {
		labels[i] = e.label
	}
	return labels
}

// Parse canonicalises a rank label. Matching is case-insensitive and
// ignores surrounding spaces.
func Parse(label string) (Rating, error) {
	s := strings.TrimSpace(label)
	for _, e := range table {
		if strings.EqualFold(e.label, s) {
			return Rating{Label: e.label, Group: e.group, Tier: e.tier}, nil
		}
	}
	return Rating{}, fmt.Errorf("%w: %q", ErrUnknownRank, label)
}
