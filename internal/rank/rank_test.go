package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, label string) Rating {
	t.Helper()
	r, err := Parse(label)
	require.NoError(t, err)
	return r
}

func TestParse(t *testing.T) {
	tests := []struct {
		label     string
		wantGroup int
		wantTier  int
	}{
		{"Iron1", 0, 10},
		{"Bronze3", 1, 15},
		{"Silver3", 2, 18},
		{"Gold2", 3, 20},
		{"Platinum3", 4, 24},
		{"Diamond1", 5, 25},
		{"Ascendant2", 6, 29},
		{"Immortal3", 7, 33},
		{"Radiant", 8, 34},
		{"  gold2 ", 3, 20},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r := mustParse(t, tt.label)
			assert.Equal(t, tt.wantGroup, r.Group)
			assert.Equal(t, tt.wantTier, r.Tier)
			assert.True(t, r.IsSet())
		})
	}
}

func TestParseUnknown(t *testing.T) {
	for _, label := range []string{"", "Gold4", "Radiant1", "ゴールド2"} {
		_, err := Parse(label)
		assert.ErrorIs(t, err, ErrUnknownRank, "label %q", label)
	}
}

func TestLabelsOrderedByTier(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 25)
	assert.Equal(t, "Iron1", labels[0])
	assert.Equal(t, "Radiant", labels[len(labels)-1])

	prev := mustParse(t, labels[0])
	for _, l := range labels[1:] {
		cur := mustParse(t, l)
		assert.Equal(t, prev.Tier+1, cur.Tier, l)
		assert.GreaterOrEqual(t, cur.Group, prev.Group, l)
		prev = cur
	}
}

func TestClassifyGroupRuleIgnoresTier(t *testing.T) {
	labels := Labels()
	for _, a := range labels {
		for _, b := range labels {
			ra, rb := mustParse(t, a), mustParse(t, b)
			if ra.Group > Cutoff || rb.Group > Cutoff {
				continue
			}
			want := Outside
			if abs(ra.Group-rb.Group) <= 1 {
				want = Within
			}
			assert.Equal(t, want, Classify(ra, rb), "%s vs %s", a, b)
		}
	}
}

func TestClassifyTierRuleAboveCutoff(t *testing.T) {
	labels := Labels()
	for _, a := range labels {
		for _, b := range labels {
			ra, rb := mustParse(t, a), mustParse(t, b)
			if ra.Group <= Cutoff && rb.Group <= Cutoff {
				continue
			}
			want := Outside
			if abs(ra.Tier-rb.Tier) <= 3 {
				want = Within
			}
			assert.Equal(t, want, Classify(ra, rb), "%s vs %s", a, b)
		}
	}
}

func TestClassifyScenarios(t *testing.T) {
	gold2 := mustParse(t, "Gold2")

	assert.Equal(t, Within, Classify(mustParse(t, "Silver3"), gold2))
	assert.Equal(t, Within, Classify(mustParse(t, "Platinum3"), gold2))
	assert.Equal(t, Outside, Classify(mustParse(t, "Bronze3"), gold2))
	// Diamond1 is above the cutoff: tier 25 vs 20.
	assert.Equal(t, Outside, Classify(mustParse(t, "Diamond1"), gold2))
	// Platinum1 (22) vs Diamond1 (25) falls back to the tier rule and passes.
	assert.Equal(t, Within, Classify(mustParse(t, "Platinum1"), mustParse(t, "Diamond1")))
}

func TestClassifyUnsetFailsClosed(t *testing.T) {
	gold2 := mustParse(t, "Gold2")

	assert.Equal(t, Outside, Classify(Rating{}, gold2))
	assert.Equal(t, Outside, Classify(gold2, Rating{}))
	assert.Equal(t, Outside, Classify(Rating{}, Rating{}))
}
