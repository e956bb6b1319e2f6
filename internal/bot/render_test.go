package bot

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/partybot/internal/party"
	"github.com/susu3304/partybot/internal/rank"
)

func participant(t *testing.T, id, label string) party.Participant {
	t.Helper()
	r, err := rank.Parse(label)
	require.NoError(t, err)
	return party.Participant{UserID: id, Name: id, Rating: r}
}

func TestRenderEmbed(t *testing.T) {
	a := participant(t, "alice", "Gold1")
	b := participant(t, "bob", "Gold3")
	c := participant(t, "carol", "Radiant")
	s := party.Summary{
		Label:    "パーティA",
		Primary:  true,
		State:    party.StateFilling,
		Baseline: a,
		Active:   []party.Participant{a, b},
		Waitlist: []party.Participant{c},
	}

	e := renderEmbed(s, 5, "21:00")
	assert.Equal(t, "🎮 VALORANT パーティA", e.Title)
	assert.Equal(t, embedColor, e.Color)

	lines := strings.Split(e.Description, "\n")
	assert.Equal(t, "🕒 開始時刻：21:00", lines[0])
	assert.Contains(t, e.Description, "基準ランク：Gold1")
	assert.Contains(t, e.Description, "- 参加者1：alice（Gold1）\n- 参加者2：bob（Gold3）")
	assert.Contains(t, e.Description, "（条件外または6人目以降）**\n- 参加者1：carol（Radiant）")
}

func TestRenderEmbedLockedSecondary(t *testing.T) {
	e := renderEmbed(party.Summary{Label: "パーティB", State: party.StateLocked}, 5, "21:00")
	assert.Equal(t, "🎮 VALORANT パーティB 🔒 募集終了", e.Title)
	assert.NotContains(t, e.Description, "開始時刻")
	assert.Contains(t, e.Description, "基準ランク：未設定")
	assert.Equal(t, 2, strings.Count(e.Description, emptyList))
}

func TestPartyButtons(t *testing.T) {
	rows := partyButtons("42")
	require.Len(t, rows, 1)
	row := rows[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	assert.Equal(t, "party:join:42", row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, "party:cancel:42", row.Components[1].(discordgo.Button).CustomID)
}

func TestPersonalJoinViewListsEveryRank(t *testing.T) {
	rows := personalJoinView("42")
	require.Len(t, rows, 2)
	menu := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, "party:rank:42", menu.CustomID)
	assert.Len(t, menu.Options, len(rank.Labels()))
	assert.True(t, rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button).Disabled)
}
