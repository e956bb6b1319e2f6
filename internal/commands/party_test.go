package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/partybot/internal/party"
)

type fakeResponder struct {
	acked   int
	replies []string
	ackErr  error
}

func (f *fakeResponder) Acknowledge(context.Context, *discordgo.Interaction) error {
	f.acked++
	return f.ackErr
}

func (f *fakeResponder) FollowUp(_ context.Context, _ *discordgo.Interaction, params *discordgo.WebhookParams) error {
	f.replies = append(f.replies, params.Content)
	return nil
}

type fakeParties struct {
	sums    []party.Summary
	next    party.Summary
	postErr error
	posted  int
}

func (f *fakeParties) Summaries(context.Context) ([]party.Summary, error) {
	return f.sums, nil
}

func (f *fakeParties) PostNext(context.Context) (party.Summary, error) {
	f.posted++
	return f.next, f.postErr
}

func slash(sub string) *discordgo.InteractionCreate {
	data := discordgo.ApplicationCommandInteractionData{Name: PartyCommand}
	if sub != "" {
		data.Options = []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand},
		}
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: data,
	}}
}

func TestGetCommands(t *testing.T) {
	cmds := GetCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, PartyCommand, cmds[0].Name)

	var subs []string
	for _, opt := range cmds[0].Options {
		subs = append(subs, opt.Name)
	}
	assert.Equal(t, []string{"status", "post"}, subs)
}

func TestHandlePartyStatus(t *testing.T) {
	r := &fakeResponder{}
	start := time.Date(2026, 10, 17, 21, 0, 0, 0, time.UTC)
	p := &fakeParties{sums: []party.Summary{
		{Label: "パーティA", Primary: true, StartAt: start, State: party.StateLocked,
			Active: make([]party.Participant, 5), Waitlist: make([]party.Participant, 1)},
		{Label: "パーティB", State: party.StateCreated},
	}}

	HandleParty(context.Background(), slash("status"), r, p)

	require.Len(t, r.replies, 1)
	lines := strings.Split(r.replies[0], "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "**パーティA**（募集終了）通常 5人 / 待機 1人 / 基準 未設定 / 開始 21:00", lines[0])
	assert.Equal(t, "**パーティB**（参加者なし）通常 0人 / 待機 0人 / 基準 未設定", lines[1])
}

func TestHandlePartyStatusEmpty(t *testing.T) {
	r := &fakeResponder{}
	HandleParty(context.Background(), slash("status"), r, &fakeParties{})
	assert.Equal(t, []string{"現在募集中のパーティはありません。"}, r.replies)
}

func TestHandlePartyPost(t *testing.T) {
	r := &fakeResponder{}
	p := &fakeParties{next: party.Summary{Label: "パーティB"}}

	HandleParty(context.Background(), slash("post"), r, p)
	assert.Equal(t, 1, p.posted)
	assert.Equal(t, []string{"パーティB を投稿しました。"}, r.replies)

	p.postErr = party.ErrRegistryFull
	HandleParty(context.Background(), slash("post"), r, p)
	assert.Equal(t, "これ以上パーティを作成できません。", r.replies[1])

	p.postErr = errors.New("discord down")
	HandleParty(context.Background(), slash("post"), r, p)
	assert.Equal(t, "パーティの投稿に失敗しました。", r.replies[2])

	p.postErr = party.ErrNoOpenCycle
	HandleParty(context.Background(), slash("post"), r, p)
	assert.Equal(t, "募集時間外のため、パーティを作成できません。", r.replies[3])
}

func TestHandlePartyWithoutSubcommand(t *testing.T) {
	r := &fakeResponder{}
	HandleParty(context.Background(), slash(""), r, &fakeParties{})
	assert.Equal(t, []string{"サブコマンドが指定されていません"}, r.replies)
}

func TestHandlePartyAckFailure(t *testing.T) {
	r := &fakeResponder{ackErr: errors.New("unknown interaction")}
	p := &fakeParties{}
	HandleParty(context.Background(), slash("post"), r, p)
	assert.Empty(t, r.replies)
	assert.Zero(t, p.posted)
}
