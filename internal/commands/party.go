package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/partybot/internal/party"
)

// Responder answers an interaction privately.
type Responder interface {
	Acknowledge(ctx context.Context, i *discordgo.Interaction) error
	FollowUp(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) error
}

// Parties is the view of the running bot the party command works on.
type Parties interface {
	Summaries(ctx context.Context) ([]party.Summary, error)
	PostNext(ctx context.Context) (party.Summary, error)
}

// Discord rejects message content longer than this.
const maxContentLength = 2000

func HandleParty(ctx context.Context, i *discordgo.InteractionCreate, r Responder, parties Parties) {
	if err := r.Acknowledge(ctx, i.Interaction); err != nil {
		log.Printf("party command: failed to acknowledge: %v", err)
		return
	}

	data := i.ApplicationCommandData()
	var content string
	if len(data.Options) == 0 {
		content = "サブコマンドが指定されていません"
	} else {
		switch data.Options[0].Name {
		case "status":
			content = statusContent(ctx, parties)
		case "post":
			content = postContent(ctx, parties)
		default:
			content = "不明なサブコマンドです"
		}
	}

	if err := r.FollowUp(ctx, i.Interaction, &discordgo.WebhookParams{Content: content}); err != nil {
		log.Printf("party command: failed to send follow-up: %v", err)
	}
}

func statusContent(ctx context.Context, parties Parties) string {
	sums, err := parties.Summaries(ctx)
	if err != nil {
		log.Printf("party command: failed to load sessions: %v", err)
		return "募集状況の取得に失敗しました。"
	}
	if len(sums) == 0 {
		return "現在募集中のパーティはありません。"
	}

	var b strings.Builder
	for _, s := range sums {
		line := statusLine(s)
		if b.Len()+len(line)+1 > maxContentLength {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	return b.String()
}

func statusLine(s party.Summary) string {
	line := fmt.Sprintf("**%s**（%s）通常 %d人 / 待機 %d人 / 基準 %s",
		s.Label, stateLabel(s.State), len(s.Active), len(s.Waitlist), s.Baseline.Rating)
	if s.Primary && !s.StartAt.IsZero() {
		line += " / 開始 " + s.StartAt.Format("15:04")
	}
	return line
}

func stateLabel(st party.State) string {
	switch st {
	case party.StateFilling:
		return "募集中"
	case party.StateLocked:
		return "募集終了"
	default:
		return "参加者なし"
	}
}

func postContent(ctx context.Context, parties Parties) string {
	s, err := parties.PostNext(ctx)
	switch {
	case err == nil:
		return fmt.Sprintf("%s を投稿しました。", s.Label)
	case errors.Is(err, party.ErrRegistryFull):
		return "これ以上パーティを作成できません。"
	case errors.Is(err, party.ErrNoOpenCycle):
		return "募集時間外のため、パーティを作成できません。"
	default:
		log.Printf("party command: failed to post party: %v", err)
		return "パーティの投稿に失敗しました。"
	}
}
