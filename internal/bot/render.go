package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/partybot/internal/party"
	"github.com/susu3304/partybot/internal/rank"
)

const (
	embedColor  = 0x5865F2
	embedFooter = "参加希望の方は下のボタンをクリックしてください"
	lockedMark  = " 🔒 募集終了"
	emptyList   = "（なし）"
)

func partyTitle(s party.Summary) string {
	title := "🎮 VALORANT " + s.Label
	if s.State == party.StateLocked {
		title += lockedMark
	}
	return title
}

func participantLines(ps []party.Participant) string {
	if len(ps) == 0 {
		return emptyList
	}
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = fmt.Sprintf("- 参加者%d：%s（%s）", i+1, p.Name, p.Rating)
	}
	return strings.Join(lines, "\n")
}

// renderEmbed draws a session summary. start is the preformatted start
// time; it is shown for the primary session only.
func renderEmbed(s party.Summary, capacity int, start string) *discordgo.MessageEmbed {
	var b strings.Builder
	if s.Primary && start != "" {
		fmt.Fprintf(&b, "🕒 開始時刻：%s\n", start)
	}
	fmt.Fprintf(&b, "基準ランク：%s　フルパ：無制限\n\n", s.Baseline.Rating)
	fmt.Fprintf(&b, "**🟢 通常参加者（条件内・最大%d人）**\n", capacity)
	b.WriteString(participantLines(s.Active))
	fmt.Fprintf(&b, "\n\n**🔴 フルパ待機者（条件外または%d人目以降）**\n", capacity+1)
	b.WriteString(participantLines(s.Waitlist))

	return &discordgo.MessageEmbed{
		Title:       partyTitle(s),
		Description: b.String(),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: embedFooter},
	}
}

// placeholder is the message posted before the session exists. Buttons are
// attached by the first refresh, once the message id is known.
func placeholder(label string, mentionEveryone bool) *discordgo.MessageSend {
	allowed := &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
	if mentionEveryone {
		allowed.Parse = []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone}
	}
	return &discordgo.MessageSend{
		Content: "@everyone",
		Embeds: []*discordgo.MessageEmbed{{
			Title: "🎮 VALORANT " + label,
			Description: "🕒 基準ランク：未設定　時間設定：アナウンスしてください　フルパ：無制限\n\n" +
				"**🟢 通常参加者**\n" + emptyList + "\n\n" +
				"**🔴 フルパ待機者**\n" + emptyList,
			Color:  embedColor,
			Footer: &discordgo.MessageEmbedFooter{Text: embedFooter},
		}},
		AllowedMentions: allowed,
	}
}

func partyButtons(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "🎮 参加する",
					Style:    discordgo.PrimaryButton,
					CustomID: customID(actionJoin, sessionID),
				},
				discordgo.Button{
					Label:    "❌ 取り消す",
					Style:    discordgo.DangerButton,
					CustomID: customID(actionCancel, sessionID),
				},
			},
		},
	}
}

// personalJoinView is shown only to the user who pressed join: the join
// button greyed out plus the rank picker.
func personalJoinView(sessionID string) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(rank.Labels()))
	for _, label := range rank.Labels() {
		options = append(options, discordgo.SelectMenuOption{Label: label, Value: label})
	}
	minValues := 1
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "🎮 参加する",
					Style:    discordgo.PrimaryButton,
					CustomID: customID(actionNoop, sessionID),
					Disabled: true,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    customID(actionRank, sessionID),
					Placeholder: "ランクを選んでください",
					MinValues:   &minValues,
					MaxValues:   1,
					Options:     options,
				},
			},
		},
	}
}

func personalCancelView(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "❌ 取り消す",
					Style:    discordgo.DangerButton,
					CustomID: customID(actionNoop, sessionID),
					Disabled: true,
				},
			},
		},
	}
}

func reminderMessage(userIDs []string, minutes int) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = "<@" + id + ">"
	}
	return fmt.Sprintf("🔔 %s ゲーム開始まであと%d分です！", strings.Join(mentions, ", "), minutes)
}
