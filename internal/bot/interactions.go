package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/partybot/internal/party"
	"github.com/susu3304/partybot/internal/rank"
)

const (
	actionJoin   = "join"
	actionCancel = "cancel"
	actionRank   = "rank"
	actionNoop   = "noop"

	customIDPrefix = "party:"
)

var (
	ErrBusy            = errors.New("previous action still in progress")
	ErrSessionNotFound = errors.New("party session not found")
	ErrAfterStart      = errors.New("party has already started")
	ErrAlreadyJoined   = errors.New("already joined")
	ErrNotJoined       = errors.New("not joined")
)

func customID(action, sessionID string) string {
	return customIDPrefix + action + ":" + sessionID
}

func parseCustomID(id string) (action, sessionID string, ok bool) {
	rest, found := strings.CutPrefix(id, customIDPrefix)
	if !found {
		return "", "", false
	}
	action, sessionID, ok = strings.Cut(rest, ":")
	if !ok || sessionID == "" {
		return "", "", false
	}
	return action, sessionID, true
}

type actor struct {
	ID   string
	Name string
}

func interactionActor(i *discordgo.InteractionCreate) (actor, bool) {
	if i.Member != nil && i.Member.User != nil {
		name := i.Member.Nick
		if name == "" {
			name = i.Member.User.Username
		}
		return actor{ID: i.Member.User.ID, Name: name}, true
	}
	if i.User != nil {
		return actor{ID: i.User.ID, Name: i.User.Username}, true
	}
	return actor{}, false
}

// handleComponent acknowledges first so the interaction token never
// expires while the roster is being updated; the outcome goes out as a
// private follow-up.
func (b *Bot) handleComponent(i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	action, sessionID, ok := parseCustomID(data.CustomID)
	if !ok || action == actionNoop {
		return
	}
	who, ok := interactionActor(i)
	if !ok {
		return
	}

	ctx := context.Background()
	if err := b.gw.Acknowledge(ctx, i.Interaction); err != nil {
		log.Printf("interaction: failed to acknowledge %s from %s: %v", action, who.ID, err)
		return
	}

	var reply *discordgo.WebhookParams
	switch action {
	case actionJoin:
		reply = joinReply(sessionID, b.join(sessionID, who))
	case actionCancel:
		reply = cancelReply(sessionID, b.cancel(sessionID, who))
	case actionRank:
		var label string
		if len(data.Values) > 0 {
			label = data.Values[0]
		}
		reply = rankReply(label, b.selectRank(sessionID, who, label))
	default:
		return
	}

	if err := b.gw.FollowUp(ctx, i.Interaction, reply); err != nil {
		log.Printf("interaction: failed to send follow-up to %s: %v", who.ID, err)
	}
}

// join checks whether who may pick a rank for the session. It does not
// change the roster.
func (b *Bot) join(sessionID string, who actor) error {
	now := b.now()
	res, err := query(b.run, func(st *state) error {
		if !st.guard.Allow(sessionID, who.ID, now) {
			return ErrBusy
		}
		s, ok := st.registry.Get(sessionID)
		if !ok {
			return ErrSessionNotFound
		}
		if s.Started(now) {
			return ErrAfterStart
		}
		if s.Roster.Contains(who.ID) {
			return ErrAlreadyJoined
		}
		return nil
	})
	if err != nil {
		return err
	}
	return res
}

// selectRank adds who to the roster with the chosen rank, or updates the
// rank of a participant already on it.
func (b *Bot) selectRank(sessionID string, who actor, label string) error {
	rating, err := rank.Parse(label)
	if err != nil {
		return err
	}
	now := b.now()
	res, err := query(b.run, func(st *state) error {
		s, ok := st.registry.Get(sessionID)
		if !ok {
			return ErrSessionNotFound
		}
		if s.Started(now) {
			return ErrAfterStart
		}
		s.Roster.Join(party.Participant{UserID: who.ID, Name: who.Name, Rating: rating})
		b.scheduleRefresh(s.ID)
		return nil
	})
	if err != nil {
		return err
	}
	return res
}

// cancel removes who from the roster.
func (b *Bot) cancel(sessionID string, who actor) error {
	now := b.now()
	res, err := query(b.run, func(st *state) error {
		if !st.guard.Allow(sessionID, who.ID, now) {
			return ErrBusy
		}
		s, ok := st.registry.Get(sessionID)
		if !ok {
			return ErrSessionNotFound
		}
		if s.Started(now) {
			return ErrAfterStart
		}
		if !s.Roster.Leave(who.ID) {
			return ErrNotJoined
		}
		b.scheduleRefresh(s.ID)
		return nil
	})
	if err != nil {
		return err
	}
	return res
}

func joinReply(sessionID string, err error) *discordgo.WebhookParams {
	view := personalJoinView(sessionID)
	switch {
	case err == nil:
		return &discordgo.WebhookParams{Content: "🔽 ランクを選んでください：", Components: view}
	case errors.Is(err, ErrBusy):
		return &discordgo.WebhookParams{Content: "処理中です…少し待ってください。", Components: view}
	case errors.Is(err, ErrAfterStart):
		return &discordgo.WebhookParams{Content: "⚠️ 開始時間を過ぎているため、参加できません。", Components: view}
	case errors.Is(err, ErrAlreadyJoined):
		return &discordgo.WebhookParams{Content: "✅ 既に参加済みです。", Components: view}
	default:
		return failureReply(err)
	}
}

func cancelReply(sessionID string, err error) *discordgo.WebhookParams {
	view := personalCancelView(sessionID)
	switch {
	case err == nil:
		return &discordgo.WebhookParams{Content: "❌ 取り消しました。", Components: view}
	case errors.Is(err, ErrBusy):
		return &discordgo.WebhookParams{Content: "処理中です…少し待ってください。", Components: view}
	case errors.Is(err, ErrAfterStart):
		return &discordgo.WebhookParams{Content: "⚠️ 開始時間を過ぎているため、取り消しできません。", Components: view}
	case errors.Is(err, ErrNotJoined):
		return &discordgo.WebhookParams{Content: "⚠️ まだ参加していません。", Components: view}
	default:
		return failureReply(err)
	}
}

func rankReply(label string, err error) *discordgo.WebhookParams {
	switch {
	case err == nil:
		return &discordgo.WebhookParams{Content: fmt.Sprintf("✅ ランク「**%s**」を登録しました！", label)}
	case errors.Is(err, rank.ErrUnknownRank):
		return &discordgo.WebhookParams{Content: "⚠️ ランク解析に失敗しました。"}
	case errors.Is(err, ErrAfterStart):
		return &discordgo.WebhookParams{Content: "⚠️ 開始時間を過ぎているため、参加できません。"}
	default:
		return failureReply(err)
	}
}

func failureReply(err error) *discordgo.WebhookParams {
	if errors.Is(err, ErrSessionNotFound) {
		return &discordgo.WebhookParams{Content: "⚠️ この募集は終了しています。"}
	}
	log.Printf("interaction: unexpected error: %v", err)
	return &discordgo.WebhookParams{Content: "⚠️ 処理に失敗しました。時間をおいて再度お試しください。"}
}
