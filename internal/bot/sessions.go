package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/partybot/internal/party"
)

// startTime is the primary session's start on the day of now.
func (b *Bot) startTime(now time.Time) time.Time {
	return b.cfg.StartAt.On(now.In(b.cfg.Location))
}

// inPostWindow reports whether now lies between today's post time and
// start time.
func (b *Bot) inPostWindow(now time.Time) bool {
	local := now.In(b.cfg.Location)
	return !local.Before(b.cfg.PostAt.On(local)) && local.Before(b.cfg.StartAt.On(local))
}

// createCycle drops the previous cycle and posts its primary party.
func (b *Bot) createCycle(ctx context.Context) error {
	type cycle struct {
		stale []string
		res   party.Reservation
		err   error
	}
	c, err := query(b.run, func(st *state) cycle {
		var c cycle
		for _, s := range st.registry.Sessions() {
			c.stale = append(c.stale, s.ID)
			st.guard.Forget(s.ID)
		}
		st.registry.Reset()
		c.res, c.err = st.registry.Reserve()
		return c
	})
	if err != nil {
		return err
	}
	for _, id := range c.stale {
		b.refresher.Forget(id)
	}
	if c.err != nil {
		return c.err
	}
	_, err = b.postParty(ctx, c.res)
	return err
}

// postParty posts the placeholder for res, registers the session under the
// message id and renders it right away.
func (b *Bot) postParty(ctx context.Context, res party.Reservation) (string, error) {
	release := func() {
		if err := b.run.do(func(st *state) { st.registry.Release(res) }); err != nil {
			log.Printf("party: failed to release %s: %v", res.Label, err)
		}
	}

	if _, err := b.gw.Channel(ctx, b.cfg.ChannelID); err != nil {
		release()
		return "", fmt.Errorf("resolve channel for %s: %w", res.Label, err)
	}
	msg, err := b.gw.Send(ctx, b.cfg.ChannelID, placeholder(res.Label, b.cfg.MentionEveryone))
	if err != nil {
		release()
		return "", fmt.Errorf("post %s: %w", res.Label, err)
	}

	s := party.NewSession(msg.ID, res.Label, res.Primary, b.startTime(b.now()))
	commitErr, err := query(b.run, func(st *state) error {
		return st.registry.Commit(res, s)
	})
	if err == nil {
		err = commitErr
	}
	if err != nil {
		if derr := b.gw.Delete(ctx, b.cfg.ChannelID, msg.ID); derr != nil {
			log.Printf("party: failed to delete unregistered message %s: %v", msg.ID, derr)
		}
		return "", fmt.Errorf("register %s (message=%s): %w", res.Label, msg.ID, err)
	}
	log.Printf("party: posted %s (message=%s primary=%t)", res.Label, msg.ID, res.Primary)

	b.refresher.Now(msg.ID)
	return msg.ID, nil
}

// scheduleRefresh is safe to call from the runner.
func (b *Bot) scheduleRefresh(sessionID string) {
	if b.refresher.Schedule(sessionID) {
		b.debugf("refresh armed for %s", sessionID)
	}
}

type rendered struct {
	embed *discordgo.MessageEmbed
	next  *party.Reservation
	ok    bool
}

// refresh redraws a session message from the current roster. When the
// primary party fills up for the first time the next party is posted.
func (b *Bot) refresh(sessionID string) {
	r, err := query(b.run, func(st *state) rendered {
		s, ok := st.registry.Get(sessionID)
		if !ok {
			return rendered{}
		}
		sum := party.Summarize(s, b.cfg.Capacity)
		out := rendered{ok: true}
		if s.Observe(len(sum.Active), b.cfg.Capacity) {
			sum.State = s.State()
			if res, err := st.registry.Reserve(); err == nil {
				out.next = &res
			}
		}
		var start string
		if s.Primary {
			start = s.StartAt.In(b.cfg.Location).Format("15:04")
		}
		out.embed = renderEmbed(sum, b.cfg.Capacity, start)
		return out
	})
	if err != nil || !r.ok {
		return
	}

	ctx := context.Background()
	edit := discordgo.NewMessageEdit(b.cfg.ChannelID, sessionID)
	edit.Embeds = []*discordgo.MessageEmbed{r.embed}
	edit.Components = partyButtons(sessionID)
	if _, err := b.gw.Edit(ctx, edit); err != nil {
		log.Printf("party: failed to refresh %s: %v", sessionID, err)
	} else {
		b.debugf("refreshed %s", sessionID)
	}

	if r.next != nil {
		if _, err := b.postParty(ctx, *r.next); err != nil {
			log.Printf("party: failed to post follow-up party: %v", err)
		}
	}
}
