package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/partybot/internal/config"
	"github.com/susu3304/partybot/internal/debounce"
	"github.com/susu3304/partybot/internal/gateway"
	"github.com/susu3304/partybot/internal/guard"
	"github.com/susu3304/partybot/internal/party"
)

type Bot struct {
	session *discordgo.Session
	gw      *gateway.Gateway
	cfg     *config.Config

	run       *runner
	refresher *debounce.Debouncer[string]
	creator   *creationWorker
	reminder  *reminderWorker

	now func() time.Time
}

func New(cfg *config.Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	gw := gateway.New(gateway.NewDiscordPlatform(session), gateway.Options{
		Concurrency:    cfg.APIConcurrency,
		Policy:         gateway.DefaultPolicy(cfg.APIRetries),
		AttemptTimeout: 12 * time.Second,
		OnRetry: func(op string, attempt int, err error, wait time.Duration) {
			log.Printf("discord: %s attempt %d failed, retrying in %s: %v", op, attempt, wait.Round(time.Millisecond), err)
		},
	})

	bot := newBot(cfg, gw)
	bot.session = session

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsGuilds

	return bot, nil
}

func newBot(cfg *config.Config, gw *gateway.Gateway) *Bot {
	b := &Bot{
		gw:  gw,
		cfg: cfg,
		now: time.Now,
	}
	b.run = newRunner(context.Background(), &state{
		registry: party.NewRegistry(cfg.MaxParties),
		guard:    guard.New(cfg.RapidWindow),
	})
	b.refresher = debounce.New(cfg.DebounceDelay, b.refresh)
	b.creator = newCreationWorker(b)
	b.reminder = newReminderWorker(b)
	return b
}

// Start connects to Discord, checks that the target channel is reachable
// and starts the schedulers.
func (b *Bot) Start(ctx context.Context) error {
	if b.session != nil {
		if err := b.session.Open(); err != nil {
			return fmt.Errorf("failed to open discord session: %w", err)
		}
	}
	ch, err := b.gw.Channel(ctx, b.cfg.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to resolve channel %s: %w", b.cfg.ChannelID, err)
	}
	log.Printf("Posting parties to #%s (id=%s)", ch.Name, ch.ID)

	b.creator.start()
	b.reminder.start()
	log.Println("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	b.creator.stop()
	b.reminder.stop()
	b.refresher.Stop()
	b.run.stop()
	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

func (b *Bot) debugf(format string, args ...any) {
	if b.cfg.Debug {
		log.Printf("[debug] "+format, args...)
	}
}

// Summaries returns a snapshot of the live sessions in creation order.
func (b *Bot) Summaries(ctx context.Context) ([]party.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return query(b.run, func(st *state) []party.Summary {
		sessions := st.registry.Sessions()
		out := make([]party.Summary, 0, len(sessions))
		for _, s := range sessions {
			out = append(out, party.Summarize(s, b.cfg.Capacity))
		}
		return out
	})
}

// PostNext posts one more party in the current cycle, if the registry has
// room for it. A primary party is only posted between the post time and
// the start time.
func (b *Bot) PostNext(ctx context.Context) (party.Summary, error) {
	type reserved struct {
		res party.Reservation
		err error
	}
	open := b.inPostWindow(b.now())
	r, err := query(b.run, func(st *state) reserved {
		res, err := st.registry.Reserve()
		if err == nil && res.Primary && !open {
			st.registry.Release(res)
			return reserved{err: party.ErrNoOpenCycle}
		}
		return reserved{res, err}
	})
	if err != nil {
		return party.Summary{}, err
	}
	if r.err != nil {
		return party.Summary{}, r.err
	}
	id, err := b.postParty(ctx, r.res)
	if err != nil {
		return party.Summary{}, err
	}
	return b.summary(id)
}

func (b *Bot) summary(id string) (party.Summary, error) {
	type found struct {
		sum party.Summary
		ok  bool
	}
	f, err := query(b.run, func(st *state) found {
		s, ok := st.registry.Get(id)
		if !ok {
			return found{}
		}
		return found{party.Summarize(s, b.cfg.Capacity), true}
	})
	if err != nil {
		return party.Summary{}, err
	}
	if !f.ok {
		return party.Summary{}, ErrSessionNotFound
	}
	return f.sum, nil
}
