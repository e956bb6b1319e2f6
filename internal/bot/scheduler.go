package bot

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

const schedulerInterval = 20 * time.Second

// periodic runs tick on a fixed interval until stopped.
type periodic struct {
	tick     func(context.Context)
	stopChan chan struct{}
	ticker   *time.Ticker
	interval time.Duration
}

func newPeriodic(interval time.Duration, tick func(context.Context)) *periodic {
	return &periodic{
		tick:     tick,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

func (t *periodic) start() {
	if t == nil {
		return
	}
	t.ticker = time.NewTicker(t.interval)
	go t.loop()
}

func (t *periodic) stop() {
	if t == nil || t.ticker == nil {
		return
	}
	select {
	case <-t.stopChan:
	default:
		close(t.stopChan)
	}
	t.ticker.Stop()
}

func (t *periodic) loop() {
	ctx := context.Background()
	for {
		select {
		case <-t.ticker.C:
			t.tick(ctx)
		case <-t.stopChan:
			return
		}
	}
}

// creationWorker posts the day's primary party once the post time passes.
type creationWorker struct {
	*periodic
	bot      *Bot
	lastDate string
}

func newCreationWorker(b *Bot) *creationWorker {
	w := &creationWorker{bot: b}
	w.periodic = newPeriodic(schedulerInterval, w.run)
	return w
}

func (w *creationWorker) run(ctx context.Context) {
	w.tickAt(ctx, w.bot.now())
}

// tickAt fires at most once per calendar day, between the post time and
// the start time.
func (w *creationWorker) tickAt(ctx context.Context, now time.Time) bool {
	cfg := w.bot.cfg
	local := now.In(cfg.Location)
	today := local.Format(time.DateOnly)
	if w.lastDate == today {
		return false
	}
	if !w.bot.inPostWindow(now) {
		return false
	}
	w.lastDate = today

	log.Printf("scheduler: creating parties for %s", today)
	if err := w.bot.createCycle(ctx); err != nil {
		log.Printf("scheduler: failed to create parties: %v", err)
	}
	return true
}

// reminderWorker pings the primary party's roster shortly before start.
type reminderWorker struct {
	*periodic
	bot *Bot
}

func newReminderWorker(b *Bot) *reminderWorker {
	w := &reminderWorker{bot: b}
	w.periodic = newPeriodic(schedulerInterval, w.run)
	return w
}

func (w *reminderWorker) run(ctx context.Context) {
	w.tickAt(ctx, w.bot.now())
}

// tickAt mentions every participant not reminded yet, in one message.
// Participants are marked before sending so a failed send is not repeated.
func (w *reminderWorker) tickAt(ctx context.Context, now time.Time) []string {
	cfg := w.bot.cfg
	ids, err := query(w.bot.run, func(st *state) []string {
		s, ok := st.registry.Primary()
		if !ok {
			return nil
		}
		left := s.StartAt.Sub(now)
		if left <= 0 || left > cfg.RemindBefore {
			return nil
		}
		var ids []string
		for _, p := range s.Unnotified() {
			ids = append(ids, p.UserID)
		}
		s.MarkNotified(ids...)
		return ids
	})
	if err != nil || len(ids) == 0 {
		return nil
	}

	content := reminderMessage(ids, int(cfg.RemindBefore/time.Minute))
	if _, err := w.bot.gw.Send(ctx, cfg.ChannelID, &discordgo.MessageSend{Content: content}); err != nil {
		log.Printf("reminder: failed to send message to channel %s: %v", cfg.ChannelID, err)
	}
	return ids
}
