package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig marks every configuration problem. The bot must not
// start when Load returns it.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Discord Bot
	DiscordToken string
	ChannelID    string

	// Keep-alive server
	WebBind string

	// Schedule
	Location     *time.Location
	PostAt       Clock
	StartAt      Clock
	RemindBefore time.Duration

	// Parties
	MaxParties    int
	Capacity      int
	DebounceDelay time.Duration
	RapidWindow   time.Duration

	// Discord API
	APIConcurrency  int
	APIRetries      int
	MentionEveryone bool

	Debug bool
}

// rawEnv holds env values before validation.
type rawEnv struct {
	DiscordToken    string        `env:"DISCORD_TOKEN"`
	ChannelID       string        `env:"CHANNEL_ID"`
	WebBind         string        `env:"WEB_BIND" envDefault:"0.0.0.0:8080"`
	Timezone        string        `env:"TIMEZONE" envDefault:"Asia/Tokyo"`
	PostAt          string        `env:"POST_AT" envDefault:"18:40"`
	StartAt         string        `env:"START_AT" envDefault:"21:00"`
	RemindBefore    time.Duration `env:"REMIND_BEFORE" envDefault:"5m"`
	MaxParties      int           `env:"MAX_PARTIES" envDefault:"3"`
	Capacity        int           `env:"PARTY_CAPACITY" envDefault:"5"`
	DebounceDelay   time.Duration `env:"DEBOUNCE_DELAY" envDefault:"600ms"`
	RapidWindow     time.Duration `env:"RAPID_WINDOW" envDefault:"800ms"`
	APIConcurrency  int           `env:"API_CONCURRENCY" envDefault:"2"`
	APIRetries      int           `env:"API_RETRIES" envDefault:"5"`
	MentionEveryone bool          `env:"MENTION_EVERYONE" envDefault:"false"`
	Debug           bool          `env:"DEBUG_LOG" envDefault:"false"`
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// On returns the clock's time on the day of t, in t's location.
func (c Clock) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// Before reports whether c is earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.Hour*60+c.Minute < o.Hour*60+o.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}
	return raw.config()
}

func (r rawEnv) config() (*Config, error) {
	if strings.TrimSpace(r.DiscordToken) == "" {
		return nil, fmt.Errorf("%w: DISCORD_TOKEN is required", ErrInvalidConfig)
	}

	channelID, err := ParseChannelID(r.ChannelID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: TIMEZONE %q: %v", ErrInvalidConfig, r.Timezone, err)
	}
	postAt, err := ParseClock(r.PostAt)
	if err != nil {
		return nil, fmt.Errorf("%w: POST_AT: %v", ErrInvalidConfig, err)
	}
	startAt, err := ParseClock(r.StartAt)
	if err != nil {
		return nil, fmt.Errorf("%w: START_AT: %v", ErrInvalidConfig, err)
	}
	if !postAt.Before(startAt) {
		return nil, fmt.Errorf("%w: POST_AT %s must be before START_AT %s", ErrInvalidConfig, postAt, startAt)
	}

	if r.MaxParties < 2 || r.MaxParties > 3 {
		return nil, fmt.Errorf("%w: MAX_PARTIES must be 2 or 3, got %d", ErrInvalidConfig, r.MaxParties)
	}
	if r.Capacity < 2 {
		return nil, fmt.Errorf("%w: PARTY_CAPACITY must be at least 2, got %d", ErrInvalidConfig, r.Capacity)
	}
	if r.APIConcurrency < 1 {
		return nil, fmt.Errorf("%w: API_CONCURRENCY must be positive", ErrInvalidConfig)
	}
	if r.APIRetries < 1 {
		return nil, fmt.Errorf("%w: API_RETRIES must be positive", ErrInvalidConfig)
	}
	if r.DebounceDelay < 0 || r.RapidWindow < 0 || r.RemindBefore <= 0 {
		return nil, fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}

	return &Config{
		DiscordToken:    r.DiscordToken,
		ChannelID:       channelID,
		WebBind:         r.WebBind,
		Location:        loc,
		PostAt:          postAt,
		StartAt:         startAt,
		RemindBefore:    r.RemindBefore,
		MaxParties:      r.MaxParties,
		Capacity:        r.Capacity,
		DebounceDelay:   r.DebounceDelay,
		RapidWindow:     r.RapidWindow,
		APIConcurrency:  r.APIConcurrency,
		APIRetries:      r.APIRetries,
		MentionEveryone: r.MentionEveryone,
		Debug:           r.Debug,
	}, nil
}

var nonDigits = regexp.MustCompile(`\D`)

// ParseChannelID accepts the channel id as pasted into a dashboard:
// surrounding quotes, spaces and stray characters are dropped.
func ParseChannelID(raw string) (string, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"'`)
	if s == "" {
		return "", fmt.Errorf("%w: CHANNEL_ID is required", ErrInvalidConfig)
	}
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return "", fmt.Errorf("%w: CHANNEL_ID is not numeric: %q", ErrInvalidConfig, raw)
	}
	return digits, nil
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("want HH:MM, got %q", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}
