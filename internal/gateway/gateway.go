// Package gateway is the only path from the bot to Discord. Every call is
// throttled by a process-wide concurrency cap and retried according to a
// Policy.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/semaphore"
)

// Platform is the raw Discord capability the gateway wraps.
type Platform interface {
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	ResolveChannel(ctx context.Context, channelID string) (*discordgo.Channel, error)
	// Acknowledge defers the response to an interaction as an ephemeral
	// "thinking" state.
	Acknowledge(ctx context.Context, i *discordgo.Interaction) error
	// FollowUp sends a message visible only to the interacting user.
	FollowUp(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) error
}

// RetryFunc observes a failed attempt that is about to be retried after wait.
type RetryFunc func(op string, attempt int, err error, wait time.Duration)

type Options struct {
	// Concurrency caps calls in flight across the process. Defaults to 2.
	Concurrency int
	// Policy applies to message and channel calls.
	Policy Policy
	// AckPolicy applies to Acknowledge and FollowUp.
	AckPolicy Policy
	// AttemptTimeout bounds a single attempt. Zero disables it.
	AttemptTimeout time.Duration
	OnRetry        RetryFunc
}

type Gateway struct {
	platform       Platform
	sem            *semaphore.Weighted
	policy         Policy
	ackPolicy      Policy
	attemptTimeout time.Duration
	onRetry        RetryFunc

	mu       sync.Mutex
	channels map[string]*discordgo.Channel
}

func New(platform Platform, opts Options) *Gateway {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	if opts.Policy.MaxAttempts == 0 {
		opts.Policy = DefaultPolicy(0)
	}
	if opts.AckPolicy.MaxAttempts == 0 {
		opts.AckPolicy = AckPolicy()
	}
	return &Gateway{
		platform:       platform,
		sem:            semaphore.NewWeighted(int64(opts.Concurrency)),
		policy:         opts.Policy,
		ackPolicy:      opts.AckPolicy,
		attemptTimeout: opts.AttemptTimeout,
		onRetry:        opts.OnRetry,
		channels:       make(map[string]*discordgo.Channel),
	}
}

func (g *Gateway) Send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return call(ctx, g, "send", g.policy, func(ctx context.Context) (*discordgo.Message, error) {
		return g.platform.SendMessage(ctx, channelID, msg)
	})
}

func (g *Gateway) Edit(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	return call(ctx, g, "edit", g.policy, func(ctx context.Context) (*discordgo.Message, error) {
		return g.platform.EditMessage(ctx, edit)
	})
}

func (g *Gateway) Delete(ctx context.Context, channelID, messageID string) error {
	_, err := call(ctx, g, "delete", g.policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.platform.DeleteMessage(ctx, channelID, messageID)
	})
	return err
}

// Channel resolves channelID once and serves later lookups from memory.
func (g *Gateway) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	g.mu.Lock()
	ch, ok := g.channels[channelID]
	g.mu.Unlock()
	if ok {
		return ch, nil
	}

	ch, err := call(ctx, g, "channel", g.policy, func(ctx context.Context) (*discordgo.Channel, error) {
		return g.platform.ResolveChannel(ctx, channelID)
	})
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.channels[channelID] = ch
	g.mu.Unlock()
	return ch, nil
}

func (g *Gateway) Acknowledge(ctx context.Context, i *discordgo.Interaction) error {
	_, err := call(ctx, g, "ack", g.ackPolicy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.platform.Acknowledge(ctx, i)
	})
	return err
}

func (g *Gateway) FollowUp(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	_, err := call(ctx, g, "followup", g.ackPolicy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.platform.FollowUp(ctx, i, params)
	})
	return err
}

// call runs fn under policy. The concurrency slot is held only while fn
// runs, never while waiting between attempts. When attempts run out the
// last error is returned as is.
func call[T any](ctx context.Context, g *Gateway, op string, policy Policy, fn func(context.Context) (T, error)) (T, error) {
	tries := 0
	operation := func() (T, error) {
		tries++
		res, err := attempt(ctx, g, fn)
		if err != nil && !policy.retryable(err, tries) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&policyBackOff{policy: policy}),
		backoff.WithMaxTries(uint(policy.attempts())),
		backoff.WithNotify(func(err error, wait time.Duration) {
			if g.onRetry != nil {
				g.onRetry(op, tries, err, wait)
			}
		}),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return res, err
}

func attempt[T any](ctx context.Context, g *Gateway, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return zero, fmt.Errorf("wait for call slot: %w", err)
	}
	defer g.sem.Release(1)

	if g.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.attemptTimeout)
		defer cancel()
	}
	return fn(ctx)
}
