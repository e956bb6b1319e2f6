package bot

import (
	"context"
	"errors"

	"github.com/susu3304/partybot/internal/guard"
	"github.com/susu3304/partybot/internal/party"
)

var errRunnerStopped = errors.New("runner stopped")

// state is everything the bot mutates. Only the runner goroutine touches it.
type state struct {
	registry *party.Registry
	guard    *guard.Guard
}

// runner executes closures against state one at a time, in submission
// order. Closures must not block on I/O or submit to the runner again.
type runner struct {
	inbox  chan func(*state)
	st     *state
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newRunner(parent context.Context, st *state) *runner {
	ctx, cancel := context.WithCancel(parent)
	r := &runner{
		inbox:  make(chan func(*state), 64),
		st:     st,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *runner) loop() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			return
		case fn := <-r.inbox:
			fn(r.st)
		}
	}
}

func (r *runner) stop() {
	r.cancel()
	<-r.done
}

// do runs fn on the runner and waits for it to finish.
func (r *runner) do(fn func(*state)) error {
	finished := make(chan struct{})
	wrapped := func(st *state) {
		defer close(finished)
		fn(st)
	}
	select {
	case r.inbox <- wrapped:
	case <-r.ctx.Done():
		return errRunnerStopped
	}
	select {
	case <-finished:
		return nil
	case <-r.done:
		// The loop may have picked fn up just before stopping.
		select {
		case <-finished:
			return nil
		default:
			return errRunnerStopped
		}
	}
}

// query runs fn on r and returns its result.
func query[T any](r *runner, fn func(*state) T) (T, error) {
	var out T
	err := r.do(func(st *state) { out = fn(st) })
	return out, err
}
