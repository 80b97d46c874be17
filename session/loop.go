// Package session runs the editor's single event thread. Every intent, from
// any transport, is executed one at a time on the goroutine that called
// Loop.Run, so the registry is never touched concurrently.
package session

import (
	"context"
	"errors"

	"github.com/tliron/commonlog"

	"github.com/odvcencio/tabpad/editor"
	"github.com/odvcencio/tabpad/lifecycle"
)

var log = commonlog.GetLogger("tabpad.session")

// ErrStopped is returned by Post once the loop has exited.
var ErrStopped = errors.New("session stopped")

// Dispatcher executes intents. *lifecycle.Controller implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, intent lifecycle.Intent) (lifecycle.Result, error)
}

type outcome struct {
	result lifecycle.Result
	err    error
}

type call struct {
	ctx    context.Context
	intent lifecycle.Intent
	reply  chan outcome
}

// Loop serializes intents onto one goroutine.
type Loop struct {
	dispatcher Dispatcher
	calls      chan call
	done       chan struct{}
}

// NewLoop creates a Loop that hands intents to d.
func NewLoop(d Dispatcher) *Loop {
	return &Loop{
		dispatcher: d,
		calls:      make(chan call),
		done:       make(chan struct{}),
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes posted intents until ctx is done or a quit is accepted.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-l.calls:
			if q, ok := c.intent.(query); ok {
				q.fn()
				c.reply <- outcome{}
				continue
			}
			res, err := l.dispatcher.Dispatch(c.ctx, c.intent)
			if err != nil && !errors.Is(err, editor.ErrCancelled) {
				log.Debugf("%s: %v", c.intent.Name(), err)
			}
			c.reply <- outcome{result: res, err: err}
			if res.Quit {
				return nil
			}
		}
	}
}

// Post runs intent on the loop and waits for its result.
func (l *Loop) Post(ctx context.Context, intent lifecycle.Intent) (lifecycle.Result, error) {
	c := call{ctx: ctx, intent: intent, reply: make(chan outcome, 1)}
	select {
	case l.calls <- c:
	case <-l.done:
		return lifecycle.Result{}, ErrStopped
	case <-ctx.Done():
		return lifecycle.Result{}, ctx.Err()
	}
	out := <-c.reply
	return out.result, out.err
}

// Call runs fn on the loop with exclusive access to the controller state,
// for read-only queries that are not intents.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	_, err := l.Post(ctx, query{fn: fn})
	return err
}

// query wraps a read-only function so it can travel through the loop.
type query struct {
	fn func()
}

func (query) Name() string { return "query" }
