// Package mainloop runs functions one at a time on a single goroutine.
//
// Stores, cells and controllers are not safe for concurrent use. The host
// creates one Loop, runs it, and routes every touch of that state through
// Post or Do, so background producers (the archiving worker, the settings
// file watcher, HTTP handlers) never call into it directly.
package mainloop

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("main loop stopped")

type Loop struct {
	tasks  chan func()
	done   chan struct{}
	logger *zap.Logger
}

// New creates a loop whose queue holds up to buffer pending tasks.
func New(logger *zap.Logger, buffer int) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes posted tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	l.logger.Info("Main loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Main loop shutting down")
			return
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

// Post queues fn without waiting for it. It reports false if the loop has
// stopped or the queue is full.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	default:
		l.logger.Warn("Main loop queue full, task dropped")
		return false
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("task panicked: %v", r)
				panic(r)
			}
		}()
		result <- fn()
	}

	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
