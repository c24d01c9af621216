// Package state provides the generic store behind a screen.
//
// A Store owns exactly one immutable snapshot. New snapshots come from pure
// transition functions (Update, TryUpdate) or from merge functions attached
// to other observables (Subscribe, SubscribeE). Every change replaces the
// whole snapshot and is pushed synchronously to observers.
//
// Like livedata.Cell, a Store does no locking. All calls, including the
// emissions of attached sources, must come from one goroutine.
package state

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"article-view/internal/livedata"
)

// ErrInvalidState is returned when a validator rejects a snapshot.
var ErrInvalidState = errors.New("invalid state")

// Store holds the current snapshot of type T.
type Store[T any] struct {
	cell     *livedata.Cell[T]
	validate func(T) error
	logger   *zap.Logger
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithValidator rejects snapshots that fail fn, both at construction and
// for every produced state.
func WithValidator[T any](fn func(T) error) Option[T] {
	return func(s *Store[T]) {
		s.validate = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(s *Store[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store holding initial.
func NewStore[T any](initial T, opts ...Option[T]) (*Store[T], error) {
	s := &Store[T]{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.check(initial); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	s.cell = livedata.NewCellOf(initial)
	return s, nil
}

// State returns the current snapshot.
func (s *Store[T]) State() T {
	return s.cell.Value()
}

// Update publishes fn(State()). The returned error comes from observers.
func (s *Store[T]) Update(fn func(T) T) error {
	return s.publish(fn(s.State()))
}

// TryUpdate is Update for transitions that can fail. When fn fails nothing
// is published and the state stays as it was.
func (s *Store[T]) TryUpdate(fn func(T) (T, error)) error {
	next, err := fn(s.State())
	if err != nil {
		return err
	}
	return s.publish(next)
}

// Observe registers fn, calls it with the current snapshot right away and
// then with every new one until the subscription is cancelled.
func (s *Store[T]) Observe(fn func(T)) livedata.Subscription {
	sub, _ := s.cell.Observe(livedata.Func(fn))
	return sub
}

// Observable exposes the store as a livedata.Observable so stores can feed
// other stores.
func (s *Store[T]) Observable() livedata.Observable[T] {
	return s.cell
}

func (s *Store[T]) publish(next T) error {
	if err := s.check(next); err != nil {
		return err
	}
	return s.cell.Set(next)
}

func (s *Store[T]) check(v T) error {
	if s.validate == nil {
		return nil
	}
	if err := s.validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return nil
}

// Subscribe attaches source to the store. For each value v the source
// emits, merge(v, State()) runs; when it reports ok the result becomes the
// new snapshot, otherwise the emission is dropped and observers are not
// called.
func Subscribe[S, T any](s *Store[T], source livedata.Observable[S], merge func(S, T) (T, bool)) (livedata.Subscription, error) {
	return SubscribeE(s, source, func(v S, current T) (T, bool, error) {
		next, ok := merge(v, current)
		return next, ok, nil
	})
}

// SubscribeE is Subscribe for merge functions that can fail. Merge errors
// are returned to the emitter of the value.
func SubscribeE[S, T any](s *Store[T], source livedata.Observable[S], merge func(S, T) (T, bool, error)) (livedata.Subscription, error) {
	return source.Observe(func(v S) error {
		next, ok, err := merge(v, s.State())
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Debug("Source emission dropped")
			return nil
		}
		return s.publish(next)
	})
}
