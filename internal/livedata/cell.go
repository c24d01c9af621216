// Package livedata holds single observable values.
//
// A Cell keeps one current value and calls its observers synchronously
// whenever the value is replaced. Cells do no locking: every Set, Observe
// and Cancel must happen on the same goroutine (see package mainloop for the
// loop that hosts them in the server). Producers running elsewhere hand
// their values to that goroutine before calling Set.
package livedata

import (
	"slices"

	"go.uber.org/multierr"
)

// Observable is anything that can push values of type T to observers.
type Observable[T any] interface {
	// Observe registers fn. If a current value exists it is delivered once
	// before Observe returns, and the error from that delivery is returned.
	Observe(fn func(T) error) (Subscription, error)
}

// Subscription detaches an observer.
type Subscription interface {
	Cancel()
}

type observer[T any] struct {
	fn     func(T) error
	active bool
}

// Cell is an Observable holding at most one value.
type Cell[T any] struct {
	value     T
	set       bool
	version   uint64
	observers []*observer[T]
}

// NewCell returns a cell with no value yet.
func NewCell[T any]() *Cell[T] {
	return &Cell[T]{}
}

// NewCellOf returns a cell holding v.
func NewCellOf[T any](v T) *Cell[T] {
	return &Cell[T]{value: v, set: true}
}

// Get returns the current value and whether one was ever set.
func (c *Cell[T]) Get() (T, bool) {
	return c.value, c.set
}

// Value returns the current value, or the zero value when unset.
func (c *Cell[T]) Value() T {
	return c.value
}

// Set replaces the value and notifies observers in registration order.
// Errors returned by observers are combined and returned; an error from
// one observer does not stop delivery to the others.
func (c *Cell[T]) Set(v T) error {
	c.value = v
	c.set = true
	c.version++
	version := c.version

	var errs error
	for _, o := range slices.Clone(c.observers) {
		if c.version != version {
			// A nested Set already delivered a newer value to everyone.
			break
		}
		if !o.active {
			continue
		}
		errs = multierr.Append(errs, o.fn(v))
	}
	return errs
}

// Observe implements Observable.
func (c *Cell[T]) Observe(fn func(T) error) (Subscription, error) {
	o := &observer[T]{fn: fn, active: true}
	c.observers = append(c.observers, o)
	sub := &subscription[T]{cell: c, obs: o}

	if !c.set {
		return sub, nil
	}
	return sub, fn(c.value)
}

// Observers returns the number of attached observers.
func (c *Cell[T]) Observers() int {
	return len(c.observers)
}

func (c *Cell[T]) remove(o *observer[T]) {
	o.active = false
	c.observers = slices.DeleteFunc(c.observers, func(x *observer[T]) bool {
		return x == o
	})
}

type subscription[T any] struct {
	cell *Cell[T]
	obs  *observer[T]
}

func (s *subscription[T]) Cancel() {
	if s.obs.active {
		s.cell.remove(s.obs)
	}
}

// Func adapts an observer that cannot fail.
func Func[T any](fn func(T)) func(T) error {
	return func(v T) error {
		fn(v)
		return nil
	}
}

// Subscriptions cancels a group of subscriptions together.
type Subscriptions []Subscription

// Cancel cancels every subscription in the group.
func (s Subscriptions) Cancel() {
	for _, sub := range s {
		if sub != nil {
			sub.Cancel()
		}
	}
}
