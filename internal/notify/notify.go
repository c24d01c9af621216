// Package notify carries one-shot user notifications from screen
// controllers to whatever presents them.
package notify

import (
	"github.com/google/uuid"
)

// Kind names the shape of a notification.
type Kind string

const (
	KindMessage Kind = "message"
	KindError   Kind = "error"
	KindAction  Kind = "action"
)

// Notification is one of Message, ErrorMessage or ActionMessage.
type Notification interface {
	NotificationID() uuid.UUID
	Kind() Kind
	Text() string
}

// Message is a plain informational message.
type Message struct {
	ID      uuid.UUID
	Message string
}

// ErrorMessage reports a failure to the user. Action, if set, runs when
// the user presses the button labelled Label (retry or acknowledge).
type ErrorMessage struct {
	ID      uuid.UUID
	Message string
	Label   string
	Action  func()
}

// ActionMessage offers the user a way back: Action runs when the button
// labelled Label is pressed.
type ActionMessage struct {
	ID      uuid.UUID
	Message string
	Label   string
	Action  func()
}

// NewMessage returns an informational notification.
func NewMessage(text string) Message {
	return Message{ID: uuid.New(), Message: text}
}

// NewError returns an error notification. action may be nil when the
// button only dismisses the message.
func NewError(text, label string, action func()) ErrorMessage {
	return ErrorMessage{ID: uuid.New(), Message: text, Label: label, Action: action}
}

// NewAction returns a notification with a reversal action.
func NewAction(text, label string, action func()) ActionMessage {
	return ActionMessage{ID: uuid.New(), Message: text, Label: label, Action: action}
}

func (m Message) NotificationID() uuid.UUID { return m.ID }
func (m Message) Kind() Kind                { return KindMessage }
func (m Message) Text() string              { return m.Message }

func (m ErrorMessage) NotificationID() uuid.UUID { return m.ID }
func (m ErrorMessage) Kind() Kind                { return KindError }
func (m ErrorMessage) Text() string              { return m.Message }

func (m ActionMessage) NotificationID() uuid.UUID { return m.ID }
func (m ActionMessage) Kind() Kind                { return KindAction }
func (m ActionMessage) Text() string              { return m.Message }

// Sink presents notifications. Notify must not block.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// Tee forwards every notification to all sinks.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(n Notification) {
		for _, s := range sinks {
			s.Notify(n)
		}
	})
}

// Label returns the button label of n, if it has one.
func Label(n Notification) string {
	switch m := n.(type) {
	case ErrorMessage:
		return m.Label
	case ActionMessage:
		return m.Label
	}
	return ""
}

// Run triggers the button action of n. It reports false when n has no
// action.
func Run(n Notification) bool {
	var action func()
	switch m := n.(type) {
	case ErrorMessage:
		action = m.Action
	case ActionMessage:
		action = m.Action
	}
	if action == nil {
		return false
	}
	action()
	return true
}
