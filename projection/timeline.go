// Package projection builds local display models from observed events.
// Handles message ordering and presence; does not emit events or interact
// with the transport directly.
package projection

import (
	"notify-lab/domain"
	"notify-lab/domain/event"
)

// Entry is one rendered message.
type Entry struct {
	ID     string
	Author domain.User
	Body   string
}

// Timeline holds a simple local message timeline.
type Timeline struct {
	Messages []Entry
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Consume(e event.Event) {
	switch evt := e.(type) {
	case event.MessagePosted:
		t.Messages = append(t.Messages, fromEvent(evt))
	}
}

func fromEvent(evt event.MessagePosted) Entry {
	return Entry{
		ID:     evt.ID,
		Author: evt.Author,
		Body:   evt.Content,
	}
}
