package event

import (
	"notify-lab/domain"
)

// Type discriminates event variants on the wire.
type Type string

const (
	UserJoinedType    Type = "IdentityJoined"
	MessagePostedType Type = "MessagePosted"
	UserLeftType      Type = "IdentityLeft"
)

// Event is the closed set of facts broadcast to connected streams.
// Every variant carries enough data to be rendered without a follow-up lookup.
type Event interface {
	Kind() Type
}

// UserJoined is published when a new identity registers.
type UserJoined struct {
	domain.User
}

func (e UserJoined) Kind() Type { return UserJoinedType }

// MessagePosted is published when a registered identity posts a message.
type MessagePosted struct {
	ID      string      `json:"id"`
	Author  domain.User `json:"user"`
	Content string      `json:"message"`
}

func (e MessagePosted) Kind() Type { return MessagePostedType }

// UserLeft is published when a stream connection closes or fails.
// It carries the identity validated when the stream was opened; that identity
// is assumed to stay valid for the whole connection lifetime.
type UserLeft struct {
	domain.User
}

func (e UserLeft) Kind() Type { return UserLeftType }
