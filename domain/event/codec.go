package event

import (
	"encoding/json"
	"fmt"

	"notify-lab/errors"
)

// Envelope is the tagged wire form of an Event: Type discriminates the
// variant, Data holds the variant payload unchanged.
type Envelope struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode wraps an event into its tagged envelope.
// The switch is exhaustive over the closed variant set: a variant without a
// case here is rejected instead of being silently dropped on the wire.
func Encode(e Event) (Envelope, error) {
	switch e.(type) {
	case UserJoined, MessagePosted, UserLeft:
		data, err := json.Marshal(e)
		if err != nil {
			return Envelope{}, fmt.Errorf("encoding %s payload: %w", e.Kind(), err)
		}
		return Envelope{Type: e.Kind(), Data: data}, nil
	default:
		return Envelope{}, fmt.Errorf("%w: %T", errors.ErrUnknownEventType, e)
	}
}

// Decode restores the concrete event from a tagged envelope.
// Each kind is handled exactly once; an unknown tag is an error.
func Decode(env Envelope) (Event, error) {
	switch env.Type {
	case UserJoinedType:
		var e UserJoined
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", env.Type, err)
		}
		return e, nil
	case MessagePostedType:
		var e MessagePosted
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", env.Type, err)
		}
		return e, nil
	case UserLeftType:
		var e UserLeft
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", env.Type, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEventType, env.Type)
	}
}
