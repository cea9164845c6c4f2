package event

import (
	"encoding/json"
	"testing"

	"notify-lab/domain"
	"notify-lab/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip_MessagePosted(t *testing.T) {
	req := require.New(t)
	alice := domain.User{ID: uuid.NewString(), Name: "Alice"}
	original := MessagePosted{ID: uuid.NewString(), Author: alice, Content: "hi"}

	// When the event is encoded then decoded
	env, err := Encode(original)
	req.NoError(err)
	req.Equal(MessagePostedType, env.Type)

	decoded, err := Decode(env)
	req.NoError(err)

	// Then the decoded event equals the original
	req.Equal(original, decoded)
}

func TestCodec_RoundTrip_JoinedAndLeft(t *testing.T) {
	req := require.New(t)
	bob := domain.User{ID: uuid.NewString(), Name: "Bob"}

	for _, original := range []Event{UserJoined{bob}, UserLeft{bob}} {
		env, err := Encode(original)
		req.NoError(err)
		req.Equal(original.Kind(), env.Type)

		decoded, err := Decode(env)
		req.NoError(err)
		req.Equal(original, decoded)
	}
}

func TestCodec_JoinedPayloadIsFlatIdentity(t *testing.T) {
	req := require.New(t)

	// Given a joined event for a known identity
	env, err := Encode(UserJoined{domain.User{ID: "u1", Name: "Alice"}})
	req.NoError(err)

	// Then the data payload is the identity object itself
	req.JSONEq(`{"id":"u1","name":"Alice"}`, string(env.Data))
}

func TestCodec_UnknownTagIsRejected(t *testing.T) {
	req := require.New(t)

	_, err := Decode(Envelope{Type: "Unknown", Data: json.RawMessage(`{}`)})

	req.ErrorIs(err, errors.ErrUnknownEventType)
}
