package sse

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"notify-lab/domain"
	"notify-lab/domain/event"
	"notify-lab/errors"

	"github.com/stretchr/testify/require"
)

func TestMarshal_FrameShape(t *testing.T) {
	req := require.New(t)

	env, err := event.Encode(event.UserJoined{User: domain.User{ID: "u1", Name: "Alice"}})
	req.NoError(err)

	frame, err := Marshal(env)
	req.NoError(err)

	text := string(frame)
	req.True(strings.HasPrefix(text, "event: message\ndata: "))
	req.True(strings.HasSuffix(text, "\n\n"))
	req.Contains(text, `"type":"IdentityJoined"`)
}

func TestReader_WireRoundTrip(t *testing.T) {
	req := require.New(t)

	// Given two frames written back to back
	alice := domain.User{ID: "u1", Name: "Alice"}
	events := []event.Event{
		event.UserJoined{User: alice},
		event.MessagePosted{ID: "m1", Author: alice, Content: "hi"},
	}

	var wire bytes.Buffer
	for _, e := range events {
		env, err := event.Encode(e)
		req.NoError(err)
		frame, err := Marshal(env)
		req.NoError(err)
		wire.Write(frame)
	}

	// When the consumer drains the stream
	reader := NewReader(&wire)
	for _, want := range events {
		env, err := reader.Next()
		req.NoError(err)

		decoded, err := event.Decode(env)
		req.NoError(err)
		req.Equal(want, decoded)
	}

	// Then the stream ends cleanly
	_, err := reader.Next()
	req.ErrorIs(err, io.EOF)
}

func TestReader_MalformedDataIsReported(t *testing.T) {
	req := require.New(t)

	reader := NewReader(strings.NewReader("event: message\ndata: not-json\n\n"))

	_, err := reader.Next()
	req.ErrorIs(err, errors.ErrMalformedFrame)
}
