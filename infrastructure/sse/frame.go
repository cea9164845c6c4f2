// Package sse implements the wire framing of the event stream: one JSON
// envelope per Server-Sent Events frame, under a fixed "message" event name.
package sse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"notify-lab/domain/event"
	"notify-lab/errors"
)

// EventName is the SSE event field carried by every frame.
const EventName = "message"

// Marshal renders one envelope as a single frame:
//
//	event: message\n
//	data: <json envelope>\n\n
func Marshal(env event.Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding frame payload: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("event: ")
	buf.WriteString(EventName)
	buf.WriteString("\ndata: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

// Reader decodes envelopes from a frame stream on the consumer side.
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next envelope, or io.EOF once the stream is drained.
// Frames whose data is not a valid envelope yield ErrMalformedFrame.
func (r *Reader) Next() (event.Envelope, error) {
	var data []byte
	seen := false

	for r.scanner.Scan() {
		line := r.scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			value := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			if seen {
				// Consecutive data fields are joined with a newline.
				data = append(data, '\n')
			}
			data = append(data, value...)
			seen = true
		case line == "":
			if !seen {
				continue
			}
			var env event.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				return event.Envelope{}, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
			}
			return env, nil
		}
	}

	if err := r.scanner.Err(); err != nil {
		return event.Envelope{}, err
	}
	return event.Envelope{}, io.EOF
}
