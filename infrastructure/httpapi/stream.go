package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"notify-lab/domain"
	"notify-lab/domain/event"
	"notify-lab/errors"
	"notify-lab/infrastructure/sse"
)

// handleStream bridges one long-lived SSE connection to the bus.
//
// The identity is validated once, at open time, and reused unchanged for the
// leave announcement when the connection closes.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	identity := userPayload{ID: query.Get("id"), Name: query.Get("name")}
	if err := validate.Struct(identity); err != nil {
		s.clientError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.log.Error("Streaming not supported by transport")
		http.Error(w, errors.ErrStreamUnsupported.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	user := identity.toDomain()
	stream := newStreamConn(s.log, w, flusher, user)

	s.monitor.StreamOpened()
	unsubscribe := s.bus.Subscribe(stream)
	s.log.Info("Stream opened", "id", user.ID, "name", user.Name)

	// Park until the transport closes or a frame write fails, whichever
	// comes first. Both converge on a single teardown below.
	select {
	case <-r.Context().Done():
	case <-stream.closed:
	}

	unsubscribe()
	s.monitor.StreamClosed()
	s.service.Leave(context.WithoutCancel(r.Context()), user)
	s.log.Info("Stream closed", "id", user.ID, "name", user.Name)
}

// streamConn is the per-connection sink. Frames are written on the
// publisher's goroutine; a write failure marks the connection closed and is
// reported to the bus, which logs it and moves on to the next sink.
type streamConn struct {
	log     *slog.Logger
	writer  io.Writer
	flusher http.Flusher
	user    domain.User

	closed    chan struct{}
	closeOnce sync.Once
}

func newStreamConn(log *slog.Logger, writer io.Writer, flusher http.Flusher, user domain.User) *streamConn {
	return &streamConn{
		log:     log,
		writer:  writer,
		flusher: flusher,
		user:    user,
		closed:  make(chan struct{}),
	}
}

func (c *streamConn) Consume(_ context.Context, e event.Event) error {
	select {
	case <-c.closed:
		return errors.ErrStreamClosed
	default:
	}

	env, err := event.Encode(e)
	if err != nil {
		return err
	}
	frame, err := sse.Marshal(env)
	if err != nil {
		return err
	}

	if _, err := c.writer.Write(frame); err != nil {
		c.signalClose()
		return fmt.Errorf("writing frame to %s: %w", c.user.ID, err)
	}
	c.flusher.Flush()
	return nil
}

func (c *streamConn) signalClose() {
	c.closeOnce.Do(func() { close(c.closed) })
}
