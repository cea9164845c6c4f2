package services

import (
	"context"
	"log/slog"

	"notify-lab/domain"
	"notify-lab/domain/event"
	"notify-lab/observability"
	"notify-lab/runtime"

	"github.com/google/uuid"
)

// NotifyService hosts the event producers. It owns no state beyond the
// injected bus: all fan-out goes through Publish, never through direct
// delivery to a connection.
type NotifyService struct {
	log     *slog.Logger
	bus     *runtime.EventBus
	monitor *observability.Monitor
}

func NewNotifyService(log *slog.Logger, bus *runtime.EventBus, monitor *observability.Monitor) *NotifyService {
	return &NotifyService{log: log, bus: bus, monitor: monitor}
}

// Register mints a fresh identity for name and announces it to every
// connected stream. The caller reuses the returned identity to post messages
// and to open its own stream.
func (s *NotifyService) Register(ctx context.Context, name string) domain.User {
	user := domain.User{ID: uuid.NewString(), Name: name}

	s.monitor.IncrUsersRegistered()
	s.bus.Publish(ctx, event.UserJoined{User: user})
	s.log.Info("User registered", "id", user.ID, "name", user.Name)

	return user
}

// PostMessage broadcasts content under a fresh message id and returns that
// id. The sender observes its own message through its stream subscription,
// not through the response.
func (s *NotifyService) PostMessage(ctx context.Context, author domain.User, content string) string {
	id := uuid.NewString()

	s.monitor.IncrMessagesPosted()
	s.bus.Publish(ctx, event.MessagePosted{ID: id, Author: author, Content: content})

	return id
}

// Leave announces the departure of an identity whose stream has closed.
func (s *NotifyService) Leave(ctx context.Context, user domain.User) {
	s.bus.Publish(ctx, event.UserLeft{User: user})
	s.log.Info("User left", "id", user.ID, "name", user.Name)
}
