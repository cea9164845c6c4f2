package services

import (
	"context"
	"log/slog"
	"testing"

	"notify-lab/domain"
	"notify-lab/domain/event"
	"notify-lab/mocks"
	"notify-lab/observability"
	"notify-lab/runtime"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNotifyService_RegisterBroadcastsJoined(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	monitor := observability.NewMonitor()
	bus := runtime.NewEventBus(slog.Default(), monitor)
	service := NewNotifyService(slog.Default(), bus, monitor)

	// Given one subscribed sink
	var received event.Event
	sink := mocks.NewMockEventSink(ctrl)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e event.Event) { received = e }).
		Return(nil).
		Times(1)
	bus.Subscribe(sink)

	// When a user registers
	user := service.Register(context.Background(), "Alice")

	// Then the response identity has a fresh id and the given name
	req.NotEmpty(user.ID)
	req.Equal("Alice", user.Name)

	// And the sink received exactly one joined event with that identity
	joined, ok := received.(event.UserJoined)
	req.True(ok)
	req.Equal(user, joined.User)
	req.Equal(uint64(1), monitor.GetLatest().UsersRegistered)
}

func TestNotifyService_SenderObservesOwnMessage(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	monitor := observability.NewMonitor()
	bus := runtime.NewEventBus(slog.Default(), monitor)
	service := NewNotifyService(slog.Default(), bus, monitor)

	// Given the sender's own stream subscription
	alice := domain.User{ID: "u1", Name: "Alice"}
	var received event.Event
	sink := mocks.NewMockEventSink(ctrl)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e event.Event) { received = e }).
		Return(nil).
		Times(1)
	bus.Subscribe(sink)

	// When the sender posts a message
	id := service.PostMessage(context.Background(), alice, "hi")

	// Then its own subscription observed the broadcast
	posted, ok := received.(event.MessagePosted)
	req.True(ok)
	req.NotEmpty(id)
	req.Equal(id, posted.ID)
	req.Equal("Alice", posted.Author.Name)
	req.Equal("hi", posted.Content)
}

func TestNotifyService_DistinctIDsPerMessage(t *testing.T) {
	req := require.New(t)

	monitor := observability.NewMonitor()
	bus := runtime.NewEventBus(slog.Default(), monitor)
	service := NewNotifyService(slog.Default(), bus, monitor)
	alice := domain.User{ID: "u1", Name: "Alice"}

	first := service.PostMessage(context.Background(), alice, "hi")
	second := service.PostMessage(context.Background(), alice, "hi again")

	req.NotEqual(first, second)
	req.Equal(uint64(2), monitor.GetLatest().MessagesPosted)
}
