//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"notify-lab/domain/event"
)

// EventSink consumes events fanned out by the bus.
// Consume runs on the publisher's goroutine; implementations must confine
// failures to their own connection and report them through the error.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// SinkFunc adapts a plain function to the EventSink interface.
type SinkFunc func(ctx context.Context, e event.Event) error

func (f SinkFunc) Consume(ctx context.Context, e event.Event) error {
	return f(ctx, e)
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
