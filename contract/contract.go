//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-gateway/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker runs until its context ends or it fails.
// Restarting it is the supervisor's job.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerName labels a worker in supervision logs.
// Workers may provide Name() string; otherwise the type name is used.
func WorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	if named, ok := w.(interface{ Name() string }); ok {
		return named.Name()
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the outbound side of one live connection.
// Emit must not block: a full or closed sink returns an error instead.
type EventSink interface {
	Emit(e event.Envelope) error
}
