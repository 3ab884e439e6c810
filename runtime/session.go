package runtime

import (
	"chat-gateway/contract"
	"chat-gateway/domain"
	"chat-gateway/domain/event"
	"chat-gateway/observability"
	"log/slog"
)

// Session is the identity bound to one live connection, created once at authentication
// and handed to every handler invoked on that connection.
type Session struct {
	ConnID domain.ConnectionID
	User   domain.User
	Sink   contract.EventSink
}

func (s *Session) UserID() domain.UserID {
	return s.User.ID
}

// emit delivers an event without blocking. A refused event is counted and logged, never retried.
func emit(log *slog.Logger, sink contract.EventSink, e event.Envelope) {
	if err := sink.Emit(e); err != nil {
		observability.EventsDropped.WithLabelValues(string(e.Event)).Inc()
		log.Debug("Event not delivered", "event", e.Event, "error", err)
	}
}

func emitAll(log *slog.Logger, sinks []contract.EventSink, e event.Envelope) {
	for _, sink := range sinks {
		emit(log, sink, e)
	}
}
