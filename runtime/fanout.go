package runtime

import (
	"chat-gateway/domain"
	"chat-gateway/domain/event"
	"chat-gateway/errors"
	"chat-gateway/observability"
	"chat-gateway/repositories"
	"context"
	"fmt"
	"log/slog"
)

// MessageFanout persists messages and broadcasts them to the live connections of their room.
//
// Concurrent sends on a room are broadcast in the order their persistence completes,
// not the order they were submitted. Each message reaches all recipients as one unit.
type MessageFanout struct {
	log      *slog.Logger
	store    repositories.IDirectoryStore
	exec     *Executor
	registry *ConnectionRegistry
}

func NewMessageFanout(log *slog.Logger, store repositories.IDirectoryStore,
	exec *Executor, registry *ConnectionRegistry) *MessageFanout {
	return &MessageFanout{log: log, store: store, exec: exec, registry: registry}
}

// Send does not check that the sender is joined to the room: with nobody subscribed,
// the message is stored and reaches zero connections.
func (f *MessageFanout) Send(ctx context.Context, roomID domain.RoomID, senderID domain.UserID, content string) (domain.Message, error) {
	msg, err := f.store.CreateMessage(ctx, repositories.NewMessage{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
	})
	if err != nil {
		observability.MessagesSent.WithLabelValues("failed").Inc()
		return domain.Message{}, fmt.Errorf("%w: create message: %w", errors.ErrPersistenceFailed, err)
	}
	observability.MessagesSent.WithLabelValues("persisted").Inc()

	f.exec.Run(func() {
		sinks := f.registry.SinksForRoom(roomID)
		emitAll(f.log, sinks, event.NewMessage(msg))
		observability.MessageRecipients.Observe(float64(len(sinks)))
	})
	return msg, nil
}
