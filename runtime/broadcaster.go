package runtime

import (
	"chat-gateway/domain"
	"chat-gateway/domain/event"
	"chat-gateway/repositories"
	"context"
	"fmt"
	"log/slog"
)

// PresenceBroadcaster emits global and per-room presence snapshots.
// Snapshots are read at call time; there is no ordering with concurrent mutations
// beyond the event that triggered the broadcast.
type PresenceBroadcaster struct {
	log      *slog.Logger
	store    repositories.IDirectoryStore
	registry *ConnectionRegistry
	presence *RoomPresence
}

func NewPresenceBroadcaster(log *slog.Logger, store repositories.IDirectoryStore,
	registry *ConnectionRegistry, presence *RoomPresence) *PresenceBroadcaster {
	return &PresenceBroadcaster{log: log, store: store, registry: registry, presence: presence}
}

// BroadcastGlobal sends presence:global to every live connection.
// count is the number of online identities, users the ones the directory resolved.
func (b *PresenceBroadcaster) BroadcastGlobal(ctx context.Context) error {
	online := b.registry.OnlineUsers()
	users, err := b.store.FindUsersByIDs(ctx, online)
	if err != nil {
		return fmt.Errorf("resolve online users: %w", err)
	}
	emitAll(b.log, b.registry.AllSinks(), event.NewGlobalPresence(len(online), users))
	return nil
}

// BroadcastRoom sends room:presence to the connections subscribed to roomID.
func (b *PresenceBroadcaster) BroadcastRoom(roomID domain.RoomID) {
	members := b.presence.Members(roomID)
	emitAll(b.log, b.registry.SinksForRoom(roomID), event.NewRoomPresence(roomID, members))
}
