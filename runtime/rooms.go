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

// RoomManager creates rooms, authorizes joins and moves sessions in and out of rooms.
type RoomManager struct {
	log         *slog.Logger
	store       repositories.IDirectoryStore
	exec        *Executor
	registry    *ConnectionRegistry
	presence    *RoomPresence
	broadcaster *PresenceBroadcaster
}

func NewRoomManager(log *slog.Logger, store repositories.IDirectoryStore, exec *Executor,
	registry *ConnectionRegistry, presence *RoomPresence, broadcaster *PresenceBroadcaster) *RoomManager {
	return &RoomManager{
		log:         log,
		store:       store,
		exec:        exec,
		registry:    registry,
		presence:    presence,
		broadcaster: broadcaster,
	}
}

// CreateRoom persists a room owned by the session user and the owner's membership,
// then live-joins the creator. Any store failure is reported as ErrPersistenceFailed
// and leaves the live indices untouched.
//
// The two writes are not transactional: a room can remain without its owner membership
// when the second write fails. The owner can still join it if it is public.
func (m *RoomManager) CreateRoom(ctx context.Context, session *Session, name string, isPrivate bool) (domain.Room, error) {
	room, err := m.store.CreateRoom(ctx, repositories.NewRoom{
		Name:      name,
		IsPrivate: isPrivate,
		OwnerID:   session.UserID(),
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("%w: create room: %w", errors.ErrPersistenceFailed, err)
	}

	if _, err = m.store.CreateMembership(ctx, session.UserID(), room.ID); err != nil {
		m.log.Error("Room persisted without its owner membership",
			"room_id", room.ID, "owner_id", session.UserID(), "error", err)
		return domain.Room{}, fmt.Errorf("%w: create owner membership: %w", errors.ErrPersistenceFailed, err)
	}
	observability.RoomsCreated.Inc()

	m.Enter(session, room.ID, event.NewRoomCreated(room))
	return room, nil
}

// AuthorizeJoin allows any existing public room, and a private room only with a membership record.
func (m *RoomManager) AuthorizeJoin(ctx context.Context, userID domain.UserID, roomID domain.RoomID) error {
	room, err := m.store.FindRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.ErrRoomNotFound
		}
		return fmt.Errorf("find room %s: %w", roomID, err)
	}
	if !room.IsPrivate {
		return nil
	}

	if _, err = m.store.FindMembership(ctx, userID, roomID); err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			m.log.Warn("Membership lookup failed, join refused",
				"room_id", roomID, "user_id", userID, "error", err)
		}
		return errors.ErrNotAMember
	}
	return nil
}

// Enter subscribes the session's connection to the room, adds its user to the room
// presence, acknowledges with ack and broadcasts the new room presence.
// Nothing happens if the connection is already gone.
func (m *RoomManager) Enter(session *Session, roomID domain.RoomID, ack event.Envelope) bool {
	entered := false
	m.exec.Run(func() {
		if !m.registry.Subscribe(session.ConnID, roomID) {
			m.log.Debug("Connection gone before entering room", "conn_id", session.ConnID, "room_id", roomID)
			return
		}
		m.presence.Join(roomID, session.UserID())
		emit(m.log, session.Sink, ack)
		m.broadcaster.BroadcastRoom(roomID)
		entered = true
	})
	return entered
}

// Leave unsubscribes the session's connection from the room. The user leaves the room
// presence once none of their connections is subscribed to it anymore.
func (m *RoomManager) Leave(session *Session, roomID domain.RoomID) {
	m.exec.Run(func() {
		m.registry.Unsubscribe(session.ConnID, roomID)
		emit(m.log, session.Sink, event.NewRoomLeft(roomID))

		if m.registry.UserSubscribed(session.UserID(), roomID) {
			return
		}
		if m.presence.Leave(roomID, session.UserID()) {
			m.broadcaster.BroadcastRoom(roomID)
		}
	})
}
