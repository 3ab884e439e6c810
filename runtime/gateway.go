// Package runtime holds the live state of the chat gateway: who is connected,
// who is present in which room, and how events reach them.
// It does not know about the transport; connections are seen as EventSinks.
package runtime

import (
	"chat-gateway/auth"
	"chat-gateway/contract"
	"chat-gateway/domain"
	"chat-gateway/domain/event"
	"chat-gateway/errors"
	"chat-gateway/observability"
	"chat-gateway/repositories"
	"context"
	"fmt"
	"log/slog"
)

const (
	authFailed       = "Authentication failed"
	joinFailed       = "Failed to join room"
	createRoomFailed = "Failed to create room"
	sendFailed       = "Failed to send message"
)

// Gateway orchestrates the connection lifecycle and the commands a connection can issue.
// Every command reports its failure to the requesting connection only.
type Gateway struct {
	log         *slog.Logger
	verifier    auth.Verifier
	store       repositories.IDirectoryStore
	exec        *Executor
	registry    *ConnectionRegistry
	presence    *RoomPresence
	broadcaster *PresenceBroadcaster
	rooms       *RoomManager
	fanout      *MessageFanout
}

func NewGateway(log *slog.Logger, verifier auth.Verifier, store repositories.IDirectoryStore) *Gateway {
	exec := NewExecutor()
	registry := NewConnectionRegistry()
	presence := NewRoomPresence()
	broadcaster := NewPresenceBroadcaster(log, store, registry, presence)
	return &Gateway{
		log:         log,
		verifier:    verifier,
		store:       store,
		exec:        exec,
		registry:    registry,
		presence:    presence,
		broadcaster: broadcaster,
		rooms:       NewRoomManager(log, store, exec, registry, presence, broadcaster),
		fanout:      NewMessageFanout(log, store, exec, registry),
	}
}

// Authenticate resolves a bearer token to a known user.
func (g *Gateway) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, errors.ErrMissingToken
	}
	userID, err := g.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidToken) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("%w: %w", errors.ErrInvalidToken, err)
	}
	if userID == "" {
		return domain.User{}, errors.ErrInvalidToken
	}

	user, err := g.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return domain.User{}, errors.ErrUnknownUser
		}
		return domain.User{}, fmt.Errorf("find user %s: %w", userID, err)
	}
	return user, nil
}

// Connect authenticates a new connection and registers it.
// On failure the reason is emitted as an error event and the caller must close the connection.
// On success the connection receives connected, then everyone receives the global presence.
func (g *Gateway) Connect(ctx context.Context, connID domain.ConnectionID, token string, sink contract.EventSink) (*Session, error) {
	user, err := g.Authenticate(ctx, token)
	if err != nil {
		reason := errors.MapToMessage(err, authFailed)
		observability.AuthFailures.WithLabelValues(reason).Inc()
		g.log.Info("Connection rejected", "conn_id", connID, "reason", reason, "error", err)
		emit(g.log, sink, event.NewError(event.Error, reason))
		return nil, err
	}

	session := &Session{ConnID: connID, User: user, Sink: sink}
	g.exec.Run(func() {
		g.registry.Register(connID, user.ID, sink)
		emit(g.log, sink, event.NewConnected(user))
	})
	g.log.Info("Connection authenticated", "conn_id", connID, "user_id", user.ID)

	g.broadcastGlobal(ctx)
	return session, nil
}

// Disconnect removes a connection and withdraws its user from the rooms no other
// connection of theirs is still subscribed to. Unknown connections are ignored.
func (g *Gateway) Disconnect(ctx context.Context, connID domain.ConnectionID) {
	removed := false
	g.exec.Run(func() {
		removal, ok := g.registry.Remove(connID)
		if !ok {
			return
		}
		removed = true

		var changed []domain.RoomID
		if removal.Offline {
			changed = g.presence.LeaveAll(removal.UserID)
		} else {
			for _, roomID := range removal.Rooms {
				if g.registry.UserSubscribed(removal.UserID, roomID) {
					continue
				}
				if g.presence.Leave(roomID, removal.UserID) {
					changed = append(changed, roomID)
				}
			}
		}
		for _, roomID := range changed {
			g.broadcaster.BroadcastRoom(roomID)
		}
		g.log.Info("Connection closed", "conn_id", connID, "user_id", removal.UserID,
			"offline", removal.Offline, "rooms_left", len(changed))
	})
	if removed {
		g.broadcastGlobal(ctx)
	}
}

func (g *Gateway) JoinRoom(ctx context.Context, session *Session, roomID domain.RoomID) error {
	if err := g.rooms.AuthorizeJoin(ctx, session.UserID(), roomID); err != nil {
		reason := errors.MapToMessage(err, joinFailed)
		observability.JoinRejections.WithLabelValues(reason).Inc()
		g.log.Debug("Join refused", "room_id", roomID, "user_id", session.UserID(), "error", err)
		emit(g.log, session.Sink, event.NewError(event.RoomJoinError, reason))
		return err
	}
	g.rooms.Enter(session, roomID, event.NewRoomJoined(roomID))
	return nil
}

func (g *Gateway) LeaveRoom(_ context.Context, session *Session, roomID domain.RoomID) {
	g.rooms.Leave(session, roomID)
}

func (g *Gateway) CreateRoom(ctx context.Context, session *Session, name string, isPrivate bool) (domain.Room, error) {
	room, err := g.rooms.CreateRoom(ctx, session, name, isPrivate)
	if err != nil {
		g.log.Error("Room creation failed", "user_id", session.UserID(), "error", err)
		emit(g.log, session.Sink, event.NewError(event.RoomCreateError, createRoomFailed))
		return domain.Room{}, err
	}
	return room, nil
}

func (g *Gateway) SendMessage(ctx context.Context, session *Session, roomID domain.RoomID, content string) (domain.Message, error) {
	msg, err := g.fanout.Send(ctx, roomID, session.UserID(), content)
	if err != nil {
		g.log.Error("Message not sent", "room_id", roomID, "user_id", session.UserID(), "error", err)
		emit(g.log, session.Sink, event.NewError(event.MessageSendError, sendFailed))
		return domain.Message{}, err
	}
	return msg, nil
}

// Reject reports a command failure that happened before reaching the gateway,
// such as a malformed payload, on the command's error event.
func (g *Gateway) Reject(session *Session, name event.Name, err error) {
	var fallback string
	switch name {
	case event.RoomJoinError:
		fallback = joinFailed
	case event.RoomCreateError:
		fallback = createRoomFailed
	case event.MessageSendError:
		fallback = sendFailed
	default:
		fallback = "Request failed"
	}
	emit(g.log, session.Sink, event.NewError(name, errors.MapToMessage(err, fallback)))
}

// Stats implements observability.StatsProvider.
func (g *Gateway) Stats() observability.GatewayStats {
	return observability.GatewayStats{
		Connections: g.registry.ConnectionCount(),
		OnlineUsers: g.registry.OnlineCount(),
		ActiveRooms: g.presence.RoomCount(),
	}
}

// broadcastGlobal contains a name lookup failure to a log line.
func (g *Gateway) broadcastGlobal(ctx context.Context) {
	if err := g.broadcaster.BroadcastGlobal(ctx); err != nil {
		g.log.Error("Global presence not broadcast", "error", err)
	}
}
