// Package event defines the events exchanged between the gateway and its clients.
// Every frame on the wire is an Envelope: an event name plus its payload.
package event

import (
	"chat-gateway/domain"
	"time"

	"github.com/samber/lo"
)

type Name string

// Client to server.
const (
	RoomJoin    Name = "room:join"
	RoomCreate  Name = "room:create"
	RoomLeave   Name = "room:leave"
	MessageSend Name = "message:send"
)

// Server to client.
const (
	Connected        Name = "connected"
	Error            Name = "error"
	RoomJoined       Name = "room:joined"
	RoomJoinError    Name = "room:join:error"
	RoomLeft         Name = "room:left"
	RoomPresence     Name = "room:presence"
	GlobalPresence   Name = "presence:global"
	RoomCreated      Name = "room:created"
	RoomCreateError  Name = "room:create:error"
	MessageNew       Name = "message:new"
	MessageSendError Name = "message:send:error"
)

type Envelope struct {
	Event Name `json:"event"`
	Data  any  `json:"data,omitempty"`
}

type ConnectedPayload struct {
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
}

type RoomRef struct {
	RoomID domain.RoomID `json:"roomId"`
}

type RoomPresencePayload struct {
	RoomID domain.RoomID   `json:"roomId"`
	Users  []domain.UserID `json:"users"`
}

type UserSummary struct {
	ID   domain.UserID `json:"id"`
	Name string        `json:"name"`
}

type GlobalPresencePayload struct {
	Count int           `json:"count"`
	Users []UserSummary `json:"users"`
}

type RoomPayload struct {
	ID        domain.RoomID `json:"id"`
	Name      string        `json:"name"`
	IsPrivate bool          `json:"isPrivate"`
	OwnerID   domain.UserID `json:"ownerId"`
	CreatedAt time.Time     `json:"createdAt"`
}

type MessagePayload struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	SenderID  domain.UserID `json:"senderId"`
	RoomID    domain.RoomID `json:"roomId"`
	CreatedAt time.Time     `json:"createdAt"`
	Sender    UserSummary   `json:"sender"`
}

func NewConnected(user domain.User) Envelope {
	return Envelope{Event: Connected, Data: ConnectedPayload{UserID: user.ID, Username: user.Name}}
}

// NewError builds a string-payload error event such as Error or RoomJoinError.
func NewError(name Name, reason string) Envelope {
	return Envelope{Event: name, Data: reason}
}

func NewRoomJoined(roomID domain.RoomID) Envelope {
	return Envelope{Event: RoomJoined, Data: RoomRef{RoomID: roomID}}
}

func NewRoomLeft(roomID domain.RoomID) Envelope {
	return Envelope{Event: RoomLeft, Data: RoomRef{RoomID: roomID}}
}

func NewRoomPresence(roomID domain.RoomID, users []domain.UserID) Envelope {
	if users == nil {
		users = []domain.UserID{}
	}
	return Envelope{Event: RoomPresence, Data: RoomPresencePayload{RoomID: roomID, Users: users}}
}

// NewGlobalPresence reports count as the number of online identities, which can exceed
// len(users) when a directory lookup misses a record.
func NewGlobalPresence(count int, users []domain.User) Envelope {
	return Envelope{Event: GlobalPresence, Data: GlobalPresencePayload{
		Count: count,
		Users: lo.Map(users, func(u domain.User, _ int) UserSummary {
			return UserSummary{ID: u.ID, Name: u.Name}
		}),
	}}
}

func NewRoomCreated(room domain.Room) Envelope {
	return Envelope{Event: RoomCreated, Data: RoomPayload{
		ID:        room.ID,
		Name:      room.Name,
		IsPrivate: room.IsPrivate,
		OwnerID:   room.OwnerID,
		CreatedAt: room.CreatedAt,
	}}
}

func NewMessage(msg domain.Message) Envelope {
	return Envelope{Event: MessageNew, Data: MessagePayload{
		ID:        msg.ID.String(),
		Content:   msg.Content,
		SenderID:  msg.SenderID,
		RoomID:    msg.RoomID,
		CreatedAt: msg.CreatedAt,
		Sender:    UserSummary{ID: msg.Sender.ID, Name: msg.Sender.Name},
	}}
}
