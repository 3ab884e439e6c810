package gateway

import (
	"chat-gateway/auth"
	"chat-gateway/domain"
	"chat-gateway/domain/event"
	"chat-gateway/errors"
	"chat-gateway/runtime"
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// Frame is the shape of every inbound message.
type Frame struct {
	Event event.Name      `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

type CreateRoomRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	IsPrivate *bool  `json:"isPrivate"`
}

type SendMessageRequest struct {
	RoomID  string `json:"roomId" validate:"required"`
	Content string `json:"content"`
}

// ContentFilter rewrites message content before it is persisted.
type ContentFilter interface {
	Filter(content string) string
}

// errorEvents names the event a failed command is reported on.
var errorEvents = map[event.Name]event.Name{
	event.RoomJoin:    event.RoomJoinError,
	event.RoomCreate:  event.RoomCreateError,
	event.MessageSend: event.MessageSendError,
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", errors.ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return auth.ValidateStruct(v)
}

// dispatch routes one inbound frame to the gateway. Commands of one connection run
// in the order they were read. Unknown events are ignored.
func (s *Server) dispatch(ctx context.Context, session *runtime.Session, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.log.Debug("Discarding malformed frame", "conn_id", session.ConnID, "error", err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Handler panic recovered", "conn_id", session.ConnID, "event", frame.Event, "panic", r)
			if name, ok := errorEvents[frame.Event]; ok {
				s.gateway.Reject(session, name, fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r))
			}
		}
	}()

	switch frame.Event {
	case event.RoomJoin:
		var req JoinRoomRequest
		if err := decode(frame.Data, &req); err != nil {
			s.gateway.Reject(session, event.RoomJoinError, err)
			return
		}
		_ = s.gateway.JoinRoom(ctx, session, domain.RoomID(req.RoomID))

	case event.RoomLeave:
		var req LeaveRoomRequest
		if err := decode(frame.Data, &req); err != nil {
			s.log.Debug("Discarding invalid leave", "conn_id", session.ConnID, "error", err)
			return
		}
		s.gateway.LeaveRoom(ctx, session, domain.RoomID(req.RoomID))

	case event.RoomCreate:
		var req CreateRoomRequest
		if err := decode(frame.Data, &req); err != nil {
			s.gateway.Reject(session, event.RoomCreateError, err)
			return
		}
		_, _ = s.gateway.CreateRoom(ctx, session, req.Name, lo.FromPtr(req.IsPrivate))

	case event.MessageSend:
		var req SendMessageRequest
		if err := decode(frame.Data, &req); err != nil {
			s.gateway.Reject(session, event.MessageSendError, err)
			return
		}
		content := req.Content
		if s.filter != nil {
			content = s.filter.Filter(content)
		}
		_, _ = s.gateway.SendMessage(ctx, session, domain.RoomID(req.RoomID), content)

	default:
		s.log.Debug("Ignoring unknown event", "conn_id", session.ConnID, "event", frame.Event)
	}
}
