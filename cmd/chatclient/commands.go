package main

import (
	"chat-gateway/domain/event"
	"fmt"
	"strings"
)

// command is one outbound frame built from a line typed by the user.
type command struct {
	Event event.Name     `json:"event"`
	Data  map[string]any `json:"data"`
}

const usage = `/join <roomId>  /leave <roomId>  /create <name> [private]  /room <roomId>  /quit
anything else is sent to the current room`

// parseLine turns a typed line into a command. current is the room plain text goes to;
// a /room line changes it and returns no command.
func parseLine(line string, current *string) (*command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	if !strings.HasPrefix(line, "/") {
		if *current == "" {
			return nil, fmt.Errorf("no current room, use /join or /room first")
		}
		return &command{Event: event.MessageSend, Data: map[string]any{"roomId": *current, "content": line}}, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/join":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: /join <roomId>")
		}
		*current = fields[1]
		return &command{Event: event.RoomJoin, Data: map[string]any{"roomId": fields[1]}}, nil
	case "/leave":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: /leave <roomId>")
		}
		if *current == fields[1] {
			*current = ""
		}
		return &command{Event: event.RoomLeave, Data: map[string]any{"roomId": fields[1]}}, nil
	case "/create":
		if len(fields) < 2 {
			return nil, fmt.Errorf("usage: /create <name> [private]")
		}
		private := fields[len(fields)-1] == "private"
		nameFields := fields[1:]
		if private && len(nameFields) > 1 {
			nameFields = nameFields[:len(nameFields)-1]
		} else {
			private = false
		}
		return &command{Event: event.RoomCreate, Data: map[string]any{
			"name":      strings.Join(nameFields, " "),
			"isPrivate": private,
		}}, nil
	case "/room":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: /room <roomId>")
		}
		*current = fields[1]
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown command %s\n%s", fields[0], usage)
	}
}
