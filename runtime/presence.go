package runtime

import (
	"chat-gateway/domain"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// RoomPresence is the LiveRoomIndex: room -> users currently joined through a live connection.
// A room key exists only while its set is non-empty.
type RoomPresence struct {
	mu    sync.RWMutex
	seq   uint64
	rooms map[domain.RoomID]map[domain.UserID]uint64 // user -> join order
}

func NewRoomPresence() *RoomPresence {
	return &RoomPresence{rooms: make(map[domain.RoomID]map[domain.UserID]uint64)}
}

// Join adds userID to the room and returns the member snapshot. Joining twice is a no-op.
func (p *RoomPresence) Join(roomID domain.RoomID, userID domain.UserID) []domain.UserID {
	p.mu.Lock()
	defer p.mu.Unlock()

	members, ok := p.rooms[roomID]
	if !ok {
		members = make(map[domain.UserID]uint64)
		p.rooms[roomID] = members
	}
	if _, ok := members[userID]; !ok {
		p.seq++
		members[userID] = p.seq
	}
	return snapshot(members)
}

// Leave removes userID from the room and reports whether the set changed.
func (p *RoomPresence) Leave(roomID domain.RoomID, userID domain.UserID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.leaveLocked(roomID, userID)
}

// LeaveAll removes userID from every room and returns the rooms that changed.
func (p *RoomPresence) LeaveAll(userID domain.UserID) []domain.RoomID {
	p.mu.Lock()
	defer p.mu.Unlock()

	var changed []domain.RoomID
	for roomID := range p.rooms {
		if p.leaveLocked(roomID, userID) {
			changed = append(changed, roomID)
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })
	return changed
}

func (p *RoomPresence) leaveLocked(roomID domain.RoomID, userID domain.UserID) bool {
	members, ok := p.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok := members[userID]; !ok {
		return false
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(p.rooms, roomID)
	}
	return true
}

// Members returns the users joined to roomID in join order, or nil for an unknown room.
func (p *RoomPresence) Members(roomID domain.RoomID) []domain.UserID {
	p.mu.RLock()
	defer p.mu.RUnlock()

	members, ok := p.rooms[roomID]
	if !ok {
		return nil
	}
	return snapshot(members)
}

func (p *RoomPresence) Contains(roomID domain.RoomID, userID domain.UserID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.rooms[roomID][userID]
	return ok
}

// Rooms returns the rooms with at least one member.
func (p *RoomPresence) Rooms() []domain.RoomID {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rooms := lo.Keys(p.rooms)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	return rooms
}

func (p *RoomPresence) RoomCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rooms)
}

func snapshot(members map[domain.UserID]uint64) []domain.UserID {
	users := lo.Keys(members)
	sort.Slice(users, func(i, j int) bool { return members[users[i]] < members[users[j]] })
	return users
}
