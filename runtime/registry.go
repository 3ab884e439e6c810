package runtime

import (
	"chat-gateway/contract"
	"chat-gateway/domain"
	"sort"
	"sync"

	"github.com/samber/lo"
)

type Set map[domain.ConnectionID]struct{}

// liveUser is one LiveUserIndex entry. since orders users by their first live connection.
type liveUser struct {
	since uint64
	conns Set
}

// Removal describes what a connection left behind when it was removed.
type Removal struct {
	UserID domain.UserID
	// Rooms the connection was subscribed to.
	Rooms []domain.RoomID
	// Offline is true when the connection was the last one of its user.
	Offline bool
}

// ConnectionRegistry maps live connections to authenticated users and back.
// It also tracks which rooms each connection is subscribed to, which is what
// room-scoped emission reaches.
type ConnectionRegistry struct {
	mu     sync.RWMutex
	seq    uint64
	users  map[domain.UserID]*liveUser                        // LiveUserIndex
	owners map[domain.ConnectionID]domain.UserID              // connection -> user, fixed at registration
	sinks  map[domain.ConnectionID]contract.EventSink         // connection -> outbound side
	joined map[domain.ConnectionID]map[domain.RoomID]struct{} // connection -> subscribed rooms
	rooms  map[domain.RoomID]Set                              // room -> subscribed connections
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		users:  make(map[domain.UserID]*liveUser),
		owners: make(map[domain.ConnectionID]domain.UserID),
		sinks:  make(map[domain.ConnectionID]contract.EventSink),
		joined: make(map[domain.ConnectionID]map[domain.RoomID]struct{}),
		rooms:  make(map[domain.RoomID]Set),
	}
}

// Register adds connID to LiveUserIndex[userID], creating the entry if absent.
// A connection keeps the identity it was first registered with.
func (r *ConnectionRegistry) Register(connID domain.ConnectionID, userID domain.UserID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[connID]; ok {
		return
	}
	r.owners[connID] = userID
	r.sinks[connID] = sink

	entry, ok := r.users[userID]
	if !ok {
		r.seq++
		entry = &liveUser{since: r.seq, conns: make(Set)}
		r.users[userID] = entry
	}
	entry.conns[connID] = struct{}{}
}

// Remove drops a connection and its room subscriptions.
// It returns false when the connection was never registered.
func (r *ConnectionRegistry) Remove(connID domain.ConnectionID) (Removal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[connID]
	if !ok {
		return Removal{}, false
	}
	delete(r.owners, connID)
	delete(r.sinks, connID)

	removal := Removal{UserID: userID}
	for roomID := range r.joined[connID] {
		removal.Rooms = append(removal.Rooms, roomID)
		r.unsubscribeLocked(connID, roomID)
	}
	delete(r.joined, connID)
	sort.Slice(removal.Rooms, func(i, j int) bool { return removal.Rooms[i] < removal.Rooms[j] })

	if entry, ok := r.users[userID]; ok {
		delete(entry.conns, connID)
		if len(entry.conns) == 0 {
			delete(r.users, userID)
			removal.Offline = true
		}
	}
	return removal, true
}

// Subscribe attaches a registered connection to a room's emission scope.
// It returns false when the connection is no longer registered.
func (r *ConnectionRegistry) Subscribe(connID domain.ConnectionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[connID]; !ok {
		return false
	}
	if _, ok := r.joined[connID]; !ok {
		r.joined[connID] = make(map[domain.RoomID]struct{})
	}
	r.joined[connID][roomID] = struct{}{}

	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(Set)
	}
	r.rooms[roomID][connID] = struct{}{}
	return true
}

// Unsubscribe detaches a connection from a room. It returns false if it was not subscribed.
func (r *ConnectionRegistry) Unsubscribe(connID domain.ConnectionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms, ok := r.joined[connID]
	if !ok {
		return false
	}
	if _, ok := rooms[roomID]; !ok {
		return false
	}
	r.unsubscribeLocked(connID, roomID)
	delete(rooms, roomID)
	if len(rooms) == 0 {
		delete(r.joined, connID)
	}
	return true
}

func (r *ConnectionRegistry) unsubscribeLocked(connID domain.ConnectionID, roomID domain.RoomID) {
	if members, ok := r.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
}

// UserSubscribed reports whether any live connection of userID is subscribed to roomID.
func (r *ConnectionRegistry) UserSubscribed(userID domain.UserID, roomID domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userID]
	if !ok {
		return false
	}
	for connID := range entry.conns {
		if _, ok := r.joined[connID][roomID]; ok {
			return true
		}
	}
	return false
}

// OnlineUsers returns the keys of LiveUserIndex ordered by first connection.
func (r *ConnectionRegistry) OnlineUsers() []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := lo.Keys(r.users)
	sort.Slice(ids, func(i, j int) bool { return r.users[ids[i]].since < r.users[ids[j]].since })
	return ids
}

// Connections returns the live connection ids of a user.
func (r *ConnectionRegistry) Connections(userID domain.UserID) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userID]
	if !ok {
		return nil
	}
	return lo.Keys(entry.conns)
}

func (r *ConnectionRegistry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Values(r.sinks)
}

// SinksForRoom returns the outbound side of every connection subscribed to roomID,
// or nil when nobody is.
func (r *ConnectionRegistry) SinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connID := range members {
		if sink, exists := r.sinks[connID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

func (r *ConnectionRegistry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owners)
}

func (r *ConnectionRegistry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
