package chat

import (
	"slices"
	"sync"
)

// Registry tracks every live client by user id and the set of clients
// subscribed to each project room. Both mappings are shared between the
// per-connection goroutines and the request handlers that trigger
// broadcasts, so each is guarded by its own mutex.
type Registry struct {
	usersLock sync.RWMutex
	users     map[int]*Client

	roomsLock sync.RWMutex
	rooms     map[int][]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[int]*Client),
		rooms: make(map[int][]*Client),
	}
}

// Register stores c as the current client for userId, replacing any previous
// entry. The replaced client is not closed here; its writes fail on their
// own and broadcast pruning removes it from any rooms it joined.
func (reg *Registry) Register(userId int, c *Client) {
	reg.usersLock.Lock()
	defer reg.usersLock.Unlock()

	reg.users[userId] = c
}

// Unregister removes the entry for userId. Removing an absent user is a
// no-op.
func (reg *Registry) Unregister(userId int) {
	reg.usersLock.Lock()
	defer reg.usersLock.Unlock()

	delete(reg.users, userId)
}

// unregisterClient removes the entry for userId only if c is still the
// registered client, so a stale connection's cleanup never evicts its
// replacement.
func (reg *Registry) unregisterClient(userId int, c *Client) bool {
	reg.usersLock.Lock()
	defer reg.usersLock.Unlock()

	if reg.users[userId] != c {
		return false
	}

	delete(reg.users, userId)
	return true
}

func (reg *Registry) Lookup(userId int) (*Client, bool) {
	reg.usersLock.RLock()
	defer reg.usersLock.RUnlock()

	c, ok := reg.users[userId]
	return c, ok
}

func (reg *Registry) clients() []*Client {
	reg.usersLock.RLock()
	defer reg.usersLock.RUnlock()

	cs := make([]*Client, 0, len(reg.users))
	for _, c := range reg.users {
		cs = append(cs, c)
	}
	return cs
}

// JoinRoom adds c to the project's room. A client already in the room is not
// added twice, so a single broadcast never reaches it twice.
func (reg *Registry) JoinRoom(projectId int, c *Client) {
	reg.roomsLock.Lock()
	defer reg.roomsLock.Unlock()

	if slices.Contains(reg.rooms[projectId], c) {
		return
	}

	reg.rooms[projectId] = append(reg.rooms[projectId], c)
}

// RemoveFromRoom drops c from the project's room, if present. It does not
// touch the user mapping.
func (reg *Registry) RemoveFromRoom(projectId int, c *Client) {
	reg.roomsLock.Lock()
	defer reg.roomsLock.Unlock()

	members := reg.rooms[projectId]
	i := slices.Index(members, c)
	if i < 0 {
		return
	}

	reg.rooms[projectId] = slices.Delete(members, i, i+1)
	if len(reg.rooms[projectId]) == 0 {
		delete(reg.rooms, projectId)
	}
}

// RoomMembers returns a snapshot of the project's room in join order. The
// snapshot is safe to iterate while membership changes concurrently; members
// may have died since the snapshot was taken.
func (reg *Registry) RoomMembers(projectId int) []*Client {
	reg.roomsLock.RLock()
	defer reg.roomsLock.RUnlock()

	return slices.Clone(reg.rooms[projectId])
}
