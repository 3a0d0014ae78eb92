package rooms

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Room is a single chat channel.
//
// numUsers counts live connections while conns counts them per username, so
// a username only leaves the member set once its last connection is gone.
type Room struct {
	ID   string
	Name string

	mu            sync.RWMutex
	conns         map[string]int // username -> live connections
	numUsers      int
	numReferences int
	pinned        bool
}

// Info is a read-only view of a room.
type Info struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	NumUsers      int      `json:"numUsers"`
	NumReferences int      `json:"numReferences"`
	Members       []string `json:"members"`
}

func NewRoom(id, name string) *Room {
	return &Room{
		ID:    id,
		Name:  name,
		conns: make(map[string]int),
	}
}

// AddMember registers one more connection for username. repeat is true when
// the username already held a connection, in which case the member set is
// left untouched.
func (r *Room) AddMember(username string) (repeat bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numUsers++
	r.conns[username]++
	return r.conns[username] > 1
}

// RemoveMember releases one connection of username. left reports whether
// that was the last one and the username dropped out of the member set.
// Releasing a username with no live connections is a no-op.
func (r *Room) RemoveMember(username string) (left bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.conns[username]
	if !ok {
		return false
	}
	r.numUsers--
	if n <= 1 {
		delete(r.conns, username)
		return true
	}
	r.conns[username] = n - 1
	return false
}

func (r *Room) Contains(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[username]
	return ok
}

func (r *Room) IncrementReferences() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numReferences++
	return r.numReferences
}

// DecrementReferences never goes below zero.
func (r *Room) DecrementReferences() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.numReferences > 0 {
		r.numReferences--
	}
	return r.numReferences
}

func (r *Room) NumUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.numUsers
}

func (r *Room) NumReferences() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.numReferences
}

// Members returns the distinct usernames, sorted.
func (r *Room) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membersLocked()
}

// Idle reports whether the room has neither live users nor references.
func (r *Room) Idle() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.numUsers == 0 && r.numReferences == 0
}

func (r *Room) Pinned() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pinned
}

func (r *Room) Info() Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Info{
		ID:            r.ID,
		Name:          r.Name,
		NumUsers:      r.numUsers,
		NumReferences: r.numReferences,
		Members:       r.membersLocked(),
	}
}

func (r *Room) membersLocked() []string {
	out := lo.Keys(r.conns)
	sort.Strings(out)
	return out
}
