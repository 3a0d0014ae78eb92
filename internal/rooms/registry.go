package rooms

import (
	"sync"

	"chatrooms/internal/metrics"

	"go.uber.org/zap"
)

// Registry owns every Room in the process, keyed by room id.
//
// Remove checks Idle under the registry lock, but Room membership and
// reference changes do not take it. Callers must serialize those changes
// with Remove themselves; chat.Coordinator does so with its own mutex.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (r *Registry) Resolve(id string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// GetOrCreate returns the room stored under id, creating an empty one when
// absent. Concurrent callers for the same id always get the same *Room.
func (r *Registry) GetOrCreate(id, name string) (room *Room, created bool) {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if ok {
		return room, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok = r.rooms[id]; ok {
		return room, false
	}
	room = NewRoom(id, name)
	r.rooms[id] = room
	metrics.RoomsActive.Set(float64(len(r.rooms)))
	zap.L().Debug("rooms.created", zap.String("room_id", id), zap.String("name", name))
	return room, true
}

// Create registers a brand new room. An id that is already taken is
// rejected with ErrRoomExists; the live room is never replaced.
func (r *Registry) Create(id, name string) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; ok {
		return nil, ErrRoomExists
	}
	room := NewRoom(id, name)
	r.rooms[id] = room
	metrics.RoomsActive.Set(float64(len(r.rooms)))
	zap.L().Debug("rooms.created", zap.String("room_id", id), zap.String("name", name))
	return room, nil
}

// Pin creates (or fetches) a room that Remove will never delete.
func (r *Registry) Pin(id, name string) *Room {
	room, _ := r.GetOrCreate(id, name)
	room.mu.Lock()
	room.pinned = true
	room.mu.Unlock()
	return room
}

// Remove deletes the room only when it has no users and no references.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	if room.Pinned() {
		return ErrRoomPinned
	}
	if !room.Idle() {
		return ErrRoomInUse
	}
	delete(r.rooms, id)
	metrics.RoomsActive.Set(float64(len(r.rooms)))
	zap.L().Debug("rooms.deleted", zap.String("room_id", id))
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
