package chat

import (
	"context"
	"errors"
	"hash/fnv"
	"sort"
	"sync"

	"chatrooms/internal/metrics"
	"chatrooms/internal/rooms"
	"chatrooms/internal/session"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const sessionLockStripes = 64

// Peer is the transport endpoint of one connection. Send must not block;
// it reports false when the event had to be dropped.
type Peer interface {
	Send(ev Event) bool
}

// Coordinator serializes every membership, reference count and registry
// change behind one mutex, and fans events out to room groups while holding
// it so members observe events of a room in the order they were produced.
//
// Session reads and writes happen outside that mutex, under a per-session
// stripe lock, so a slow session store never stalls other rooms.
type Coordinator struct {
	registry *rooms.Registry
	store    session.Store
	lobbyID  string

	mu     sync.Mutex
	groups map[string]map[*Conn]struct{} // room id -> attached connections

	sessLocks [sessionLockStripes]sync.Mutex
}

func NewCoordinator(registry *rooms.Registry, store session.Store, lobbyID string) *Coordinator {
	return &Coordinator{
		registry: registry,
		store:    store,
		lobbyID:  lobbyID,
		groups:   make(map[string]map[*Conn]struct{}),
	}
}

func (co *Coordinator) Registry() *rooms.Registry { return co.registry }

// Connect registers a fresh connection for sessionID.
func (co *Coordinator) Connect(sessionID string, peer Peer) *Conn {
	metrics.ConnectionsActive.Inc()
	return &Conn{
		ID:        uuid.NewString(),
		sessionID: sessionID,
		peer:      peer,
		co:        co,
	}
}

// Navigate records a page visit of roomID for the session: the bookmark
// snapshot is taken first, then the room is bookmarked.
func (co *Coordinator) Navigate(ctx context.Context, sessionID, roomID string) (rooms.Info, error) {
	unlock := co.lockSession(sessionID)
	defer unlock()

	sess, err := co.store.Load(ctx, sessionID)
	if err != nil {
		return rooms.Info{}, err
	}

	co.mu.Lock()
	room, ok := co.registry.Resolve(roomID)
	if !ok {
		co.mu.Unlock()
		return rooms.Info{}, rooms.ErrRoomNotFound
	}
	sess.SnapshotPrevious()
	sess.Bookmark(room.Name, room.ID)
	info := room.Info()
	co.mu.Unlock()

	return info, co.store.Save(ctx, sess)
}

// SetUsername stores the display name chosen for the session.
func (co *Coordinator) SetUsername(ctx context.Context, sessionID, username string) error {
	unlock := co.lockSession(sessionID)
	defer unlock()

	sess, err := co.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Username = username
	return co.store.Save(ctx, sess)
}

// CreateRoom registers a new room, generating an id when none is given.
func (co *Coordinator) CreateRoom(roomName, roomID string) (string, error) {
	if roomID == "" {
		roomID = uuid.NewString()
	}
	co.mu.Lock()
	defer co.mu.Unlock()
	if _, err := co.registry.Create(roomID, roomName); err != nil {
		return "", err
	}
	return roomID, nil
}

// ReleaseBookmark drops roomName from the session outside of any live
// connection. Once the session is saved the room loses one reference and is
// deleted if idle; a failed save leaves the room untouched.
func (co *Coordinator) ReleaseBookmark(ctx context.Context, sessionID, roomName string) error {
	unlock := co.lockSession(sessionID)
	defer unlock()

	sess, err := co.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	roomID, ok := sess.Unbookmark(roomName)
	if !ok {
		return ErrBookmarkNotFound
	}
	if err := co.store.Save(ctx, sess); err != nil {
		return err
	}

	co.mu.Lock()
	defer co.mu.Unlock()
	return co.releaseLocked(roomID)
}

func (co *Coordinator) RoomInfo(roomID string) (rooms.Info, bool) {
	room, ok := co.registry.Resolve(roomID)
	if !ok {
		return rooms.Info{}, false
	}
	return room.Info(), true
}

// releaseLocked drops one reference of roomID and collects the room when
// nothing holds it any more. Callers hold co.mu and have already saved the
// session without the bookmark.
func (co *Coordinator) releaseLocked(roomID string) error {
	room, ok := co.registry.Resolve(roomID)
	if !ok {
		return nil
	}
	refs := room.DecrementReferences()
	zap.L().Debug("chat.reference_released",
		zap.String("room_id", roomID),
		zap.Int("num_references", refs),
		zap.Int("num_users", room.NumUsers()),
	)
	if !room.Idle() {
		return nil
	}
	if err := co.registry.Remove(roomID); err != nil && !errors.Is(err, rooms.ErrRoomPinned) {
		return err
	}
	return nil
}

func (co *Coordinator) attachLocked(roomID string, c *Conn) {
	g, ok := co.groups[roomID]
	if !ok {
		g = make(map[*Conn]struct{})
		co.groups[roomID] = g
	}
	g[c] = struct{}{}
}

func (co *Coordinator) detachLocked(roomID string, c *Conn) {
	g, ok := co.groups[roomID]
	if !ok {
		return
	}
	delete(g, c)
	if len(g) == 0 {
		delete(co.groups, roomID)
	}
}

// broadcastLocked sends ev to every connection attached to roomID except
// from. A full peer drops the event without affecting the others.
func (co *Coordinator) broadcastLocked(roomID string, from *Conn, ev Event) {
	for c := range co.groups[roomID] {
		if c == from {
			continue
		}
		if !c.peer.Send(ev) {
			metrics.DroppedFrames.Inc()
			zap.L().Warn("chat.broadcast_dropped",
				zap.String("room_id", roomID),
				zap.String("conn_id", c.ID),
				zap.String("event", ev.Name),
			)
		}
	}
	metrics.Broadcasts.WithLabelValues(ev.Name).Inc()
}

// lockSession serializes load-modify-save cycles of one session.
func (co *Coordinator) lockSession(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	m := &co.sessLocks[h.Sum32()%sessionLockStripes]
	m.Lock()
	return m.Unlock
}

func sortedNames(userRooms map[string]string) []string {
	names := lo.Keys(userRooms)
	sort.Strings(names)
	return names
}
