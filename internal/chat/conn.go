package chat

import (
	"context"
	"maps"

	"chatrooms/internal/metrics"
	"chatrooms/internal/rooms"
	"chatrooms/internal/session"

	"go.uber.org/zap"
)

// State of a connection. A connection only moves forward; Closed is terminal.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Conn is the coordinator-side state of one live transport channel.
// Every field below peer is guarded by the coordinator mutex.
type Conn struct {
	ID        string
	sessionID string
	peer      Peer
	co        *Coordinator

	state        State
	roomID       string
	roomName     string
	username     string
	userRooms    map[string]string
	isRepeatJoin bool
}

func (c *Conn) State() State {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	return c.state
}

func (c *Conn) RoomID() string {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	return c.roomID
}

func (c *Conn) Username() string {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	return c.username
}

func (c *Conn) IsRepeatJoin() bool {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	return c.isRepeatJoin
}

// Load attaches the connection to roomID. An unknown room answers
// pageNotFound and leaves the connection untouched. Without a session
// username the connection waits in Connecting for AddUser; otherwise it
// joins right away.
func (c *Conn) Load(ctx context.Context, roomID string) error {
	unlock := c.co.lockSession(c.sessionID)
	defer unlock()

	sess, err := c.co.store.Load(ctx, c.sessionID)
	if err != nil {
		return err
	}

	c.co.mu.Lock()
	defer c.co.mu.Unlock()

	switch c.state {
	case StateClosed:
		return ErrClosed
	case StateConnecting, StateJoined:
		return ErrAlreadyLoaded
	}

	room, ok := c.co.registry.Resolve(roomID)
	if !ok {
		c.emit(EventPageNotFound, nil)
		return rooms.ErrRoomNotFound
	}
	c.joinRoomLocked(sess, room.ID, room.Name)

	if sess.Username == "" {
		c.emit(EventNeedLogin, nil)
		return nil
	}
	if err := c.addUserLocked(sess, sess.Username); err != nil {
		return err
	}
	c.emit(EventChatReady, UsernameBody{Username: sess.Username})
	return nil
}

// AddUser joins the loaded room under username. A session without a
// username adopts this one, and that save happens before the join so a
// failed save leaves the connection waiting in Connecting.
func (c *Conn) AddUser(ctx context.Context, username string) error {
	unlock := c.co.lockSession(c.sessionID)
	defer unlock()

	sess, err := c.co.store.Load(ctx, c.sessionID)
	if err != nil {
		return err
	}

	c.co.mu.Lock()
	err = c.checkAddUserLocked()
	c.co.mu.Unlock()
	if err != nil {
		return err
	}

	if sess.Username == "" {
		sess.Username = username
		if err := c.co.store.Save(ctx, sess); err != nil {
			return err
		}
	}

	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	return c.addUserLocked(sess, username)
}

// CheckRoomName answers whether roomName is free among this connection's
// bookmarks.
func (c *Conn) CheckRoomName(roomName string) {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	if _, taken := c.userRooms[roomName]; taken {
		c.emit(EventRoomNameTaken, nil)
		return
	}
	c.emit(EventRoomNameAvailable, nil)
}

// CreateRoom registers a room and redirects the client to it.
func (c *Conn) CreateRoom(roomName, roomID string) error {
	id, err := c.co.CreateRoom(roomName, roomID)
	if err != nil {
		return err
	}
	c.co.mu.Lock()
	c.emit(EventRedirectToRoom, RedirectBody{ID: id})
	c.co.mu.Unlock()
	return nil
}

// CheckUsername passes when roomID exists and username is not a member.
func (c *Conn) CheckUsername(roomID, username string) {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	if room, ok := c.co.registry.Resolve(roomID); ok && !room.Contains(username) {
		c.emit(EventUsernamePassed, UsernameBody{Username: username})
		return
	}
	c.emit(EventUsernameFailed, nil)
}

// RemoveRoom releases the session's bookmark of roomName. The room this
// connection is currently in cannot be removed. Counts only change once the
// session has been saved without the bookmark.
func (c *Conn) RemoveRoom(ctx context.Context, roomName string) error {
	unlock := c.co.lockSession(c.sessionID)
	defer unlock()

	sess, err := c.co.store.Load(ctx, c.sessionID)
	if err != nil {
		return err
	}

	c.co.mu.Lock()
	if c.roomID != "" && roomName == c.roomName {
		c.emit(EventCannotRemoveRoom, nil)
		c.co.mu.Unlock()
		return ErrCurrentRoom
	}
	c.co.mu.Unlock()

	roomID, ok := sess.Unbookmark(roomName)
	if !ok {
		return ErrBookmarkNotFound
	}
	if err := c.co.store.Save(ctx, sess); err != nil {
		return err
	}

	c.co.mu.Lock()
	defer c.co.mu.Unlock()
	if err := c.co.releaseLocked(roomID); err != nil {
		return err
	}
	delete(c.userRooms, roomName)
	c.emit(EventRoomRemoved, RoomNameBody{RoomName: roomName})
	return nil
}

func (c *Conn) NewMessage(text string) error {
	return c.relay(EventNewMessage, func(username string) any {
		return MessageBody{Username: username, Message: text}
	})
}

func (c *Conn) Typing() error {
	return c.relay(EventTyping, func(username string) any {
		return UsernameBody{Username: username}
	})
}

func (c *Conn) StopTyping() error {
	return c.relay(EventStopTyping, func(username string) any {
		return UsernameBody{Username: username}
	})
}

// Disconnect tears the connection down. It is idempotent: only the first
// call changes counts or notifies the room.
func (c *Conn) Disconnect() {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()

	switch c.state {
	case StateClosed:
		return
	case StateJoined:
		c.co.detachLocked(c.roomID, c)
		if room, ok := c.co.registry.Resolve(c.roomID); ok && room.RemoveMember(c.username) {
			c.co.broadcastLocked(c.roomID, c, Event{
				Name: EventUserLeft,
				Body: UserCountBody{Username: c.username, NumUsers: room.NumUsers()},
			})
		}
	case StateConnecting:
		c.co.detachLocked(c.roomID, c)
	}

	zap.L().Debug("chat.disconnected",
		zap.String("conn_id", c.ID),
		zap.String("room_id", c.roomID),
		zap.String("state", c.state.String()),
		zap.Bool("repeat_join", c.isRepeatJoin),
	)
	c.state = StateClosed
	metrics.ConnectionsActive.Dec()
}

// joinRoomLocked attaches the connection to the room's broadcast group and
// copies the session bookmarks onto it.
func (c *Conn) joinRoomLocked(sess *session.Session, roomID, roomName string) {
	c.co.registry.GetOrCreate(roomID, roomName)
	c.co.attachLocked(roomID, c)
	c.roomID = roomID
	c.roomName = roomName
	c.state = StateConnecting

	if len(sess.UserRooms) > 0 {
		c.userRooms = maps.Clone(sess.UserRooms)
	} else {
		c.userRooms = map[string]string{roomName: roomID}
	}
}

func (c *Conn) checkAddUserLocked() error {
	switch c.state {
	case StateDisconnected:
		return ErrNoRoom
	case StateJoined:
		return ErrAlreadyJoined
	case StateClosed:
		return ErrClosed
	}
	return nil
}

func (c *Conn) addUserLocked(sess *session.Session, username string) error {
	if err := c.checkAddUserLocked(); err != nil {
		return err
	}

	// The room may have been collected while this connection waited for a
	// username; its reservation brings it back.
	room, _ := c.co.registry.GetOrCreate(c.roomID, c.roomName)

	c.username = username
	c.state = StateJoined
	c.isRepeatJoin = room.AddMember(username)

	if !c.isRepeatJoin {
		if !sess.WasPreviouslyVisited(room.Name) {
			room.IncrementReferences()
		}
		c.co.broadcastLocked(room.ID, c, Event{
			Name: EventUserJoined,
			Body: UserCountBody{Username: username, NumUsers: room.NumUsers()},
		})
		c.co.broadcastLocked(room.ID, c, Event{
			Name: EventProfileAdded,
			Body: UsernameBody{Username: username},
		})
	}

	zap.L().Debug("chat.user_added",
		zap.String("conn_id", c.ID),
		zap.String("room_id", room.ID),
		zap.String("username", username),
		zap.Bool("repeat_join", c.isRepeatJoin),
		zap.Int("num_users", room.NumUsers()),
		zap.Int("num_references", room.NumReferences()),
	)

	c.syncSidebarLocked(room)
	return nil
}

// syncSidebarLocked sends the joining connection the room stats, the member
// list and its bookmarked rooms.
func (c *Conn) syncSidebarLocked(room *rooms.Room) {
	c.emit(EventLoginStats, LoginStatsBody{NumUsers: room.NumUsers()})
	for _, member := range room.Members() {
		c.emit(EventProfileAdded, UsernameBody{Username: member})
	}
	for _, name := range sortedNames(c.userRooms) {
		id := c.userRooms[name]
		if id == c.co.lobbyID {
			if c.roomID == c.co.lobbyID {
				c.emit(EventHighlightLobby, nil)
			}
			continue
		}
		c.emit(EventRoomAdded, RoomAddedBody{
			RoomName:  name,
			RoomID:    id,
			IsCurrent: id == c.roomID,
		})
	}
}

// relay forwards an event from a joined connection to the rest of its room.
// A connection that never loaded a room is a caller bug and is rejected;
// one still waiting for a username is ignored.
func (c *Conn) relay(name string, body func(username string) any) error {
	c.co.mu.Lock()
	defer c.co.mu.Unlock()

	switch c.state {
	case StateClosed:
		return ErrClosed
	case StateDisconnected:
		zap.L().Warn("chat.relay_without_room", zap.String("conn_id", c.ID), zap.String("event", name))
		return ErrNoRoom
	case StateConnecting:
		return nil
	}
	c.co.broadcastLocked(c.roomID, c, Event{Name: name, Body: body(c.username)})
	return nil
}

// emit sends directly to this connection. Callers hold the coordinator mutex.
func (c *Conn) emit(name string, body any) {
	if !c.peer.Send(Event{Name: name, Body: body}) {
		metrics.DroppedFrames.Inc()
		zap.L().Warn("chat.emit_dropped", zap.String("conn_id", c.ID), zap.String("event", name))
	}
}
