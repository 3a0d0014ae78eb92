package session

import (
	"maps"
	"slices"
	"sort"

	"github.com/samber/lo"
)

// Session is the durable per-browser state shared by every connection that
// carries the same session cookie.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`

	// UserRooms maps a bookmarked room's display name to its id.
	UserRooms map[string]string `json:"userRooms"`

	// PreviousRooms holds the UserRooms names captured right before the
	// latest navigation added its entry. nil means no navigation was ever
	// recorded, which is not the same as an empty snapshot.
	PreviousRooms []string `json:"previousRooms"`
}

func New(id string) *Session {
	return &Session{ID: id, UserRooms: make(map[string]string)}
}

// SnapshotPrevious records the current bookmark names as PreviousRooms.
// Call it once per navigation, before Bookmark.
func (s *Session) SnapshotPrevious() {
	names := lo.Keys(s.UserRooms)
	sort.Strings(names)
	s.PreviousRooms = names
}

func (s *Session) Bookmark(roomName, roomID string) {
	if s.UserRooms == nil {
		s.UserRooms = make(map[string]string)
	}
	s.UserRooms[roomName] = roomID
}

// Unbookmark drops roomName from both the bookmark set and the last
// snapshot. It returns the room id that was bookmarked, if any.
func (s *Session) Unbookmark(roomName string) (string, bool) {
	id, ok := s.UserRooms[roomName]
	delete(s.UserRooms, roomName)
	if s.PreviousRooms != nil {
		s.PreviousRooms = lo.Without(s.PreviousRooms, roomName)
	}
	return id, ok
}

// WasPreviouslyVisited reports whether roomName was already bookmarked when
// the last navigation snapshot was taken. Without any snapshot there is no
// prior record and the answer is false.
func (s *Session) WasPreviouslyVisited(roomName string) bool {
	if s.PreviousRooms == nil {
		return false
	}
	return lo.Contains(s.PreviousRooms, roomName)
}

func (s *Session) RoomID(roomName string) (string, bool) {
	id, ok := s.UserRooms[roomName]
	return id, ok
}

func (s *Session) Clone() *Session {
	out := &Session{
		ID:        s.ID,
		Username:  s.Username,
		UserRooms: maps.Clone(s.UserRooms),
	}
	if out.UserRooms == nil {
		out.UserRooms = make(map[string]string)
	}
	if s.PreviousRooms != nil {
		out.PreviousRooms = slices.Clone(s.PreviousRooms)
	}
	return out
}
