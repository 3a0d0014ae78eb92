package chat

import (
	"fmt"

	"chatrooms/internal/rooms"
)

var (
	ErrNoRoom           = fmt.Errorf("connection has no room: %w", rooms.ErrInvalidState)
	ErrCurrentRoom      = fmt.Errorf("cannot remove the room you are in: %w", rooms.ErrInvalidState)
	ErrAlreadyLoaded    = fmt.Errorf("connection already loaded a room: %w", rooms.ErrInvalidState)
	ErrAlreadyJoined    = fmt.Errorf("connection already joined: %w", rooms.ErrInvalidState)
	ErrClosed           = fmt.Errorf("connection closed: %w", rooms.ErrInvalidState)
	ErrBookmarkNotFound = fmt.Errorf("room bookmark %w", rooms.ErrNotFound)
)
