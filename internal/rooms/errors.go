package rooms

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the room layer wraps one of these
// so callers can branch with errors.Is without knowing the specific cause.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrRoomNotFound = fmt.Errorf("room %w", ErrNotFound)
	ErrRoomExists   = fmt.Errorf("room id already taken: %w", ErrConflict)
	ErrRoomInUse    = fmt.Errorf("room still in use: %w", ErrInvalidState)
	ErrRoomPinned   = fmt.Errorf("room is pinned: %w", ErrInvalidState)
)
