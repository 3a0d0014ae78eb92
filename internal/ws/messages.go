package ws

import "encoding/json"

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "newMessage"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// ──────────────────────────── Request DTOs ─────────────────────────────────

type LoadRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

type RoomNameRequest struct {
	RoomName string `json:"roomName" validate:"required,max=64"`
}

type CreateRoomRequest struct {
	RoomName string `json:"roomName" validate:"required,max=64"`
	RoomID   string `json:"roomId"   validate:"omitempty,max=64"`
}

type CheckUsernameRequest struct {
	RoomID   string `json:"roomId"   validate:"required"`
	Username string `json:"username" validate:"required,max=32"`
}

type AddUserRequest struct {
	Username string `json:"username" validate:"required,max=32"`
}

type NewMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// Empty body for events without a payload.
type EmptyRequest struct{}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}
