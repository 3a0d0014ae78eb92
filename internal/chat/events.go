package chat

// Inbound event names.
const (
	EventLoad          = "load"
	EventCheckRoomName = "checkRoomName"
	EventCreateRoom    = "createRoom"
	EventCheckUsername = "checkUsername"
	EventRemoveRoom    = "removeRoom"
	EventAddUser       = "addUser"
	EventNewMessage    = "newMessage"
	EventTyping        = "typing"
	EventStopTyping    = "stopTyping"
)

// Outbound event names.
const (
	EventPageNotFound      = "pageNotFound"
	EventRoomNameTaken     = "roomNameTaken"
	EventRoomNameAvailable = "roomNameAvailable"
	EventRedirectToRoom    = "redirectToRoom"
	EventUsernamePassed    = "usernamePassed"
	EventUsernameFailed    = "usernameFailed"
	EventCannotRemoveRoom  = "cannotRemoveRoom"
	EventRoomRemoved       = "roomRemoved"
	EventNeedLogin         = "needLogin"
	EventChatReady         = "chatReady"
	EventLoginStats        = "loginStats"
	EventUserJoined        = "userJoined"
	EventUserLeft          = "userLeft"
	EventProfileAdded      = "profileAdded"
	EventRoomAdded         = "roomAdded"
	EventHighlightLobby    = "highlightLobby"
)

// Event is one outbound frame addressed to a single connection.
type Event struct {
	Name string `json:"event"`
	Body any    `json:"body,omitempty"`
}

type UsernameBody struct {
	Username string `json:"username"`
}

type UserCountBody struct {
	Username string `json:"username"`
	NumUsers int    `json:"numUsers"`
}

type LoginStatsBody struct {
	NumUsers int `json:"numUsers"`
}

type RoomNameBody struct {
	RoomName string `json:"roomName"`
}

type RedirectBody struct {
	ID string `json:"id"`
}

type RoomAddedBody struct {
	RoomName  string `json:"roomName"`
	RoomID    string `json:"roomId"`
	IsCurrent bool   `json:"isCurrent"`
}

type MessageBody struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}
