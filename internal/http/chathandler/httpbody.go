package chathandler

type SubmitUsernameBody struct {
	Name string `json:"name" binding:"required,max=32" example:"alice"`
} // @name SubmitUsernameRequest

type SubmitRoomBody struct {
	RoomName string `json:"roomName" binding:"required,max=64" example:"Book club"`
	RoomID   string `json:"roomId"   binding:"omitempty,max=64" example:"f3b1c2"`
} // @name SubmitRoomRequest

type DeleteRoomBody struct {
	RoomName string `json:"roomName" binding:"required" example:"Book club"`
} // @name DeleteRoomRequest

type PageResponse struct {
	Private  bool   `json:"private"`
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
} // @name PageResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
