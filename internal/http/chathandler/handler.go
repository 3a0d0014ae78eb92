package chathandler

import (
	"errors"
	"net/http"

	"chatrooms/internal/chat"
	"chatrooms/internal/http/sessionmw"
	"chatrooms/internal/rooms"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	coord   *chat.Coordinator
	lobbyID string
}

func New(coord *chat.Coordinator, lobbyID string) *Handler {
	return &Handler{coord: coord, lobbyID: lobbyID}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/", h.lobby)
	r.GET("/chats/:id", h.chat)
	r.GET("/rooms/:id", h.info)
	r.POST("/submitUsername", h.submitUsername)
	r.POST("/submitRoom", h.submitRoom)
	r.DELETE("/deleteRoom", h.deleteRoom)
}

// @Summary		Open the lobby
// @Description	Records a visit of the lobby in the session and bookmarks it.
// @Tags			Navigation
// @Success		200	{object}	PageResponse
// @Router			/ [get]
func (h *Handler) lobby(c *gin.Context) {
	h.navigate(c, h.lobbyID, false)
}

// @Summary		Open a chat room
// @Description	Records a visit of the room in the session and bookmarks it.
// @Tags			Navigation
// @Param			id	path		string	true	"Room ID"
// @Success		200	{object}	PageResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/chats/{id} [get]
func (h *Handler) chat(c *gin.Context) {
	h.navigate(c, c.Param("id"), true)
}

func (h *Handler) navigate(c *gin.Context, roomID string, private bool) {
	info, err := h.coord.Navigate(c.Request.Context(), sessionmw.ID(c), roomID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, PageResponse{Private: private, RoomID: info.ID, RoomName: info.Name})
}

// @Summary		Room statistics
// @Description	Live users, references and members of a room.
// @Tags			Rooms
// @Param			id	path		string	true	"Room ID"
// @Success		200	{object}	rooms.Info
// @Failure		404	{object}	ErrorResponse
// @Router			/rooms/{id} [get]
func (h *Handler) info(c *gin.Context) {
	info, ok := h.coord.RoomInfo(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: rooms.ErrRoomNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// @Summary		Choose a username
// @Tags			Session
// @Param			body	body	SubmitUsernameBody	true	"Username payload"
// @Success		200	{object}	SubmitUsernameBody
// @Failure		400	{object}	ErrorResponse
// @Router			/submitUsername [post]
func (h *Handler) submitUsername(c *gin.Context) {
	var body SubmitUsernameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.coord.SetUsername(c.Request.Context(), sessionmw.ID(c), body.Name); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary		Create a room
// @Description	An id is generated when none is given. Taken ids are rejected.
// @Tags			Rooms
// @Param			body	body	SubmitRoomBody	true	"Room payload"
// @Success		201	{object}	SubmitRoomBody
// @Failure		400	{object}	ErrorResponse
// @Failure		409	{object}	ErrorResponse
// @Router			/submitRoom [post]
func (h *Handler) submitRoom(c *gin.Context) {
	var body SubmitRoomBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	id, err := h.coord.CreateRoom(body.RoomName, body.RoomID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	body.RoomID = id
	c.JSON(http.StatusCreated, body)
}

// @Summary		Remove a bookmarked room
// @Description	Drops the session's bookmark; the room is deleted once nobody uses or references it.
// @Tags			Session
// @Param			body	body	DeleteRoomBody	true	"Room name"
// @Success		200	{object}	DeleteRoomBody
// @Failure		404	{object}	ErrorResponse
// @Router			/deleteRoom [delete]
func (h *Handler) deleteRoom(c *gin.Context) {
	var body DeleteRoomBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.coord.ReleaseBookmark(c.Request.Context(), sessionmw.ID(c), body.RoomName); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, rooms.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rooms.ErrConflict), errors.Is(err, rooms.ErrInvalidState):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
