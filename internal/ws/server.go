package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chatrooms/internal/chat"
	"chatrooms/internal/http/sessionmw"
	"chatrooms/internal/metrics"
	"chatrooms/internal/rooms"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	eventError     = "error"
	handlerTimeout = 2 * time.Second
)

// Options tunes the per-connection transport.
type Options struct {
	ReadLimit  int64
	SendBuffer int
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration // must be < PongWait
}

type WsServer struct {
	coord    *chat.Coordinator
	router   *Router
	upgrader websocket.Upgrader
	opts     Options
}

func NewWsServer(coord *chat.Coordinator, opts Options) *WsServer {
	srv := &WsServer{
		coord:  coord,
		router: NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true }, // dev‑only
		},
		opts: opts,
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	sessionID := sessionmw.ID(ginCtx)
	if sessionID == "" {
		ginCtx.JSON(http.StatusUnauthorized, gin.H{"error": "session cookie is required"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(s.opts.ReadLimit)

	// ─────────────────── Client connected ────────────────────────
	client := newClientConn(rawConn, s.opts.SendBuffer)
	conn := s.coord.Connect(sessionID, client)
	zap.L().Debug("ws.connected", zap.String("conn_id", conn.ID), zap.String("session_id", sessionID))

	go client.writePump(s.opts.WriteWait, s.opts.PingPeriod)
	go s.reader(sessionID, conn, client)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	Register(s.router, chat.EventLoad,
		func(ctx context.Context, cc *ConnContext, req LoadRequest) error {
			// pageNotFound already told the client
			if err := cc.Conn.Load(ctx, req.RoomID); err != nil && !errors.Is(err, rooms.ErrNotFound) {
				return err
			}
			return nil
		},
	)

	Register(s.router, chat.EventCheckRoomName,
		func(_ context.Context, cc *ConnContext, req RoomNameRequest) error {
			cc.Conn.CheckRoomName(req.RoomName)
			return nil
		},
	)

	Register(s.router, chat.EventCreateRoom,
		func(_ context.Context, cc *ConnContext, req CreateRoomRequest) error {
			return cc.Conn.CreateRoom(req.RoomName, req.RoomID)
		},
	)

	Register(s.router, chat.EventCheckUsername,
		func(_ context.Context, cc *ConnContext, req CheckUsernameRequest) error {
			cc.Conn.CheckUsername(req.RoomID, req.Username)
			return nil
		},
	)

	Register(s.router, chat.EventRemoveRoom,
		func(ctx context.Context, cc *ConnContext, req RoomNameRequest) error {
			// cannotRemoveRoom already told the client
			if err := cc.Conn.RemoveRoom(ctx, req.RoomName); err != nil && !errors.Is(err, chat.ErrCurrentRoom) {
				return err
			}
			return nil
		},
	)

	Register(s.router, chat.EventAddUser,
		func(ctx context.Context, cc *ConnContext, req AddUserRequest) error {
			return cc.Conn.AddUser(ctx, req.Username)
		},
	)

	Register(s.router, chat.EventNewMessage,
		func(_ context.Context, cc *ConnContext, req NewMessageRequest) error {
			return cc.Conn.NewMessage(req.Message)
		},
	)

	Register(s.router, chat.EventTyping,
		func(_ context.Context, cc *ConnContext, _ EmptyRequest) error {
			return cc.Conn.Typing()
		},
	)

	Register(s.router, chat.EventStopTyping,
		func(_ context.Context, cc *ConnContext, _ EmptyRequest) error {
			return cc.Conn.StopTyping()
		},
	)
}

func (s *WsServer) reader(sessionID string, conn *chat.Conn, client *clientConn) {
	defer func() {
		conn.Disconnect()
		client.close()
	}()

	_ = client.rawConn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	client.rawConn.SetPongHandler(func(string) error {
		return client.rawConn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	cc := &ConnContext{SessionID: sessionID, Conn: conn}

	for {
		var env Envelope
		if err := client.rawConn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("ws.read", zap.String("conn_id", conn.ID), zap.Error(err))
			}
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		err := s.router.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"error", "body":{...}} ---------------
		if err != nil {
			label := env.Event
			if errors.Is(err, ErrUnknownEvent) {
				label = "unknown"
			}
			metrics.RejectedEvents.WithLabelValues(label).Inc()
			zap.L().Debug("ws.event_rejected",
				zap.String("conn_id", conn.ID),
				zap.String("event", env.Event),
				zap.Error(err),
			)
			client.Send(chat.Event{Name: eventError, Body: ErrorBody{Error: err.Error()}})
		}
	}
}
