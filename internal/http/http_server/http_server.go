package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"chatrooms/internal/chat"
	"chatrooms/internal/http/chathandler"
	"chatrooms/internal/http/sessionmw"
	"chatrooms/internal/metrics"
	"chatrooms/internal/ws"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

type Options struct {
	ListenPort uint16
	CookieName string
	LobbyID    string
}

type httpServer struct {
	opts  Options
	srv   http.Server
	ln    net.Listener
	coord *chat.Coordinator
	wsSrv *ws.WsServer
	ctx   context.Context
}

func NewHttpServer(ctx context.Context, opts Options, wsSrv *ws.WsServer, coord *chat.Coordinator) *httpServer {
	return &httpServer{
		opts:  opts,
		wsSrv: wsSrv,
		coord: coord,
		ctx:   ctx,
	}
}

// Router builds the gin engine with every route mounted.
func (h *httpServer) Router() *gin.Engine {
	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.GET("/metrics", gin.WrapH(metrics.Handler()))

	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(sessionmw.Middleware(h.opts.CookieName))

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	ch := chathandler.New(h.coord, h.opts.LobbyID)
	ch.Register(routerEngine)

	return routerEngine
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.opts.ListenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	h.srv = http.Server{
		Handler: h.Router(),
	}

	err = h.srv.Serve(h.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}
	return nil
}
