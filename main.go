package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chatrooms/internal/chat"
	"chatrooms/internal/config"
	"chatrooms/internal/http/http_server"
	"chatrooms/internal/redis/redis_client"
	"chatrooms/internal/rooms"
	"chatrooms/internal/session"
	"chatrooms/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

//	@title		Chat rooms API
//	@version	1.0
//	@BasePath	/
func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Session store
	var store session.Store
	switch cfg.SessionStore {
	case "redis":
		redisClient, err := redis_client.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort)
		if err != nil {
			Log.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
	default:
		store = session.NewMemoryStore()
	}
	Log.Debug("Session store ready", zap.String("kind", cfg.SessionStore))

	// 4. Room registry with the pinned lobby
	registry := rooms.NewRegistry()
	registry.Pin(cfg.LobbyID, cfg.LobbyName)
	coord := chat.NewCoordinator(registry, store, cfg.LobbyID)

	// 5. Websocket server
	wsSrv := ws.NewWsServer(coord, ws.Options{
		ReadLimit:  cfg.WsReadLimit,
		SendBuffer: cfg.WsSendBuffer,
		WriteWait:  cfg.WsWriteWait,
		PongWait:   cfg.WsPongWait,
		PingPeriod: cfg.WsPingPeriod,
	})

	// 6. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, http_server.Options{
		ListenPort: cfg.HttpServerPort,
		CookieName: cfg.SessionCookieName,
		LobbyID:    cfg.LobbyID,
	}, wsSrv, coord)

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			Log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	case <-ctx.Done():
		Log.Info("Shutting down")
		_ = httpServer.Dispose()
	}
}
