package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`

	SessionStore      string        `env:"SESSION_STORE"       envDefault:"memory"        validate:"oneof=memory redis"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"jchat_session" validate:"required"`
	SessionTTL        time.Duration `env:"SESSION_TTL"         envDefault:"24h"           validate:"min=1m"`

	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	LobbyID   string `env:"LOBBY_ID"   envDefault:"lobby" validate:"required"`
	LobbyName string `env:"LOBBY_NAME" envDefault:"Lobby" validate:"required"`

	WsReadLimit  int64         `env:"WS_READ_LIMIT"  envDefault:"4096" validate:"min=512"`
	WsSendBuffer int           `env:"WS_SEND_BUFFER" envDefault:"64"   validate:"min=1"`
	WsPingPeriod time.Duration `env:"WS_PING_PERIOD" envDefault:"30s"  validate:"gtfield=WsWriteWait,ltfield=WsPongWait"`
	WsPongWait   time.Duration `env:"WS_PONG_WAIT"   envDefault:"60s"`
	WsWriteWait  time.Duration `env:"WS_WRITE_WAIT"  envDefault:"10s"  validate:"min=1s"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}
	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	// Parse config from environment variables
	if err := env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
