package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSessionKeyPrefix = "sess:"

type redisStore struct {
	rdc *redis.Client
	ttl time.Duration
}

// NewRedisStore keeps sessions as JSON under "sess:<id>". Every Save
// refreshes the TTL.
func NewRedisStore(rdc *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdc: rdc, ttl: ttl}
}

func (rs *redisStore) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	raw, err := rs.rdc.Get(ctx, redisSessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	s := New(id)
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	s.ID = id
	if s.UserRooms == nil {
		s.UserRooms = make(map[string]string)
	}
	return s, nil
}

func (rs *redisStore) Save(ctx context.Context, s *Session) error {
	if s.ID == "" {
		return ErrEmptyID
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := rs.rdc.Set(ctx, redisSessionKeyPrefix+s.ID, raw, rs.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}
