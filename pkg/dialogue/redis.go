package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// RedisKeyPrefix namespaces dialogue keys in a shared Redis database.
const RedisKeyPrefix = "graphbot:dialogue:"

// RedisStore keeps dialogue state in Redis. Expiry is delegated to Redis key
// TTLs, so several bot instances can share one session space.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	owned  bool
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, ttl: ttl, owned: true}, nil
}

// NewRedisStoreFromClient wraps an existing client. Close does not close
// the client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return RedisKeyPrefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (State, error) {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return State{}, err
	}
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return StartState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("redis get: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse session: %w", err)
	}
	return st.normalize(), nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, st State) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
