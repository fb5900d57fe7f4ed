package economy

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/upgradetree/pkg/errors"
)

// DefaultRedisPrefix namespaces save keys in Redis.
const DefaultRedisPrefix = "upgradetree:save:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // defaults to DefaultRedisPrefix
}

// RedisStore keeps one JSON value per slot under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, unavailable(BackendRedis, err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Load reads a slot.
func (s *RedisStore) Load(ctx context.Context, slot string) (Snapshot, error) {
	if err := errors.ValidateSlotName(slot); err != nil {
		return Snapshot{}, err
	}
	data, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, notFound(slot)
	}
	if err != nil {
		return Snapshot{}, unavailable(BackendRedis, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "corrupt save in slot %q", slot)
	}
	return snap, nil
}

// Save writes a slot without expiration.
func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	if err := checkSnapshot(snap); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(snap.Slot), data, 0).Err(); err != nil {
		return unavailable(BackendRedis, err)
	}
	return nil
}

// Delete removes a slot key.
func (s *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, s.key(slot)).Err(); err != nil {
		return unavailable(BackendRedis, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) key(slot string) string { return s.prefix + slot }

var _ Store = (*RedisStore)(nil)
