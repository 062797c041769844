package store

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
	"github.com/serenoa/go-session"
)

var _ session.TokenStore = (*RedisStore)(nil)

// RedisStore keeps the token slot under a single redis key. Useful when
// several portal hosts share one session, e.g. a kiosk fleet.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisClient builds a client for the given address, verifying the
// connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "unable to connect to redis")
	}

	return client, nil
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", errors.Wrap(err, errors.CategoryOperation, "unable to read token key")
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	// No TTL: expiry is carried inside the token and enforced on restore.
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "unable to persist token key")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "unable to erase token key")
	}
	return nil
}
