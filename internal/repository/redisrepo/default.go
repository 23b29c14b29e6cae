package redisrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Default is the origin-scoped key-value byte store. Values never expire.
type Default interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetJSON(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type defaultRepo struct {
	rdb       redis.UniversalClient
	namespace string
}

func newDefaultRepo(rdb redis.UniversalClient, namespace string) Default {
	return &defaultRepo{
		rdb:       rdb,
		namespace: namespace,
	}
}

func (r *defaultRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.rdb.Get(ctx, ScopedKey(r.namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *defaultRepo) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, ScopedKey(r.namespace, key), value, 0).Err()
}

// SetJSON overwrites key with the serialized value in a single write.
func (r *defaultRepo) SetJSON(ctx context.Context, key string, value interface{}) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.Set(ctx, key, valueJSON)
}

func (r *defaultRepo) Del(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = ScopedKey(r.namespace, k)
	}
	return r.rdb.Del(ctx, scoped...).Err()
}

// Get decodes the JSON value under key into T. It returns (nil, nil) when the key is absent
// and the decode error when the value is not valid JSON for T.
func Get[T any](r Default, ctx context.Context, key string) (*T, error) {
	value, err := r.Get(ctx, key)
	if err != nil || value == nil {
		return nil, err
	}

	if string(value) == "null" {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal(value, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
