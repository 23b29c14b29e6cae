package redisrepo

import "github.com/redis/go-redis/v9"

type RedisRepository struct {
	Default
}

func New(rdb redis.UniversalClient, namespace string) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb, namespace),
	}
}
