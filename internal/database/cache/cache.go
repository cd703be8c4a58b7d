package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

var ErrUnavailable = errors.New("cache unavailable")

// Connect dials redis and pings it once. A failed connect leaves the
// cache disabled; callers treat every hit as a miss.
func Connect(addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return err
	}

	rdb = client
	return nil
}

func Available() bool {
	return rdb != nil
}

func Set(key string, value any, expiration time.Duration) error {
	if rdb == nil {
		return ErrUnavailable
	}
	return rdb.Set(context.Background(), key, value, expiration).Err()
}

func Get(key string) (string, error) {
	if rdb == nil {
		return "", ErrUnavailable
	}
	return rdb.Get(context.Background(), key).Result()
}

func Delete(key string) error {
	if rdb == nil {
		return ErrUnavailable
	}
	return rdb.Del(context.Background(), key).Err()
}
