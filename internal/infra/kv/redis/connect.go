package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx2).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
