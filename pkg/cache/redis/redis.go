// Package redis opens the connection backing export status tracking and
// the worklist cache.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

type ConnectionInfo struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type Client = goredis.Client

// NewRedisConnection dials and pings the server. A connection that cannot
// answer a ping at startup is reported as an error rather than deferred to
// the first cache miss.
func NewRedisConnection(ctx context.Context, info ConnectionInfo) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         info.Addr,
		Password:     info.Password,
		DB:           info.DB,
		MaxRetries:   info.MaxRetries,
		DialTimeout:  info.DialTimeout,
		ReadTimeout:  info.Timeout,
		WriteTimeout: info.Timeout,
	})

	pingTimeout := info.Timeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func Close(c *Client) {
	if c == nil {
		return
	}
	_ = c.Close()
}
