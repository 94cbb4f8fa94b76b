package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 2 * time.Second
	defaultIOTimeout   = 500 * time.Millisecond
	defaultPingTimeout = 3 * time.Second
)

// Options 정책 캐시용 redis 연결 설정
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int

	// 0이면 기본값. 캐시 조회가 결정 처리를 오래 붙잡지 않도록 짧게 둔다
	DialTimeout time.Duration
	IOTimeout   time.Duration
	PingTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.DialTimeout <= 0 {
		o.DialTimeout = defaultDialTimeout
	}
	if o.IOTimeout <= 0 {
		o.IOTimeout = defaultIOTimeout
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = defaultPingTimeout
	}
	return o
}

// Connect 클라이언트를 만들고 ping으로 연결을 확인한다.
// 실패하면 클라이언트를 닫고 에러를 반환한다.
func Connect(ctx context.Context, opt Options) (*redis.Client, error) {
	opt = opt.withDefaults()
	addr := net.JoinHostPort(opt.Host, strconv.Itoa(opt.Port))
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opt.Password,
		DB:           opt.DB,
		PoolSize:     opt.PoolSize,
		DialTimeout:  opt.DialTimeout,
		ReadTimeout:  opt.IOTimeout,
		WriteTimeout: opt.IOTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opt.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s 연결 실패: %w", addr, err)
	}
	return client, nil
}
