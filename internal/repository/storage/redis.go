package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
)

// clockTick - how often the embedded server's clock is advanced so TTLs run out.
const clockTick = time.Second

type RedisStorage struct {
	Connection *redis.Client

	embedded *miniredis.Miniredis
	stop     chan struct{}
	done     chan struct{}
}

// New - connects to the configured Redis, or starts an in-process server in embedded mode.
func New(ctx context.Context, conf config.Redis) (*RedisStorage, error) {
	if conf.IsEmbedded() {
		return NewEmbeddedStorage(ctx)
	}

	if conf.Host == "" || conf.Port == "" {
		return nil, apperror.ErrAddrNotFound
	}

	conn := redis.NewClient(&redis.Options{
		Addr:     conf.GetRedisAddr(),
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStorage{Connection: conn}, nil
}

// NewEmbeddedStorage - everything stored here is gone once the process exits.
func NewEmbeddedStorage(ctx context.Context) (*RedisStorage, error) {
	server, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start embedded Redis: %w", err)
	}

	conn := redis.NewClient(&redis.Options{
		Addr: server.Addr(),
	})

	if err = conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		server.Close()
		return nil, fmt.Errorf("failed to connect to embedded Redis: %w", err)
	}

	storage := &RedisStorage{
		Connection: conn,
		embedded:   server,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go storage.runClock()

	return storage, nil
}

// runClock - miniredis only expires keys when its clock is moved forward.
func (that *RedisStorage) runClock() {
	defer close(that.done)

	ticker := time.NewTicker(clockTick)
	defer ticker.Stop()

	for {
		select {
		case <-that.stop:
			return
		case <-ticker.C:
			that.embedded.FastForward(clockTick)
		}
	}
}

func (that *RedisStorage) IsEmbedded() bool {
	return that.embedded != nil
}

func (that *RedisStorage) Close() error {
	err := that.Connection.Close()

	if that.embedded != nil {
		close(that.stop)
		<-that.done
		that.embedded.Close()
	}

	if err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}

	return nil
}
