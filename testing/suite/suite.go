package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	expireDuration  = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// dockerEnv - set to 1 to run the Redis-backed tests against a real container.
const dockerEnv = "TEST_REDIS_DOCKER"

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client

	// Mini is nil when the suite runs against a container.
	Mini *miniredis.Miniredis
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	st := &Suite{
		T:      t,
		Logger: logger,
	}

	if os.Getenv(dockerEnv) == "1" {
		st.Storage = runContainer(ctx, t)
	} else {
		st.Mini = miniredis.RunT(t)
		st.Storage = redis.NewClient(&redis.Options{
			Addr: st.Mini.Addr(),
		})
	}

	t.Cleanup(func() {
		_ = st.Storage.Close()
	})

	if err := st.Storage.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return ctx, st
}

// FastForward - moves the store's clock so keys with a TTL expire. Skips the test on a real container.
func (that *Suite) FastForward(duration time.Duration) {
	that.Helper()

	if that.Mini == nil {
		that.Skip("clock control needs the in-memory server")
	}

	that.Mini.FastForward(duration)
}

func runContainer(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
		Env:        []string{},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start resource: %v", err)
	}

	// never returns error
	_ = resource.Expire(expireDuration)

	redisHost := resource.GetHostPort(redisPort)

	pool.MaxWait = maxWaitDuration

	var redisClient *redis.Client
	if err = pool.Retry(func() error {
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisHost,
		})
		return redisClient.Ping(ctx).Err()
	}); err != nil {
		if err = pool.Purge(resource); err != nil {
			t.Fatalf("could not purge resource: %v", err)
		}

		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		t.Helper()

		if err = pool.Purge(resource); err != nil {
			t.Fatalf("could not purge resource: %v", err)
		}
	})

	return redisClient
}
