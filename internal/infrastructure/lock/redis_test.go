package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-sync/internal/infrastructure/lock"
)

// Requiere un Redis real: REDIS_URL=redis://localhost:6379/0 go test ./...
func TestRedis_ExclusionYLiberacion(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL no definido")
	}
	r, err := lock.NewRedisFromURL(url)
	require.NoError(t, err)
	defer r.Close()

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	unlock, err := r.Lock(context.Background(), key)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = r.Lock(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := r.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock2()
}

func TestRedis_RenuevaTTLMientrasEstaTomado(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL no definido")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())
	r := lock.NewRedis(client, lock.WithTTL(300*time.Millisecond))

	key := "test-renew:" + time.Now().Format(time.RFC3339Nano)
	unlock, err := r.Lock(context.Background(), key)
	require.NoError(t, err)

	// Más de tres TTL: sin renovación la clave ya habría expirado.
	time.Sleep(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = r.Lock(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := r.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock2()
}
