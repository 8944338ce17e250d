package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ Locker = (*Redis)(nil)

const (
	// defaultLockTTL se renueva cada ttl/3 mientras el lock esté tomado; solo expira
	// si el proceso que lo tiene deja de renovarlo (caída o partición con Redis).
	defaultLockTTL   = 30 * time.Second
	defaultRetryWait = 50 * time.Millisecond
	redisKeyPrefix   = "crm:mirror-lock:"
)

// El token evita liberar un lock que ya expiró y tomó otro proceso.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// Redis lock distribuido con SET NX PX, para varias instancias escribiendo al mismo spreadsheet.
type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	retryWait time.Duration
}

// NewRedisFromURL conecta a REDIS_URL y verifica con PING (timeout 5s).
func NewRedisFromURL(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return NewRedis(client), nil
}

// RedisOption configura el lock.
type RedisOption func(*Redis)

// WithTTL cambia la expiración de la clave (y con ella el intervalo de renovación).
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = d }
}

// NewRedis construye el lock sobre un cliente existente.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, ttl: defaultLockTTL, retryWait: defaultRetryWait}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lock reintenta SET NX hasta obtener la clave o hasta que ctx se cancele.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := redisKeyPrefix + key
	token := uuid.NewString()
	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retryWait):
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go r.keepAlive(fullKey, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			// Contexto propio: el del request puede estar cancelado al liberar.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, r.client, []string{fullKey}, token).Err()
		})
	}, nil
}

// keepAlive extiende el TTL mientras el lock siga siendo nuestro.
func (r *Redis) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.ttl/3)
			n, err := extendScript.Run(ctx, r.client, []string{key}, token, r.ttl.Milliseconds()).Int64()
			cancel()
			if err == nil && n == 0 {
				// La clave expiró o cambió de dueño: no hay nada que renovar.
				return
			}
		}
	}
}

// Close cierra el cliente Redis.
func (r *Redis) Close() error {
	return r.client.Close()
}
