package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/basar-api/internal/infrastructure/cache"
	"github.com/jhoicas/basar-api/internal/infrastructure/memory"
)

// Redis inaccesible: cada lectura y escritura va directa al repositorio.
func TestSettingsCache_SinRedisLeeDelRepositorio(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := memory.NewSettingsStore(map[string]string{"delivery_start": "2026-10-30T14:00"})
	c := cache.NewSettingsCache(repo, client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	values, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-30T14:00", values["delivery_start"])

	require.NoError(t, c.Upsert(ctx, map[string]string{"delivery_end": "2026-10-30T18:00"}))
	values, err = c.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-30T18:00", values["delivery_end"])
	assert.Equal(t, 2, repo.Reads())
}

func TestConnect_FallaSinServidor(t *testing.T) {
	_, err := cache.Connect(context.Background(), cache.Config{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
