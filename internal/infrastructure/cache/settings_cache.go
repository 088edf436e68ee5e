// Package cache caché de lectura en Redis para la tabla settings, que se consulta en cada
// registro y en la página de inicio pero sólo cambia cuando el admin la edita.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/basar-api/internal/domain/repository"
)

const (
	settingsKey = "basar:settings"
	// presentField distingue "caché con mapa vacío" de "no hay caché".
	presentField = "__cached"
)

var _ repository.SettingsRepository = (*SettingsCache)(nil)

// SettingsCache decora un SettingsRepository. Si Redis falla se lee directamente del repo.
type SettingsCache struct {
	next   repository.SettingsRepository
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSettingsCache construye el decorador.
func NewSettingsCache(next repository.SettingsRepository, client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *SettingsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SettingsCache{next: next, client: client, ttl: ttl, log: log}
}

func (c *SettingsCache) GetAll(ctx context.Context) (map[string]string, error) {
	cached, err := c.client.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		c.log.Warn().Err(err).Msg("caché de settings no disponible")
	} else if _, ok := cached[presentField]; ok {
		delete(cached, presentField)
		return cached, nil
	}

	values, err := c.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, values)
	return values, nil
}

// Upsert escribe en el repo e invalida la caché.
func (c *SettingsCache) Upsert(ctx context.Context, values map[string]string) error {
	if err := c.next.Upsert(ctx, values); err != nil {
		return err
	}
	if err := c.client.Del(ctx, settingsKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo invalidar la caché de settings")
	}
	return nil
}

func (c *SettingsCache) store(ctx context.Context, values map[string]string) {
	fields := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		fields[k] = v
	}
	fields[presentField] = "1"
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, settingsKey)
		p.HSet(ctx, settingsKey, fields)
		p.Expire(ctx, settingsKey, c.ttl)
		return nil
	})
	if err != nil {
		c.log.Debug().Err(err).Msg("no se pudo guardar settings en caché")
	}
}
