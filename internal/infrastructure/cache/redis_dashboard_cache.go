// Package cache implementa la caché del dashboard sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

const (
	keyPrefix  = "ledger:dashboard"
	versionKey = keyPrefix + ":version"
)

// RedisDashboardCache guarda el resumen del dashboard con TTL. Cada commit del libro
// incrementa la versión, con lo que todas las claves anteriores quedan huérfanas y
// expiran por TTL.
type RedisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDashboardCache crea la caché sobre un cliente existente.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) *RedisDashboardCache {
	return &RedisDashboardCache{client: client, ttl: ttl}
}

// NewRedisClient abre un cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisDashboardCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// Key arma la clave física con la versión vigente: ledger:dashboard:v<ver>:<day>.
func (c *RedisDashboardCache) Key(ctx context.Context, day string) (string, error) {
	if c == nil || c.client == nil {
		return day, nil
	}
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return keyPrefix + ":v" + strconv.FormatInt(ver, 10) + ":" + day, nil
}

// Get devuelve el resumen guardado bajo una clave de Key; ok=false si no existe.
func (c *RedisDashboardCache) Get(ctx context.Context, key string) (*dto.DashboardStatsDTO, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats dto.DashboardStatsDTO
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, false, err
	}
	return &stats, true, nil
}

// Set guarda el resumen bajo la clave resuelta antes de calcularlo. Si hubo un commit
// desde entonces la versión ya avanzó y lo guardado no se vuelve a leer.
func (c *RedisDashboardCache) Set(ctx context.Context, key string, stats *dto.DashboardStatsDTO) error {
	if c == nil || c.client == nil || stats == nil {
		return nil
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Invalidate descarta todo lo guardado incrementando la versión.
func (c *RedisDashboardCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}
