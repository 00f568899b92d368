// Package rediscache implementa la cache opcional de la consulta de estado de
// license keys sobre Redis. Best effort: un fallo de Redis nunca afecta la
// respuesta, solo la pierde de cache. Los conteos de asientos servidos desde
// aquí son informativos y toleran consistencia eventual (TTL corto).
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/redis/go-redis/v9"
)

// Ensure StatusCache implements licensing.StatusCache.
var _ licensing.StatusCache = (*StatusCache)(nil)

const keyPrefix = "license:status:"

// StatusCache cache de respuestas de estado por valor de license key.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache construye la cache con el cliente y TTL configurados.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

// Get devuelve la respuesta cacheada, si existe y deserializa bien.
func (c *StatusCache) Get(ctx context.Context, keyValue string) (*dto.LicenseKeyStatusResponse, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+keyValue).Bytes()
	if err != nil {
		return nil, false // miss o Redis caído: da igual, se consulta la DB
	}
	var resp dto.LicenseKeyStatusResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set guarda la respuesta con el TTL configurado. Errores ignorados.
func (c *StatusCache) Set(ctx context.Context, keyValue string, resp *dto.LicenseKeyStatusResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, keyPrefix+keyValue, raw, c.ttl).Err()
}
