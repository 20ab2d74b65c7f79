// Package cache implementa la caché de lectura de ítems sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

var _ inventory.SnapshotCache = (*SnapshotCache)(nil)

const keyPrefix = "inventory:item:"

// setIfNewer escribe el snapshot solo si la versión guardada no es mayor que la nueva.
// KEYS[1] clave; ARGV[1] JSON; ARGV[2] versión; ARGV[3] TTL en ms.
var setIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local ok, stored = pcall(cjson.decode, cur)
	if ok and type(stored) == 'table' and stored.version and tonumber(stored.version) > tonumber(ARGV[2]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// SnapshotCache guarda el estado de cada ítem con TTL.
// Las escrituras son condicionales por versión: una lectura vieja nunca pisa un estado confirmado más nuevo.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache construye la caché. ttl <= 0 usa 30s.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// NewClient abre el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Key clave Redis del ítem.
func Key(productID, branchID string) string {
	return keyPrefix + productID + ":" + branchID
}

func (c *SnapshotCache) Get(ctx context.Context, productID, branchID string) (*dto.ItemSnapshot, bool, error) {
	val, err := c.client.Get(ctx, Key(productID, branchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("leer caché: %w", err)
	}
	var s dto.ItemSnapshot
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, false, fmt.Errorf("decodificar caché: %w", err)
	}
	return &s, true, nil
}

// Set guarda el snapshot si su versión es igual o mayor que la almacenada.
func (c *SnapshotCache) Set(ctx context.Context, s dto.ItemSnapshot) error {
	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("codificar caché: %w", err)
	}
	key := Key(s.ProductID, s.BranchID)
	if err := setIfNewer.Run(ctx, c.client, []string{key}, val, s.Version, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("escribir caché: %w", err)
	}
	return nil
}

// Invalidate borra las claves de los ítems tocados por un commit.
func (c *SnapshotCache) Invalidate(ctx context.Context, keys ...entity.ItemKey) error {
	if len(keys) == 0 {
		return nil
	}
	rk := make([]string, len(keys))
	for i, k := range keys {
		rk[i] = Key(k.ProductID, k.BranchID)
	}
	if err := c.client.Del(ctx, rk...).Err(); err != nil {
		return fmt.Errorf("invalidar caché: %w", err)
	}
	return nil
}
