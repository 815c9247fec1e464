// cache — read-through кэш профилей в Redis поверх любого storage.ProfilesStorage.
//
// Ключи:
//
//	<prefix>:self:<owner>        собственный профиль
//	<prefix>:owned:<owner>:<id>  профиль близкого
//	<prefix>:list:<owner>        список близких
//
// Запись идёт в хранилище, затем кэш обновляется каноничной строкой,
// а список владельца сбрасывается. Ошибки Redis не ломают запрос:
// они логируются, и запрос обслуживает хранилище.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
	"github.com/pribylovaa/valet/pkg/log"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

// Profiles — декоратор хранилища профилей с кэшем в Redis.
type Profiles struct {
	next   storage.ProfilesStorage
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и оборачивает next. Если prefix пустой — используется "valet".
func New(ctx context.Context, next storage.ProfilesStorage, redisURL, prefix string, ttl time.Duration) (*Profiles, error) {
	const op = "cache/New"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return newWithClient(next, rdb, prefix, ttl), nil
}

func newWithClient(next storage.ProfilesStorage, rdb *redis.Client, prefix string, ttl time.Duration) *Profiles {
	if prefix == "" {
		prefix = "valet"
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Profiles{next: next, rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Profiles) selfKey(owner uuid.UUID) string {
	return c.prefix + ":self:" + owner.String()
}

func (c *Profiles) ownedKey(owner, id uuid.UUID) string {
	return c.prefix + ":owned:" + owner.String() + ":" + id.String()
}

func (c *Profiles) listKey(owner uuid.UUID) string {
	return c.prefix + ":list:" + owner.String()
}

// get читает ключ в dst; false — промах или ошибка Redis.
func (c *Profiles) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.From(ctx).Warn("cache get failed", "key", key, "err", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.From(ctx).Warn("cache entry dropped", "key", key, "err", err)
		c.del(ctx, key)
		return false
	}

	return true
}

func (c *Profiles) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.From(ctx).Warn("cache encode failed", "key", key, "err", err)
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.From(ctx).Warn("cache set failed", "key", key, "err", err)
	}
}

// put сохраняет профиль и сбрасывает список владельца одной транзакцией.
func (c *Profiles) put(ctx context.Context, key string, p *models.Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		log.From(ctx).Warn("cache encode failed", "key", key, "err", err)
		return
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	pipe.Del(ctx, c.listKey(p.OwnerID))

	if _, err := pipe.Exec(ctx); err != nil {
		log.From(ctx).Warn("cache put failed", "key", key, "err", err)
	}
}

func (c *Profiles) del(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.From(ctx).Warn("cache del failed", "keys", keys, "err", err)
	}
}

func (c *Profiles) SelfProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	key := c.selfKey(ownerID)

	var p models.Profile
	if c.get(ctx, key, &p) {
		return &p, nil
	}

	got, err := c.next.SelfProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, got)

	return got, nil
}

func (c *Profiles) UpsertSelfProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	p, err := c.next.UpsertSelfProfile(ctx, ownerID, fields)
	if err != nil {
		// Исход записи неизвестен: кэш не должен пережить её.
		c.del(ctx, c.selfKey(ownerID))
		return nil, err
	}

	c.set(ctx, c.selfKey(ownerID), p)

	return p, nil
}

func (c *Profiles) OwnedProfiles(ctx context.Context, ownerID uuid.UUID) ([]*models.Profile, error) {
	key := c.listKey(ownerID)

	var list []*models.Profile
	if c.get(ctx, key, &list) {
		return list, nil
	}

	got, err := c.next.OwnedProfiles(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, got)

	return got, nil
}

func (c *Profiles) OwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (*models.Profile, error) {
	key := c.ownedKey(ownerID, id)

	var p models.Profile
	if c.get(ctx, key, &p) {
		return &p, nil
	}

	got, err := c.next.OwnedProfile(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, got)

	return got, nil
}

func (c *Profiles) CreateOwnedProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	p, err := c.next.CreateOwnedProfile(ctx, ownerID, fields)
	if err != nil {
		c.del(ctx, c.listKey(ownerID))
		return nil, err
	}

	c.put(ctx, c.ownedKey(ownerID, p.ID), p)

	return p, nil
}

func (c *Profiles) UpdateOwnedProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	p, err := c.next.UpdateOwnedProfile(ctx, id, ownerID, fields)
	if err != nil {
		c.del(ctx, c.ownedKey(ownerID, id), c.listKey(ownerID))
		return nil, err
	}

	c.put(ctx, c.ownedKey(ownerID, id), p)

	return p, nil
}

func (c *Profiles) DeleteOwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	ok, err := c.next.DeleteOwnedProfile(ctx, id, ownerID)
	c.del(ctx, c.ownedKey(ownerID, id), c.listKey(ownerID))

	return ok, err
}

// Close закрывает клиент Redis и нижележащее хранилище.
func (c *Profiles) Close() {
	_ = c.rdb.Close()
	c.next.Close()
}

var _ storage.ProfilesStorage = (*Profiles)(nil)
