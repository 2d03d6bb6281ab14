package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arenabook/internal/logger"
	"arenabook/internal/metrics"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const cacheLoadTimeout = 5 * time.Second

// cachedRepository serves arena lookups from Redis and falls through to the
// wrapped repository on a miss or a Redis failure.
//
// Hours and price entries live under a per-arena version. Writes go to the
// repository first and then bump the version, so a reader that loaded the
// old row before the write can only store it under a key nobody reads.
type cachedRepository struct {
	Repository
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedRepository(repo Repository, rdb *redis.Client, ttl time.Duration) Repository {
	return &cachedRepository{Repository: repo, rdb: rdb, ttl: ttl}
}

func arenaKey(id int) string { return fmt.Sprintf("arena:%d", id) }

func versionKey(arenaID int) string { return fmt.Sprintf("arena:%d:v", arenaID) }

func hoursKey(arenaID int, version int64, day int) string {
	return fmt.Sprintf("arena:%d:v%d:hours:%d", arenaID, version, day)
}

func priceKey(arenaID int, version int64, dt DayType) string {
	return fmt.Sprintf("arena:%d:v%d:price:%s", arenaID, version, dt)
}

// Arena rows are never updated, so their key is not versioned.
func (r *cachedRepository) GetArenaByID(ctx context.Context, id int) (*Arena, error) {
	return readThrough(ctx, r, arenaKey(id), func(ctx context.Context) (*Arena, error) {
		return r.Repository.GetArenaByID(ctx, id)
	})
}

func (r *cachedRepository) GetWorkingHours(ctx context.Context, arenaID, dayOfWeek int) (*WorkingHours, error) {
	v, ok := r.version(ctx, arenaID)
	if !ok {
		return r.Repository.GetWorkingHours(ctx, arenaID, dayOfWeek)
	}
	return readThrough(ctx, r, hoursKey(arenaID, v, dayOfWeek), func(ctx context.Context) (*WorkingHours, error) {
		return r.Repository.GetWorkingHours(ctx, arenaID, dayOfWeek)
	})
}

func (r *cachedRepository) GetPrice(ctx context.Context, arenaID int, dayType DayType) (*Price, error) {
	v, ok := r.version(ctx, arenaID)
	if !ok {
		return r.Repository.GetPrice(ctx, arenaID, dayType)
	}
	return readThrough(ctx, r, priceKey(arenaID, v, dayType), func(ctx context.Context) (*Price, error) {
		return r.Repository.GetPrice(ctx, arenaID, dayType)
	})
}

func (r *cachedRepository) UpsertWorkingHours(ctx context.Context, wh WorkingHours) (*WorkingHours, error) {
	out, err := r.Repository.UpsertWorkingHours(ctx, wh)
	if err != nil {
		return nil, err
	}
	r.bump(ctx, wh.ArenaID)
	return out, nil
}

func (r *cachedRepository) DeleteWorkingHours(ctx context.Context, arenaID, dayOfWeek int) error {
	if err := r.Repository.DeleteWorkingHours(ctx, arenaID, dayOfWeek); err != nil {
		return err
	}
	r.bump(ctx, arenaID)
	return nil
}

func (r *cachedRepository) UpsertPrice(ctx context.Context, p Price) (*Price, error) {
	out, err := r.Repository.UpsertPrice(ctx, p)
	if err != nil {
		return nil, err
	}
	r.bump(ctx, p.ArenaID)
	return out, nil
}

// version returns the arena's cache version, 0 when none was set yet.
// ok is false when Redis cannot be read and the cache must be skipped.
func (r *cachedRepository) version(ctx context.Context, arenaID int) (int64, bool) {
	v, err := r.rdb.Get(ctx, versionKey(arenaID)).Int64()
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, redis.Nil):
		return 0, true
	default:
		metrics.RecordArenaCache("error")
		logger.Warn("arena cache version read failed", "arena_id", arenaID, "error", err)
		return 0, false
	}
}

func (r *cachedRepository) bump(ctx context.Context, arenaID int) {
	if err := r.rdb.Incr(context.WithoutCancel(ctx), versionKey(arenaID)).Err(); err != nil {
		// Entries of the old version expire on their own after ttl.
		logger.Warn("arena cache invalidation failed", "arena_id", arenaID, "error", err)
	}
}

// readThrough caches nil results too, stored as JSON null, so closed days
// and unpriced day types do not hit Postgres on every request. Concurrent
// misses on one key share a single load that outlives any one caller.
func readThrough[T any](ctx context.Context, r *cachedRepository, key string, load func(context.Context) (*T, error)) (*T, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v *T
		if jsonErr := json.Unmarshal(data, &v); jsonErr == nil {
			metrics.RecordArenaCache("hit")
			return v, nil
		}
		metrics.RecordArenaCache("error")
	case errors.Is(err, redis.Nil):
		metrics.RecordArenaCache("miss")
	default:
		metrics.RecordArenaCache("error")
		logger.Warn("arena cache read failed", "key", key, "error", err)
	}

	ch := r.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheLoadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(v); err == nil {
			if err := r.rdb.Set(loadCtx, key, string(payload), r.ttl).Err(); err != nil {
				logger.Warn("arena cache write failed", "key", key, "error", err)
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}
