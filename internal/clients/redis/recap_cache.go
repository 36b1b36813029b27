package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/liftlab/liftlab-backend/internal/logger"
)

// RecapCache holds computed recap slices for a short TTL so repeated client
// polls and overlapping notification passes reuse one computation. A nil
// cache (redis not configured) degrades to recomputation.
type RecapCache interface {
	Get(ctx context.Context, userID uuid.UUID, dest any) (bool, error)
	Set(ctx context.Context, userID uuid.UUID, value any) error
	Close() error
}

const recapTTL = 2 * time.Minute

type recapCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewRecapCache(log *logger.Logger) (RecapCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recapCache{
		log:    log.With("service", "RecapCache"),
		rdb:    rdb,
		prefix: "recap:",
	}, nil
}

func (c *recapCache) key(userID uuid.UUID) string {
	return c.prefix + userID.String()
}

func (c *recapCache) Get(ctx context.Context, userID uuid.UUID, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Stale encoding from an old release; treat as a miss.
		c.log.Warn("Recap cache entry undecodable, dropping", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, c.key(userID)).Err()
		return false, nil
	}
	return true, nil
}

func (c *recapCache) Set(ctx context.Context, userID uuid.UUID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(userID), raw, recapTTL).Err()
}

func (c *recapCache) Close() error {
	return c.rdb.Close()
}
