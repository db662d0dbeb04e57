// Package rulescache is a Redis read-through cache in front of a rules
// source. Engine lists are cached per group pairing; version checks always
// hit the upstream so staleness detection never reads a stale version.
package rulescache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"onboard/internal/onboarding/models"
	"onboard/internal/onboarding/ports"
	id "onboard/pkg/domain"
)

const engineKeyPrefix = "rules:engines:"

// Cache decorates a RulesSource with Redis caching.
type Cache struct {
	upstream ports.RulesSource
	client   *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

type Option func(c *Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New constructs the cache. ttl bounds how long a cached engine list can
// outlive an upstream edit.
func New(upstream ports.RulesSource, client *redis.Client, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{upstream: upstream, client: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cachedScope binds the cached engines to the config version they were
// loaded under, so a version advance invalidates the entry.
type cachedScope struct {
	Version int64                `json:"version"`
	Engines []models.RulesEngine `json:"engines"`
}

func scopeKey(programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) string {
	return engineKeyPrefix + programGroupID.String() + ":" + requirementGroupID.String()
}

func (c *Cache) GetApplicableEngines(ctx context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) ([]models.RulesEngine, error) {
	version, err := c.upstream.ConfigVersion(ctx, programGroupID, requirementGroupID)
	if err != nil {
		return nil, err
	}

	key := scopeKey(programGroupID, requirementGroupID)
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var cached cachedScope
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil && cached.Version == version {
			return cached.Engines, nil
		}
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		// Cache trouble degrades to an upstream read, never to a failure.
		c.logger.WarnContext(ctx, "rules cache read failed", "key", key, "error", err)
	}

	engines, err := c.upstream.GetApplicableEngines(ctx, programGroupID, requirementGroupID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedScope{Version: version, Engines: engines})
	if err != nil {
		return nil, fmt.Errorf("encode rules cache entry: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "rules cache write failed", "key", key, "error", err)
	}
	return engines, nil
}

// ConfigVersion always consults the upstream; caching it would defeat drift
// detection.
func (c *Cache) ConfigVersion(ctx context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) (int64, error) {
	return c.upstream.ConfigVersion(ctx, programGroupID, requirementGroupID)
}
