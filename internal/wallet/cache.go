package wallet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "privatepay:wallet:"

// AddressComputer is implemented by Resolver and CachedResolver.
type AddressComputer interface {
	Compute(ctx context.Context, owner common.Address, salt Salt) (common.Address, error)
	Factory() common.Address
}

// CachedResolver memoizes factory results in redis. A (factory, owner, salt)
// triple always maps to the same address, so entries never go stale; ttl only
// bounds memory. Redis failures degrade to a direct call.
type CachedResolver struct {
	next   AddressComputer
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedResolver(next AddressComputer, rdb redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) *CachedResolver {
	return &CachedResolver{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedResolver) Factory() common.Address { return c.next.Factory() }

func (c *CachedResolver) Compute(ctx context.Context, owner common.Address, salt Salt) (common.Address, error) {
	key := c.key(owner, salt)
	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && common.IsHexAddress(cached):
		return common.HexToAddress(cached), nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Msg("address cache read failed")
	}

	addr, err := c.next.Compute(ctx, owner, salt)
	if err != nil {
		return common.Address{}, err
	}
	if err := c.rdb.Set(ctx, key, addr.Hex(), c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("address cache write failed")
	}
	return addr, nil
}

func (c *CachedResolver) key(owner common.Address, salt Salt) string {
	return cacheKeyPrefix + strings.ToLower(c.next.Factory().Hex()) + ":" +
		strings.ToLower(owner.Hex()) + ":" + salt.Hex()
}
