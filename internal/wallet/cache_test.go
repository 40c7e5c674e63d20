package wallet

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedResolverServesRepeatsFromRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	stub := &factoryStub{}
	cached := NewCachedResolver(newTestResolver(stub, 1), rdb, time.Hour, zerolog.New(io.Discard))
	owner := common.HexToAddress("0x2222222222222222222222222222222222222222")

	first, err := cached.Compute(context.Background(), owner, fixedSalt(7))
	require.NoError(t, err)
	second, err := cached.Compute(context.Background(), owner, fixedSalt(7))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, testFactory, cached.Factory())
	assert.Len(t, mr.Keys(), 1)

	_, err = cached.Compute(context.Background(), owner, fixedSalt(8))
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestCachedResolverSurvivesRedisOutage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	stub := &factoryStub{}
	cached := NewCachedResolver(newTestResolver(stub, 1), rdb, 0, zerolog.New(io.Discard))

	addr, err := cached.Compute(context.Background(), common.Address{}, fixedSalt(9))
	require.NoError(t, err)
	assert.NotEqual(t, common.Address{}, addr)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestCachedResolverDoesNotCacheFailures(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cached := NewCachedResolver(newTestResolver(&factoryStub{resp: []byte{1}}, 1), rdb, 0, zerolog.New(io.Discard))
	_, err = cached.Compute(context.Background(), common.Address{}, fixedSalt(1))
	assert.ErrorIs(t, err, ErrDecodeResult)
	assert.Empty(t, mr.Keys())
}
