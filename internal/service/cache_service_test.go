package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(context.Context, string, interface{}) error { return errors.New("redis down") }
func (brokenCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}
func (brokenCacheRepo) DeleteByPattern(context.Context, string) error { return errors.New("redis down") }

type payload struct {
	Value int `json:"value"`
}

func TestCachedLoadsOnceThenHits(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	c := NewCacheService(repo, metrics, time.Minute, nil, true)
	loads := 0
	load := func(context.Context) (*payload, error) {
		loads++
		return &payload{Value: 7}, nil
	}

	v, hit, err := cached(context.Background(), c, "k", 0, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v.Value)

	v, hit, err = cached(context.Background(), c, "k", 0, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, v.Value)
	assert.Equal(t, 1, loads)

	_, hits, misses := metrics.Totals()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCachedDoesNotStoreLoadErrors(t *testing.T) {
	repo := newMemoryCacheRepo()
	c := NewCacheService(repo, nil, time.Minute, nil, true)

	_, _, err := cached(context.Background(), c, "k", 0, func(context.Context) (*payload, error) {
		return nil, errors.New("db down")
	})
	require.Error(t, err)
	assert.Zero(t, repo.sets)
}

func TestCachedFallsBackWhenBackendFails(t *testing.T) {
	c := NewCacheService(brokenCacheRepo{}, nil, time.Minute, nil, true)

	v, hit, err := cached(context.Background(), c, "k", 0, func(context.Context) (*payload, error) {
		return &payload{Value: 3}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, v.Value)
	c.Invalidate(context.Background(), "k*")
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	c := NewCacheService(repo, nil, 0, nil, false)
	assert.False(t, c.Enabled())

	c.Set(context.Background(), "k", payload{Value: 1}, 0)
	assert.Zero(t, repo.sets)
	assert.False(t, c.Get(context.Background(), "k", &payload{}))

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	nilCache.Invalidate(context.Background(), "*")
}
