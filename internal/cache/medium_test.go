package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
	err  error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}

	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}

	f.data[key] = value.(string)

	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}

	var removed int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			removed++
		}
	}

	return redis.NewIntResult(removed, nil)
}

func TestUnitMediums(t *testing.T) {
	for name, medium := range map[string]Medium{
		"memory": NewMemoryMedium(),
		"redis":  NewRedisMedium(&fakeRedis{data: make(map[string]string)}),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := medium.GetItem(ctx, "key")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, medium.SetItem(ctx, "key", "raw"))
			raw, ok, err := medium.GetItem(ctx, "key")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "raw", raw)

			require.NoError(t, medium.RemoveItem(ctx, "key"))
			require.NoError(t, medium.RemoveItem(ctx, "key"))

			_, ok, err = medium.GetItem(ctx, "key")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestUnitRedisMediumError(t *testing.T) {
	ctx := context.Background()
	errConn := errors.New("connection refused")
	medium := NewRedisMedium(&fakeRedis{err: errConn})

	_, ok, err := medium.GetItem(ctx, "key")
	require.ErrorIs(t, err, errConn)
	require.False(t, ok)

	require.ErrorIs(t, medium.SetItem(ctx, "key", "raw"), errConn)
	require.ErrorIs(t, medium.RemoveItem(ctx, "key"), errConn)
}
