package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), "", 0)
}

func TestGetOrLoad_LoadsOnceThenHits(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) ([]byte, error) {
		loads++
		return []byte(`"hello"`), nil
	}

	b, err := c.GetOrLoad(ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(b))

	b, err = c.GetOrLoad(ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(b))
	assert.Equal(t, 1, loads)
}

func TestGetOrLoad_LoadErrorIsNotCached(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := c.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNilCacheIsPassThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	c.Set(ctx, "k", []byte("v"), time.Minute) // must not panic

	loads := 0
	b, err := c.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) {
		loads++
		return []byte("v"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
	assert.Equal(t, 1, loads)
}

type profile struct {
	Name string `json:"name"`
}

func TestJSONHelpers(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := GetJSON[profile](c, ctx, "p")
	assert.False(t, ok)

	SetJSON(c, ctx, "p", &profile{Name: "Ada"}, time.Minute)
	got, ok := GetJSON[profile](c, ctx, "p")
	require.True(t, ok)
	assert.Equal(t, "Ada", got.Name)
}

func TestGetOrLoadJSON(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (*profile, error) {
		loads++
		return &profile{Name: "Ada"}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "p", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	got, err = GetOrLoadJSON(c, ctx, "p", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, 1, loads)
}

func TestGetOrLoadJSON_NilValue(t *testing.T) {
	c := newTestCache(t)
	got, err := GetOrLoadJSON(c, context.Background(), "missing", time.Minute,
		func(context.Context) (*profile, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, got)
}
