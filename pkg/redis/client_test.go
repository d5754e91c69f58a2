package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCmd struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	getExes int
}

func newMemCmd() *memCmd {
	return &memCmd{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCmd) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memCmd) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (m *memCmd) GetEx(ctx context.Context, key string, expiration time.Duration) *redis.StringCmd {
	m.getExes++
	if _, ok := m.data[key]; ok {
		m.ttls[key] = expiration
	}
	return m.Get(ctx, key)
}

func (m *memCmd) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = value.([]byte)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestStoreAndFetch(t *testing.T) {
	ctx := context.Background()
	cmd := newMemCmd()
	client := &Client{cmd: cmd}
	key := client.Key("cart", "bazaar_cart:s1")

	require.NoError(t, client.Store(ctx, key, []byte(`[{"kind":"product"}]`), time.Hour))
	assert.Equal(t, time.Hour, cmd.ttls[key])

	got, err := client.Fetch(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, `[{"kind":"product"}]`, string(got))
	assert.Zero(t, cmd.getExes, "zero refresh should use plain GET")

	_, err = client.Fetch(ctx, client.Key("cart", "missing"), 0)
	assert.True(t, IsNil(err))
}

func TestFetchRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	cmd := newMemCmd()
	client := &Client{cmd: cmd}

	require.NoError(t, client.Store(ctx, "bz:cart:x", []byte("[]"), time.Minute))
	_, err := client.Fetch(ctx, "bz:cart:x", 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.getExes)
	assert.Equal(t, 2*time.Hour, cmd.ttls["bz:cart:x"])
}

func TestUnconnectedClient(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.Ping(context.Background()))
	_, err := client.Fetch(context.Background(), "k", 0)
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}

func TestKey(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "bz:cart:bazaar_cart:abc", client.Key("cart", "bazaar_cart:abc"))
	assert.Equal(t, "bz:cart", client.Key("cart", " "))
	assert.Equal(t, "bz", client.Key())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	_, err = optionsFromConfig(config.RedisConfig{URL: "http://not-redis"})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://localhost:6379/2",
		DB:          5,
		PoolSize:    7,
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, opts.DB, "db from the url wins")
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", Password: "pw", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

func TestCloseDelegates(t *testing.T) {
	closed := errors.New("closed")
	client := &Client{closer: func() error { return closed }}
	assert.ErrorIs(t, client.Close(), closed)
}
