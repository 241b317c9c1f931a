package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_Key(t *testing.T) {
	assert.Equal(t, "VT#alice", ValidToken.Key("alice"))
	assert.Equal(t, "BL#some.jwt.token", Blacklist.Key("some.jwt.token"))
	assert.Equal(t, "CF#id-1", ConfirmAccount.Key("id-1"))
	assert.Equal(t, "RP#123456", ResetPassword.Key("123456"))
}

// runStoreSuite exercises behavior both implementations must share.
func runStoreSuite(t *testing.T, s SessionStore) {
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		value, ok, err := s.Get(ctx, ValidToken, "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, ValidToken, "alice", "token-1", time.Minute))

		value, ok, err := s.Get(ctx, ValidToken, "alice")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "token-1", value)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, ValidToken, "alice", "token-2", time.Minute))

		value, _, err := s.Get(ctx, ValidToken, "alice")
		require.NoError(t, err)
		assert.Equal(t, "token-2", value)
	})

	t.Run("categories do not collide", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, Blacklist, "alice", "x", time.Minute))

		value, _, err := s.Get(ctx, ValidToken, "alice")
		require.NoError(t, err)
		assert.Equal(t, "token-2", value)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := s.Exists(ctx, ValidToken, "alice")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Exists(ctx, ValidToken, "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete multiple keys", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, ValidToken, "bob", "token-3", time.Minute))
		require.NoError(t, s.Delete(ctx, ValidToken, "alice", "bob"))

		ok, err := s.Exists(ctx, ValidToken, "alice")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.Exists(ctx, ValidToken, "bob")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete missing key is not an error", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, ValidToken, "nobody"))
	})

	t.Run("scan prefix", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, ValidToken, "carol", "token-4", time.Minute))
		require.NoError(t, s.Put(ctx, ValidToken, "dave", "token-5", time.Minute))
		require.NoError(t, s.Put(ctx, ResetPassword, "carol", "999999", time.Minute))

		keys, err := s.ScanPrefix(ctx, "VT#*")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"VT#carol", "VT#dave"}, keys)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemoryStore())
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, ValidToken, "alice", "token-1", 10*time.Millisecond))
	require.NoError(t, s.Put(ctx, ValidToken, "bob", "token-2", time.Minute))

	time.Sleep(20 * time.Millisecond)

	_, ok, err := s.Get(ctx, ValidToken, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.ScanPrefix(ctx, "VT#*")
	require.NoError(t, err)
	assert.Equal(t, []string{"VT#bob"}, keys)
}

func TestMemoryStore_ContextCancelled(t *testing.T) {
	s := NewMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Put(ctx, ValidToken, "alice", "token-1", time.Minute))

	_, _, err := s.Get(ctx, ValidToken, "alice")
	assert.Error(t, err)

	_, err = s.ScanPrefix(ctx, "VT#*")
	assert.Error(t, err)
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newTestRedisStore(t)
	runStoreSuite(t, s)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	require.NoError(t, s.Put(ctx, Blacklist, "old.jwt", "alice", time.Minute))

	ok, err := s.Exists(ctx, Blacklist, "old.jwt")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = s.Exists(ctx, Blacklist, "old.jwt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	mr.Close()

	assert.Error(t, s.Put(ctx, ValidToken, "alice", "token-1", time.Minute))

	_, _, err := s.Get(ctx, ValidToken, "alice")
	assert.Error(t, err)

	_, err = s.Exists(ctx, ValidToken, "alice")
	assert.Error(t, err)
}
