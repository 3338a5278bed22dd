package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store, err := NewGormStore(db)
	require.NoError(t, err)
	return store
}

// backends returns every store that can run in this environment
func backends(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		store := NewRedisStoreWithClient(client, "recoverydesk-test:"+t.Name()+":")
		t.Cleanup(func() {
			ctx := context.Background()
			keys, _ := client.Keys(ctx, store.keyPrefix+"*").Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
			_ = client.Close()
		})
		out["redis"] = store
	}
	return out
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, KeyHardDiskRecords)
			require.NoError(t, err)
			assert.False(t, ok, "missing key should report absent")

			require.NoError(t, s.Set(ctx, KeyHardDiskRecords, []byte(`[{"jobId":"JOB001"}]`)))
			v, ok, err := s.Get(ctx, KeyHardDiskRecords)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `[{"jobId":"JOB001"}]`, string(v))

			require.NoError(t, s.Set(ctx, KeyHardDiskRecords, []byte(`[]`)))
			v, _, err = s.Get(ctx, KeyHardDiskRecords)
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(v))

			require.NoError(t, s.Delete(ctx, KeyHardDiskRecords))
			_, ok, err = s.Get(ctx, KeyHardDiskRecords)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_Apply(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, KeyOutwardRecords, []byte(`[{"id":1}]`)))

			err := Apply(ctx, s, []Op{
				{Key: KeyJobCounter, Value: []byte(`3`)},
				{Key: KeyInwardRecords, Value: []byte(`[{"id":2}]`)},
				{Key: KeyOutwardRecords},
			})
			require.NoError(t, err)

			v, ok, err := s.Get(ctx, KeyJobCounter)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "3", string(v))

			_, ok, err = s.Get(ctx, KeyOutwardRecords)
			require.NoError(t, err)
			assert.False(t, ok, "nil value should delete the key")
		})
	}
}

func TestApply_RejectsEmptyKey(t *testing.T) {
	s := NewMemoryStore()
	err := Apply(context.Background(), s, []Op{
		{Key: KeyJobCounter, Value: []byte(`1`)},
		{Key: "", Value: []byte(`1`)},
	})
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Equal(t, 0, s.Len(), "nothing should be written when a key is invalid")
}

// plainStore hides MemoryStore's Batcher so the sequential path runs
type plainStore struct {
	inner   *MemoryStore
	failKey string
}

func (p *plainStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, key)
}

func (p *plainStore) Set(ctx context.Context, key string, value []byte) error {
	if key == p.failKey {
		return errors.New("disk full")
	}
	return p.inner.Set(ctx, key, value)
}

func (p *plainStore) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, key)
}

func TestApply_SequentialFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("writes in order", func(t *testing.T) {
		s := &plainStore{inner: NewMemoryStore()}
		err := Apply(ctx, s, []Op{
			{Key: KeyJobCounter, Value: []byte(`1`)},
			{Key: KeyJobCounter, Value: []byte(`2`)},
		})
		require.NoError(t, err)
		v, _, _ := s.Get(ctx, KeyJobCounter)
		assert.Equal(t, "2", string(v))
	})

	t.Run("wraps backend errors", func(t *testing.T) {
		s := &plainStore{inner: NewMemoryStore(), failKey: KeyInwardRecords}
		err := Apply(ctx, s, []Op{
			{Key: KeyInwardRecords, Value: []byte(`[]`)},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), KeyInwardRecords)
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := []byte(`[1]`)
	require.NoError(t, s.Set(ctx, "k", in))
	in[1] = '9'

	out, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(out))

	out[1] = '7'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "[1]", string(again))
}
