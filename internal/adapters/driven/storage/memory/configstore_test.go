package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Empty(t, store.Keys())
	assert.Equal(t, ":memory:", store.Path())
}

func TestNewConfigStore_Seed(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"pinning.provider":  "kubo",
		"network.gas_limit": int64(500000),
	})

	assert.Equal(t, "kubo", store.GetString("pinning.provider"))
	assert.Equal(t, 500000, store.GetInt("network.gas_limit"))
	assert.Equal(t, []string{"network.gas_limit", "pinning.provider"}, store.Keys())
}

func TestConfigStore_SetAndUnset(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("verify.host", "https://verify.example.com"))
	val, ok := store.Get("verify.host")
	assert.True(t, ok)
	assert.Equal(t, "https://verify.example.com", val)

	require.NoError(t, store.Unset("verify.host"))
	_, ok = store.Get("verify.host")
	assert.False(t, ok)

	// Unsetting a missing key is fine.
	require.NoError(t, store.Unset("verify.host"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"pinning.jwt":                 "token",
		"pinning.timeout_seconds":     int64(30),
		"pinning.requests_per_second": 1.5,
		"web.cache_ttl_seconds":       10,
	})

	assert.Equal(t, "token", store.GetString("pinning.jwt"))
	assert.Equal(t, "", store.GetString("pinning.timeout_seconds"))
	assert.Equal(t, 30, store.GetInt("pinning.timeout_seconds"))
	assert.Equal(t, 10, store.GetInt("web.cache_ttl_seconds"))
	assert.Equal(t, 0, store.GetInt("pinning.jwt"))
	assert.InDelta(t, 1.5, store.GetFloat("pinning.requests_per_second"), 0.0001)
	assert.InDelta(t, 30.0, store.GetFloat("pinning.timeout_seconds"), 0.0001)
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("network.gas_limit", int64(i))
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("network.gas_limit")
		}()
	}
	wg.Wait()

	_, ok := store.Get("network.gas_limit")
	assert.True(t, ok)
}
