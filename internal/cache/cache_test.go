package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(time.Hour)

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", val)
}

func TestCache_GetMissing(t *testing.T) {
	c := New(time.Hour)

	val, found := c.Get("nonexistent")
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestCache_Expiration(t *testing.T) {
	c := New(50 * time.Millisecond)

	c.Set("key", "value")

	// Should exist immediately
	val, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, "value", val)

	// Wait for expiration
	time.Sleep(100 * time.Millisecond)

	// Should be expired
	val, found = c.Get("key")
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestCache_SetWithTTL(t *testing.T) {
	c := New(time.Hour)

	c.SetWithTTL("short", "value", 50*time.Millisecond)
	c.Set("long", "value") // Uses default TTL of 1 hour

	// Both should exist
	_, found := c.Get("short")
	assert.True(t, found)
	_, found = c.Get("long")
	assert.True(t, found)

	// Wait for short TTL
	time.Sleep(100 * time.Millisecond)

	// Short should be expired, long should still exist
	_, found = c.Get("short")
	assert.False(t, found)
	_, found = c.Get("long")
	assert.True(t, found)
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Hour)

	c.Set("key", "value")
	c.Delete("key")

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCache_Clear(t *testing.T) {
	c := New(time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Clear()

	_, found := c.Get("key1")
	assert.False(t, found)
	_, found = c.Get("key2")
	assert.False(t, found)
}

func TestCache_GetOrSet(t *testing.T) {
	c := New(time.Hour)

	callCount := 0
	fn := func() (interface{}, error) {
		callCount++
		return "computed", nil
	}

	// First call should invoke the function
	val, err := c.GetOrSet("key", fn)
	assert.NoError(t, err)
	assert.Equal(t, "computed", val)
	assert.Equal(t, 1, callCount)

	// Second call should use cached value
	val, err = c.GetOrSet("key", fn)
	assert.NoError(t, err)
	assert.Equal(t, "computed", val)
	assert.Equal(t, 1, callCount) // Function not called again
}

func TestCache_GetOrSetError(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	_, err := c.GetOrSet(KeyHost, func() (interface{}, error) {
		return nil, errors.New("host unavailable")
	})
	assert.Error(t, err)

	// Failures are not cached
	_, found := c.Get(KeyHost)
	assert.False(t, found)
}

func TestCache_VolumeKeys(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	c.Set(KeyVolume+"/mnt/a", "volume-a")
	c.Set(KeyVolume+"/mnt/b", "volume-b")

	val, found := c.Get(KeyVolume + "/mnt/a")
	assert.True(t, found)
	assert.Equal(t, "volume-a", val)

	val, found = c.Get(KeyVolume + "/mnt/b")
	assert.True(t, found)
	assert.Equal(t, "volume-b", val)
}

func TestCache_CloseTwice(t *testing.T) {
	c := New(time.Hour)

	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Hour)

	done := make(chan bool)

	// Writer goroutine
	go func() {
		for i := 0; i < 100; i++ {
			c.Set("key", i)
		}
		done <- true
	}()

	// Reader goroutine
	go func() {
		for i := 0; i < 100; i++ {
			c.Get("key")
		}
		done <- true
	}()

	// Wait for both
	<-done
	<-done
}
