package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "value")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.SetWithTTL("key", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCacheDelete(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "value")
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheOverwrite(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "one")
	c.Set("key", "two")

	got, _ := c.Get("key")
	assert.Equal(t, "two", got)
	assert.Equal(t, 1, c.Len())
}
