package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetFromCache(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("names", []string{"TCS", "INFY"}, time.Minute)
	c.Set("count", 2, time.Minute)

	names, ok := GetFromCache[[]string](c, "names")
	assert.True(t, ok)
	assert.Equal(t, []string{"TCS", "INFY"}, names)

	_, ok = GetFromCache[[]string](c, "count")
	assert.False(t, ok, "type mismatch must be a miss")

	_, ok = GetFromCache[int](c, "missing")
	assert.False(t, ok)

	_, ok = GetFromCache[int](nil, "count")
	assert.False(t, ok)
}

func TestCache_DeletePrefix(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("security_listing:", 1, time.Minute)
	c.Set("security_listing:TCS", 2, time.Minute)
	c.Set("other", 3, time.Minute)

	c.DeletePrefix("security_listing:")

	_, ok := c.Get("security_listing:")
	assert.False(t, ok)
	_, ok = c.Get("security_listing:TCS")
	assert.False(t, ok)
	_, ok = c.Get("other")
	assert.True(t, ok)
}

func TestCache_Expiration(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("short", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("short")
	assert.False(t, ok)
}
