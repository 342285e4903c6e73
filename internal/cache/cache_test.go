package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache(t *testing.T) {
	c := NewCache[string, int]()
	require.NotNil(t, c)
	require.NotNil(t, c.items)
	assert.Zero(t, c.Len())
}

func TestCache_BasicOperations(t *testing.T) {
	c := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("test-key", "test-value")

		got, exists := c.Get("test-key")
		assert.True(t, exists)
		assert.Equal(t, "test-value", got)
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, exists := c.Get("non-existent")
		assert.False(t, exists)
	})

	t.Run("Overwrite existing key", func(t *testing.T) {
		c.Set("overwrite-key", "value1")
		c.Set("overwrite-key", "value2")

		got, _ := c.Get("overwrite-key")
		assert.Equal(t, "value2", got)
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set("delete-key", "v")
		c.Delete("delete-key")
		c.Delete("never-set")

		_, exists := c.Get("delete-key")
		assert.False(t, exists)
	})

	t.Run("Clear", func(t *testing.T) {
		c.Set("a", "1")
		c.Set("b", "2")
		c.Clear()
		assert.Zero(t, c.Len())
	})
}

func TestCache_GetOrSet(t *testing.T) {
	c := NewCache[string, *int]()
	calls := 0
	create := func() *int {
		calls++
		v := calls
		return &v
	}

	first, existed := c.GetOrSet("k", create)
	assert.False(t, existed)

	second, existed := c.GetOrSet("k", create)
	assert.True(t, existed)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCache_DeleteFunc(t *testing.T) {
	c := NewCache[string, int]()
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	removed := c.DeleteFunc(func(_ string, v int) bool { return v%2 == 0 })
	assert.Equal(t, 5, removed)
	assert.Equal(t, 5, c.Len())

	_, ok := c.Get("key-4")
	assert.False(t, ok)
	_, ok = c.Get("key-5")
	assert.True(t, ok)

	assert.Zero(t, c.DeleteFunc(func(string, int) bool { return false }))
}

func TestCache_Concurrency(t *testing.T) {
	c := NewCache[string, int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			c.Set(key, i)
			c.Get(key)
			c.GetOrSet(key, func() int { return i })
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}

func TestStaticHash(t *testing.T) {
	SetStaticHash("/static/style.css", "abc")

	hash, ok := GetStaticHash("/static/style.css")
	assert.True(t, ok)
	assert.Equal(t, "abc", hash)

	_, ok = GetStaticHash("/static/missing.css")
	assert.False(t, ok)
}
