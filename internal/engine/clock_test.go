package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_NewClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, uint64(0), c.Current(), "new clock should start at 0")
}

func TestClock_NewClockAt(t *testing.T) {
	c := NewClockAt(100)
	assert.Equal(t, uint64(100), c.Current())
	assert.Equal(t, uint64(101), c.Next())
}

func TestClock_Next_Incrementing(t *testing.T) {
	c := NewClock()

	assert.Equal(t, uint64(1), c.Next())
	assert.Equal(t, uint64(2), c.Next())
	assert.Equal(t, uint64(3), c.Next())
	assert.Equal(t, uint64(3), c.Current())
	assert.Equal(t, uint64(3), c.Current())
}

func TestClock_AboveInt64(t *testing.T) {
	c := NewClockAt(math.MaxInt64)
	assert.Equal(t, uint64(math.MaxInt64)+1, c.Next())
}

func TestClock_ThreadSafe(t *testing.T) {
	c := NewClock()
	const goroutines = 100
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	heights := make(chan uint64, goroutines*callsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				heights <- c.Next()
			}
		}()
	}

	wg.Wait()
	close(heights)

	seen := make(map[uint64]bool)
	for h := range heights {
		assert.False(t, seen[h], "height %d generated twice", h)
		seen[h] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
}
