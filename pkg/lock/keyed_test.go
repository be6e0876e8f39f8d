package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedSerializesSameKey(t *testing.T) {
	k := NewKeyed()

	const workers = 50
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock("alice")
			counter++
			k.Unlock("alice")
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedIndependentKeys(t *testing.T) {
	k := NewKeyed()

	k.Lock("alice")
	done := make(chan struct{})
	go func() {
		k.Lock("bob") // не должен ждать alice
		k.Unlock("bob")
		close(done)
	}()
	<-done
	k.Unlock("alice")
}

func TestKeyedCleansUpEntries(t *testing.T) {
	k := NewKeyed()

	k.Lock("alice")
	k.Unlock("alice")

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}

func TestKeyedUnknownUnlockPanics(t *testing.T) {
	k := NewKeyed()
	assert.Panics(t, func() { k.Unlock("ghost") })
}
