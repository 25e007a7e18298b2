package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBookLockerSerializesPerKey(t *testing.T) {
	locker := newBookLocker()
	bookID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.Lock(bookID)
			defer locker.Unlock(bookID)
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, locker.locks, "lock entries are reclaimed once released")
}

func TestBookLockerIndependentKeys(t *testing.T) {
	locker := newBookLocker()
	first := uuid.New()
	second := uuid.New()

	locker.Lock(first)
	// A different book must not be blocked by the held lock.
	done := make(chan struct{})
	go func() {
		locker.Lock(second)
		locker.Unlock(second)
		close(done)
	}()
	<-done
	locker.Unlock(first)
}
