package service

import (
	"sync"

	"github.com/google/uuid"
)

// bookLocker serializes review mutations per book. The embedded snapshot list
// and average on a book are rewritten wholesale on every mutation, so two
// concurrent writers for the same book would lose one of the updates without
// this lock.
type bookLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*bookLock
}

type bookLock struct {
	mu   sync.Mutex
	refs int
}

func newBookLocker() *bookLocker {
	return &bookLocker{locks: make(map[uuid.UUID]*bookLock)}
}

func (l *bookLocker) Lock(bookID uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.locks[bookID]
	if !ok {
		entry = &bookLock{}
		l.locks[bookID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *bookLocker) Unlock(bookID uuid.UUID) {
	l.mu.Lock()
	entry := l.locks[bookID]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, bookID)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
