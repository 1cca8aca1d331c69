package app

import (
	"sync"

	"jobboard/internal/common"
)

// keyedMutex serializes aggregate mutations per job id so that
// concurrent applies against the same job run one at a time while
// distinct jobs never contend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[common.UUID]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[common.UUID]*sync.Mutex)}
}

func (k *keyedMutex) Lock(id common.UUID) func() {
	k.mu.Lock()
	lock, ok := k.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[id] = lock
	}
	k.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}
