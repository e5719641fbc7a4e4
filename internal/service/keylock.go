package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// keyLock serializes work per (student, section) pair so that two
// concurrent writes against the same section of the same student cannot
// interleave their read-validate-write sequences. Locks for distinct
// pairs do not contend.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func lockKey(studentID uuid.UUID, sectionID int) string {
	return fmt.Sprintf("%s:%d", studentID, sectionID)
}

// acquire locks the mutex for the pair and returns an unlock function.
func (k *keyLock) acquire(studentID uuid.UUID, sectionID int) func() {
	mu := k.mutexFor(lockKey(studentID, sectionID))
	mu.Lock()
	return mu.Unlock
}

// acquireAll locks the mutexes for every pair in a deterministic order
// to avoid deadlock when an operation spans multiple sections.
func (k *keyLock) acquireAll(studentID uuid.UUID, sectionIDs []int) func() {
	unique := make(map[int]bool, len(sectionIDs))
	ids := make([]int, 0, len(sectionIDs))
	for _, id := range sectionIDs {
		if !unique[id] {
			unique[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	mutexes := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		mu := k.mutexFor(lockKey(studentID, id))
		mu.Lock()
		mutexes = append(mutexes, mu)
	}
	return func() {
		for i := len(mutexes) - 1; i >= 0; i-- {
			mutexes[i].Unlock()
		}
	}
}

func (k *keyLock) mutexFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	mu, ok := k.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		k.locks[key] = mu
	}
	return mu
}
